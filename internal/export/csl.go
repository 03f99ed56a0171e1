package export

import (
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/AyaanShaheer/cite-engine/pkg/types"
)

// CSLItem is a bibliographic entry in CSL (Citation Style Language) format.
// The field names follow the CSL-JSON/CSL-YAML schema so that output is
// consumable by Pandoc and reference managers.
type CSLItem struct {
	ID        string    `yaml:"id"`
	Type      string    `yaml:"type"`
	Title     string    `yaml:"title"`
	Author    []CSLName `yaml:"author,omitempty"`
	Issued    *CSLDate  `yaml:"issued,omitempty"`
	Container string    `yaml:"container-title,omitempty"`
	Publisher string    `yaml:"publisher,omitempty"`
	Volume    string    `yaml:"volume,omitempty"`
	Issue     string    `yaml:"issue,omitempty"`
	Page      string    `yaml:"page,omitempty"`
	DOI       string    `yaml:"DOI,omitempty"`
	URL       string    `yaml:"URL,omitempty"`
	Note      string    `yaml:"note,omitempty"`
}

// CSLName is a person's name in CSL format.
type CSLName struct {
	Family string `yaml:"family,omitempty"`
	Given  string `yaml:"given,omitempty"`
	Suffix string `yaml:"suffix,omitempty"`
}

// CSLDate is a date in CSL date-parts format.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// cslType maps source types to CSL item types.
func cslType(st types.SourceType) string {
	switch st {
	case types.SourceJournalArticle:
		return "article-journal"
	case types.SourceBook:
		return "book"
	case types.SourceBookChapter:
		return "chapter"
	case types.SourceWebsite:
		return "webpage"
	case types.SourceConferencePaper:
		return "paper-conference"
	case types.SourceThesis:
		return "thesis"
	case types.SourceReport:
		return "report"
	case types.SourceVideo:
		return "motion_picture"
	case types.SourcePodcast:
		return "broadcast"
	case types.SourceNewspaper:
		return "article-newspaper"
	default:
		return "document"
	}
}

// writeCSL writes the record as a single-item CSL-YAML list. Without
// structured metadata the formatted citation string is preserved in the
// note field of a generic item.
func writeCSL(w io.Writer, rec Record) error {
	item := toCSLItem(rec)
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode([]CSLItem{item})
}

func toCSLItem(rec Record) CSLItem {
	meta := rec.Metadata
	if meta == nil {
		return CSLItem{
			ID:   CiteKey(nil),
			Type: "document",
			Note: rec.Citation.Citation,
		}
	}

	item := CSLItem{
		ID:        CiteKey(meta),
		Type:      cslType(meta.SourceType),
		Title:     meta.Title,
		Container: meta.Publication,
		Publisher: meta.Publisher,
		Volume:    meta.Volume,
		Issue:     meta.Issue,
		Page:      meta.Pages,
		DOI:       meta.DOI,
		URL:       meta.URL,
	}
	if item.Publisher == "" {
		item.Publisher = meta.Institution
	}

	for _, a := range meta.Authors {
		given := a.FirstName
		if a.MiddleName != "" {
			given += " " + a.MiddleName
		}
		item.Author = append(item.Author, CSLName{
			Family: a.LastName,
			Given:  given,
			Suffix: a.Suffix,
		})
	}

	if meta.Year != nil {
		item.Issued = &CSLDate{DateParts: [][]int{{*meta.Year}}}
	}

	return item
}
