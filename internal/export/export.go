// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export renders fetched citations for display and turns them into
// downloadable artifacts. Every export is a pure transformation of the
// already-fetched citation: no network, deterministic output.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/AyaanShaheer/cite-engine/pkg/types"
)

// Format selects an export representation.
type Format string

const (
	FormatText   Format = "text"
	FormatBibTeX Format = "bibtex"
	FormatRIS    Format = "ris"
	FormatCSL    Format = "csl"
)

// ParseFormat resolves an export format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText, "":
		return FormatText, nil
	case FormatBibTeX:
		return FormatBibTeX, nil
	case FormatRIS:
		return FormatRIS, nil
	case FormatCSL:
		return FormatCSL, nil
	default:
		return "", fmt.Errorf("unsupported export format %q: use text, bibtex, ris, or csl", s)
	}
}

// Extension returns the file extension for a format, including the dot.
func Extension(f Format) string {
	switch f {
	case FormatBibTeX:
		return ".bib"
	case FormatRIS:
		return ".ris"
	case FormatCSL:
		return ".yaml"
	default:
		return ".txt"
	}
}

// Record pairs a fetched citation with the metadata that produced it.
// Metadata is nil when the source fields are unknown client-side
// (free-text, DOI, and URL generation), in which case the structured
// formats fall back to wrapping the formatted citation string.
type Record struct {
	Citation types.Citation
	Metadata *types.SourceMetadata
}

// Write renders the record in the given format.
func Write(w io.Writer, rec Record, format Format) error {
	switch format {
	case FormatText:
		_, err := fmt.Fprintln(w, rec.Citation.Citation)
		return err
	case FormatBibTeX:
		return writeBibTeX(w, rec)
	case FormatRIS:
		return writeRIS(w, rec)
	case FormatCSL:
		return writeCSL(w, rec)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// WritePreview prints the citation, its in-text form, and any warnings,
// all verbatim. An empty warnings list prints nothing for warnings.
func WritePreview(w io.Writer, c types.Citation) {
	fmt.Fprintln(w, c.Citation)
	if c.InTextCitation != "" {
		fmt.Fprintf(w, "\nIn-text: %s\n", c.InTextCitation)
	}
	if len(c.Warnings) > 0 {
		fmt.Fprintln(w, "\nWarnings:")
		for _, warning := range c.Warnings {
			fmt.Fprintf(w, "  - %s\n", warning)
		}
	}
}

// CiteKey derives a BibTeX-style key: first author's lowercased last name
// plus the year, "nd" when the year is unknown.
func CiteKey(meta *types.SourceMetadata) string {
	last := "unknown"
	year := "nd"
	if meta != nil {
		if len(meta.Authors) > 0 {
			last = sanitizeKey(strings.ToLower(meta.Authors[0].LastName))
		}
		if meta.Year != nil {
			year = fmt.Sprintf("%d", *meta.Year)
		}
	}
	return last + year
}

// sanitizeKey strips characters that are not legal in a BibTeX key.
func sanitizeKey(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "unknown"
	}
	return b.String()
}

// bibtexEntryType maps source types to BibTeX entry types.
func bibtexEntryType(st types.SourceType) string {
	switch st {
	case types.SourceJournalArticle:
		return "article"
	case types.SourceBook:
		return "book"
	case types.SourceBookChapter:
		return "inbook"
	case types.SourceConferencePaper:
		return "inproceedings"
	case types.SourceThesis:
		return "phdthesis"
	case types.SourceReport:
		return "techreport"
	default:
		return "misc"
	}
}

func writeBibTeX(w io.Writer, rec Record) error {
	meta := rec.Metadata
	var b strings.Builder

	if meta == nil {
		// No structured fields: wrap the formatted citation string.
		fmt.Fprintf(&b, "@misc{%s,\n", CiteKey(nil))
		fmt.Fprintf(&b, "  note = {%s},\n", rec.Citation.Citation)
		b.WriteString("}\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	fmt.Fprintf(&b, "@%s{%s,\n", bibtexEntryType(meta.SourceType), CiteKey(meta))

	if len(meta.Authors) > 0 {
		names := make([]string, len(meta.Authors))
		for i, a := range meta.Authors {
			names[i] = bibtexAuthor(a)
		}
		fmt.Fprintf(&b, "  author = {%s},\n", strings.Join(names, " and "))
	}
	fmt.Fprintf(&b, "  title = {%s},\n", meta.Title)
	if meta.Year != nil {
		fmt.Fprintf(&b, "  year = {%d},\n", *meta.Year)
	}
	if meta.Publication != "" {
		fmt.Fprintf(&b, "  journal = {%s},\n", meta.Publication)
	}
	if meta.Publisher != "" {
		fmt.Fprintf(&b, "  publisher = {%s},\n", meta.Publisher)
	}
	if meta.Institution != "" {
		fmt.Fprintf(&b, "  institution = {%s},\n", meta.Institution)
	}
	if meta.Volume != "" {
		fmt.Fprintf(&b, "  volume = {%s},\n", meta.Volume)
	}
	if meta.Issue != "" {
		fmt.Fprintf(&b, "  number = {%s},\n", meta.Issue)
	}
	if meta.Pages != "" {
		fmt.Fprintf(&b, "  pages = {%s},\n", meta.Pages)
	}
	if meta.DOI != "" {
		fmt.Fprintf(&b, "  doi = {%s},\n", meta.DOI)
	}
	if meta.URL != "" {
		fmt.Fprintf(&b, "  url = {%s},\n", meta.URL)
	}
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// bibtexAuthor renders "First Middle Last Suffix" for a BibTeX author list.
func bibtexAuthor(a types.Author) string {
	parts := []string{a.FirstName}
	if a.MiddleName != "" {
		parts = append(parts, a.MiddleName)
	}
	parts = append(parts, a.LastName)
	if a.Suffix != "" {
		parts = append(parts, a.Suffix)
	}
	return strings.Join(parts, " ")
}

// risType maps source types to RIS reference types.
func risType(st types.SourceType) string {
	switch st {
	case types.SourceJournalArticle:
		return "JOUR"
	case types.SourceBook:
		return "BOOK"
	case types.SourceBookChapter:
		return "CHAP"
	case types.SourceWebsite:
		return "ELEC"
	case types.SourceConferencePaper:
		return "CPAPER"
	case types.SourceThesis:
		return "THES"
	case types.SourceReport:
		return "RPRT"
	case types.SourceVideo:
		return "VIDEO"
	case types.SourcePodcast:
		return "SOUND"
	case types.SourceNewspaper:
		return "NEWS"
	default:
		return "GEN"
	}
}

func writeRIS(w io.Writer, rec Record) error {
	meta := rec.Metadata
	var b strings.Builder

	if meta == nil {
		b.WriteString("TY  - GEN\n")
		fmt.Fprintf(&b, "N1  - %s\n", rec.Citation.Citation)
		b.WriteString("ER  - \n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	fmt.Fprintf(&b, "TY  - %s\n", risType(meta.SourceType))
	for _, a := range meta.Authors {
		fmt.Fprintf(&b, "AU  - %s\n", risAuthor(a))
	}
	fmt.Fprintf(&b, "TI  - %s\n", meta.Title)
	if meta.Year != nil {
		fmt.Fprintf(&b, "PY  - %d\n", *meta.Year)
	}
	if meta.Publication != "" {
		fmt.Fprintf(&b, "JO  - %s\n", meta.Publication)
	}
	if meta.Publisher != "" {
		fmt.Fprintf(&b, "PB  - %s\n", meta.Publisher)
	}
	if meta.Institution != "" {
		fmt.Fprintf(&b, "PB  - %s\n", meta.Institution)
	}
	if meta.Volume != "" {
		fmt.Fprintf(&b, "VL  - %s\n", meta.Volume)
	}
	if meta.Issue != "" {
		fmt.Fprintf(&b, "IS  - %s\n", meta.Issue)
	}
	if start, end, ok := splitPages(meta.Pages); ok {
		fmt.Fprintf(&b, "SP  - %s\n", start)
		if end != "" {
			fmt.Fprintf(&b, "EP  - %s\n", end)
		}
	}
	if meta.DOI != "" {
		fmt.Fprintf(&b, "DO  - %s\n", meta.DOI)
	}
	if meta.URL != "" {
		fmt.Fprintf(&b, "UR  - %s\n", meta.URL)
	}
	b.WriteString("ER  - \n")

	_, err := io.WriteString(w, b.String())
	return err
}

// risAuthor renders "Last, First Middle, Suffix" per the RIS AU convention.
func risAuthor(a types.Author) string {
	given := a.FirstName
	if a.MiddleName != "" {
		given += " " + a.MiddleName
	}
	s := a.LastName + ", " + given
	if a.Suffix != "" {
		s += ", " + a.Suffix
	}
	return s
}

// splitPages splits "5998-6008" into start and end. A single page or an
// unparseable range becomes just the start page.
func splitPages(pages string) (start, end string, ok bool) {
	pages = strings.TrimSpace(pages)
	if pages == "" {
		return "", "", false
	}
	parts := strings.SplitN(pages, "-", 2)
	start = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		end = strings.TrimSpace(parts[1])
	}
	if start == "" {
		return "", "", false
	}
	return start, end, true
}
