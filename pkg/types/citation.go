// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data types exchanged with the citation
// service and between pipeline stages.
package types

// SourceType is the category of work being cited. It determines which
// optional metadata fields are meaningful.
type SourceType string

const (
	SourceJournalArticle  SourceType = "journal_article"
	SourceBook            SourceType = "book"
	SourceBookChapter     SourceType = "book_chapter"
	SourceWebsite         SourceType = "website"
	SourceConferencePaper SourceType = "conference_paper"
	SourceThesis          SourceType = "thesis"
	SourceReport          SourceType = "report"
	SourceVideo           SourceType = "video"
	SourcePodcast         SourceType = "podcast"
	SourceNewspaper       SourceType = "newspaper"
)

// SourceTypes lists all source types in display order.
var SourceTypes = []SourceType{
	SourceJournalArticle,
	SourceBook,
	SourceBookChapter,
	SourceWebsite,
	SourceConferencePaper,
	SourceThesis,
	SourceReport,
	SourceVideo,
	SourcePodcast,
	SourceNewspaper,
}

// CitationStyle is a named citation formatting convention. The formatting
// rules themselves live in the remote service; the client only selects.
type CitationStyle string

const (
	StyleAPA7      CitationStyle = "apa_7"
	StyleMLA9      CitationStyle = "mla_9"
	StyleChicago17 CitationStyle = "chicago_17"
	StyleIEEE      CitationStyle = "ieee"
	StyleHarvard   CitationStyle = "harvard"
	StyleVancouver CitationStyle = "vancouver"
)

// CitationStyles lists all supported styles in display order.
var CitationStyles = []CitationStyle{
	StyleAPA7,
	StyleMLA9,
	StyleChicago17,
	StyleIEEE,
	StyleHarvard,
	StyleVancouver,
}

// Author is one author of a source. First and last name are required
// together; an entry with only one of the two is incomplete and is dropped
// before submission. Order in the containing slice is citation-significant.
type Author struct {
	FirstName  string `json:"first_name" yaml:"first_name"`
	LastName   string `json:"last_name" yaml:"last_name"`
	MiddleName string `json:"middle_name,omitempty" yaml:"middle_name,omitempty"`
	Suffix     string `json:"suffix,omitempty" yaml:"suffix,omitempty"`
}

// Complete reports whether the author has both a first and a last name.
func (a Author) Complete() bool {
	return a.FirstName != "" && a.LastName != ""
}

// SourceMetadata is the normalized description of one bibliographic source.
// Optional fields that were not provided are omitted from the JSON payload
// entirely, so the remote service can distinguish "omitted" from "blank".
type SourceMetadata struct {
	SourceType SourceType `json:"source_type" yaml:"source_type"`
	Title      string     `json:"title" yaml:"title"`
	Authors    []Author   `json:"authors" yaml:"authors"`
	Year       *int       `json:"year,omitempty" yaml:"year,omitempty"`

	// Publication details. Publication holds the journal, magazine, or
	// website name; Publisher is used instead for books.
	Publication string `json:"publication,omitempty" yaml:"publication,omitempty"`
	Volume      string `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue       string `json:"issue,omitempty" yaml:"issue,omitempty"`
	Pages       string `json:"pages,omitempty" yaml:"pages,omitempty"`

	// Digital identifiers.
	DOI        string `json:"doi,omitempty" yaml:"doi,omitempty"`
	URL        string `json:"url,omitempty" yaml:"url,omitempty"`
	AccessDate string `json:"access_date,omitempty" yaml:"access_date,omitempty"`

	// Book-specific.
	Edition           string `json:"edition,omitempty" yaml:"edition,omitempty"`
	Publisher         string `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	PublisherLocation string `json:"publisher_location,omitempty" yaml:"publisher_location,omitempty"`

	// Conference-specific.
	ConferenceName     string `json:"conference_name,omitempty" yaml:"conference_name,omitempty"`
	ConferenceLocation string `json:"conference_location,omitempty" yaml:"conference_location,omitempty"`

	// Thesis-specific.
	Institution string `json:"institution,omitempty" yaml:"institution,omitempty"`
	DegreeType  string `json:"degree_type,omitempty" yaml:"degree_type,omitempty"`

	// Media-specific.
	Duration string `json:"duration,omitempty" yaml:"duration,omitempty"`
	Producer string `json:"producer,omitempty" yaml:"producer,omitempty"`
}

// Citation is the formatted result for one source in one style.
type Citation struct {
	// Citation is the full bibliography entry, formatted by the service.
	// It is displayed and exported as-is, never reformatted client-side.
	Citation string `json:"citation" yaml:"citation"`

	// InTextCitation is the short parenthetical or numeric inline form.
	InTextCitation string `json:"in_text_citation" yaml:"in_text_citation"`

	Style  CitationStyle `json:"style" yaml:"style"`
	Format string        `json:"format" yaml:"format"`

	// Warnings lists human-readable caveats (e.g. a missing DOI) in the
	// order the service reported them.
	Warnings []string `json:"warnings" yaml:"warnings"`

	// MetadataUsed echoes the normalized inputs the service consumed.
	MetadataUsed map[string]any `json:"metadata_used,omitempty" yaml:"metadata_used,omitempty"`
}

// ValidationReport is the service's judgement of an existing citation string.
type ValidationReport struct {
	IsValid           bool     `json:"is_valid" yaml:"is_valid"`
	Errors            []string `json:"errors" yaml:"errors"`
	Suggestions       []string `json:"suggestions" yaml:"suggestions"`
	CorrectedCitation string   `json:"corrected_citation" yaml:"corrected_citation"`
}

// StyleInfo describes one supported citation style as listed by the service.
type StyleInfo struct {
	Code        string `json:"code" yaml:"code"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// SourceTypeInfo describes one supported source type as listed by the service.
type SourceTypeInfo struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}
