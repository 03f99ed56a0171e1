// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package request builds validated citation requests from raw form input.
// It owns client-side validation: required-field checks, lenient year
// parsing, author completeness filtering, and routing of the shared
// publication/publisher input by source type.
package request

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/AyaanShaheer/cite-engine/pkg/types"
)

// AuthorInput is one editable author row. Entries missing a first or last
// name stay editable in the form but are excluded from the outgoing payload.
type AuthorInput struct {
	FirstName  string
	LastName   string
	MiddleName string
	Suffix     string
}

// FormState is the raw, unvalidated state of a citation entry form. All
// fields are plain strings as the user typed them; Build produces the
// normalized metadata.
type FormState struct {
	SourceType string
	Style      string
	Title      string
	Authors    []AuthorInput

	Year string

	// Publication is the single journal/publisher input. For books it is
	// routed to the metadata publisher field, for every other source type
	// to the publication field.
	Publication string

	Volume             string
	Issue              string
	Pages              string
	DOI                string
	URL                string
	AccessDate         string
	Edition            string
	PublisherLocation  string
	ConferenceName     string
	ConferenceLocation string
	Institution        string
	DegreeType         string
	Duration           string
	Producer           string

	// AllowAnonymous permits submission with no complete author; the
	// service falls back to an anonymous/no-author citation.
	AllowAnonymous bool
}

// ValidationError reports which required fields are missing or malformed.
// It is a local failure: no network call was made.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required field(s): " + strings.Join(e.Missing, ", ")
}

// ParseSourceType resolves a source type code. Unknown codes are an error
// listing the valid values.
func ParseSourceType(s string) (types.SourceType, error) {
	st := types.SourceType(strings.TrimSpace(strings.ToLower(s)))
	for _, known := range types.SourceTypes {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown source type %q: valid types are %s", s, joinSourceTypes())
}

// ParseStyle resolves a citation style code. Unknown codes are an error
// listing the valid values.
func ParseStyle(s string) (types.CitationStyle, error) {
	cs := types.CitationStyle(strings.TrimSpace(strings.ToLower(s)))
	for _, known := range types.CitationStyles {
		if cs == known {
			return cs, nil
		}
	}
	return "", fmt.Errorf("unknown citation style %q: valid styles are %s", s, joinStyles())
}

func joinSourceTypes() string {
	codes := make([]string, len(types.SourceTypes))
	for i, st := range types.SourceTypes {
		codes[i] = string(st)
	}
	return strings.Join(codes, ", ")
}

func joinStyles() string {
	codes := make([]string, len(types.CitationStyles))
	for i, cs := range types.CitationStyles {
		codes[i] = string(cs)
	}
	return strings.Join(codes, ", ")
}

// Build validates the form state and produces normalized source metadata
// plus the selected style. Empty optional inputs are omitted from the
// metadata rather than sent as empty strings, and optional fields that do
// not apply to the chosen source type are dropped even when filled in.
func Build(form FormState) (types.SourceMetadata, types.CitationStyle, error) {
	sourceType, err := ParseSourceType(form.SourceType)
	if err != nil {
		return types.SourceMetadata{}, "", err
	}
	style, err := ParseStyle(form.Style)
	if err != nil {
		return types.SourceMetadata{}, "", err
	}

	title := strings.TrimSpace(form.Title)
	authors := CompleteAuthors(form.Authors)

	var missing []string
	if title == "" {
		missing = append(missing, "title")
	}
	if len(authors) == 0 && !form.AllowAnonymous {
		missing = append(missing, "author (first and last name)")
	}
	if len(missing) > 0 {
		return types.SourceMetadata{}, "", &ValidationError{Missing: missing}
	}

	meta := types.SourceMetadata{
		SourceType: sourceType,
		Title:      title,
		Authors:    authors,
	}

	applicable := FieldsFor(sourceType)

	if applicable[FieldYear] {
		meta.Year = LenientYear(form.Year)
	}

	// The form presents one publication/publisher input; route it to the
	// field the source type expects, never both.
	publication := strings.TrimSpace(form.Publication)
	if publication != "" {
		if applicable[FieldPublisher] && !applicable[FieldPublication] {
			meta.Publisher = publication
		} else if applicable[FieldPublication] {
			meta.Publication = publication
		}
	}

	setters := []struct {
		field Field
		value string
		dst   *string
	}{
		{FieldVolume, form.Volume, &meta.Volume},
		{FieldIssue, form.Issue, &meta.Issue},
		{FieldPages, form.Pages, &meta.Pages},
		{FieldDOI, form.DOI, &meta.DOI},
		{FieldURL, form.URL, &meta.URL},
		{FieldAccessDate, form.AccessDate, &meta.AccessDate},
		{FieldEdition, form.Edition, &meta.Edition},
		{FieldPublisherLocation, form.PublisherLocation, &meta.PublisherLocation},
		{FieldConferenceName, form.ConferenceName, &meta.ConferenceName},
		{FieldConferenceLocation, form.ConferenceLocation, &meta.ConferenceLocation},
		{FieldInstitution, form.Institution, &meta.Institution},
		{FieldDegreeType, form.DegreeType, &meta.DegreeType},
		{FieldDuration, form.Duration, &meta.Duration},
		{FieldProducer, form.Producer, &meta.Producer},
	}
	for _, s := range setters {
		v := strings.TrimSpace(s.value)
		if v != "" && applicable[s.field] {
			*s.dst = v
		}
	}

	return meta, style, nil
}

// Normalize validates already-typed metadata, e.g. one entry of a batch
// sources file. It trims the title, drops incomplete authors, and clears
// non-positive years; a missing title or (unless allowAnonymous) an empty
// author list after filtering is a *ValidationError.
func Normalize(meta types.SourceMetadata, allowAnonymous bool) (types.SourceMetadata, error) {
	if _, err := ParseSourceType(string(meta.SourceType)); err != nil {
		return types.SourceMetadata{}, err
	}

	meta.Title = strings.TrimSpace(meta.Title)

	var authors []types.Author
	for _, a := range meta.Authors {
		a.FirstName = strings.TrimSpace(a.FirstName)
		a.LastName = strings.TrimSpace(a.LastName)
		if a.Complete() {
			authors = append(authors, a)
		}
	}
	meta.Authors = authors

	if meta.Year != nil && *meta.Year <= 0 {
		meta.Year = nil
	}

	var missing []string
	if meta.Title == "" {
		missing = append(missing, "title")
	}
	if len(meta.Authors) == 0 && !allowAnonymous {
		missing = append(missing, "author (first and last name)")
	}
	if len(missing) > 0 {
		return types.SourceMetadata{}, &ValidationError{Missing: missing}
	}
	return meta, nil
}

// ParseAuthor turns a command-line author string into an AuthorInput.
// It accepts "Last, First Middle" and "First Middle Last"; in the second
// form the final token is the last name.
func ParseAuthor(s string) AuthorInput {
	s = strings.TrimSpace(s)
	if s == "" {
		return AuthorInput{}
	}

	if comma := strings.Index(s, ","); comma >= 0 {
		last := strings.TrimSpace(s[:comma])
		given := strings.Fields(s[comma+1:])
		in := AuthorInput{LastName: last}
		if len(given) > 0 {
			in.FirstName = given[0]
		}
		if len(given) > 1 {
			in.MiddleName = strings.Join(given[1:], " ")
		}
		return in
	}

	tokens := strings.Fields(s)
	switch len(tokens) {
	case 1:
		return AuthorInput{LastName: tokens[0]}
	case 2:
		return AuthorInput{FirstName: tokens[0], LastName: tokens[1]}
	default:
		return AuthorInput{
			FirstName:  tokens[0],
			MiddleName: strings.Join(tokens[1:len(tokens)-1], " "),
			LastName:   tokens[len(tokens)-1],
		}
	}
}

// CompleteAuthors returns the authors that have both a first and last name,
// trimmed, in their original order. Incomplete entries are dropped from the
// result; the caller's editable form state is untouched.
func CompleteAuthors(inputs []AuthorInput) []types.Author {
	var authors []types.Author
	for _, in := range inputs {
		a := types.Author{
			FirstName:  strings.TrimSpace(in.FirstName),
			LastName:   strings.TrimSpace(in.LastName),
			MiddleName: strings.TrimSpace(in.MiddleName),
			Suffix:     strings.TrimSpace(in.Suffix),
		}
		if a.Complete() {
			authors = append(authors, a)
		}
	}
	return authors
}

// LenientYear parses a year string. Text that does not parse to a positive
// integer is treated as "not provided" rather than rejected.
func LenientYear(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	y, err := strconv.Atoi(s)
	if err != nil || y <= 0 {
		return nil
	}
	return &y
}

// doiPattern matches bare DOIs: "10.1145/1234567.1234568".
var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/[^\s]+$`)

// NormalizeDOI strips resolver prefixes ("https://doi.org/", "doi:") and
// reports whether the remainder looks like a DOI.
func NormalizeDOI(s string) (string, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "https://doi.org/")
	s = strings.TrimPrefix(s, "http://doi.org/")
	s = strings.TrimPrefix(s, "doi:")
	return s, doiPattern.MatchString(s)
}
