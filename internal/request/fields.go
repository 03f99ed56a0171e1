// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package request

import "github.com/AyaanShaheer/cite-engine/pkg/types"

// Field identifies one optional metadata input on the citation form.
type Field string

const (
	FieldYear               Field = "year"
	FieldPublication        Field = "publication"
	FieldVolume             Field = "volume"
	FieldIssue              Field = "issue"
	FieldPages              Field = "pages"
	FieldDOI                Field = "doi"
	FieldURL                Field = "url"
	FieldAccessDate         Field = "access_date"
	FieldEdition            Field = "edition"
	FieldPublisher          Field = "publisher"
	FieldPublisherLocation  Field = "publisher_location"
	FieldConferenceName     Field = "conference_name"
	FieldConferenceLocation Field = "conference_location"
	FieldInstitution        Field = "institution"
	FieldDegreeType         Field = "degree_type"
	FieldDuration           Field = "duration"
	FieldProducer           Field = "producer"
)

// fieldsByType maps each source type to its applicable optional fields.
// It is the single place that decides which inputs the interactive form
// shows and which values the builder copies into the payload.
var fieldsByType = map[types.SourceType][]Field{
	types.SourceJournalArticle: {
		FieldYear, FieldPublication, FieldVolume, FieldIssue, FieldPages,
		FieldDOI, FieldURL,
	},
	types.SourceBook: {
		FieldYear, FieldPublisher, FieldEdition, FieldPublisherLocation,
		FieldDOI, FieldURL,
	},
	types.SourceBookChapter: {
		FieldYear, FieldPublication, FieldEdition, FieldPages,
		FieldDOI, FieldURL,
	},
	types.SourceWebsite: {
		FieldYear, FieldPublication, FieldURL, FieldAccessDate,
	},
	types.SourceConferencePaper: {
		FieldYear, FieldConferenceName, FieldConferenceLocation,
		FieldPages, FieldDOI, FieldURL,
	},
	types.SourceThesis: {
		FieldYear, FieldInstitution, FieldDegreeType, FieldURL,
	},
	types.SourceReport: {
		FieldYear, FieldInstitution, FieldPublication, FieldDOI, FieldURL,
	},
	types.SourceVideo: {
		FieldYear, FieldURL, FieldDuration, FieldProducer, FieldAccessDate,
	},
	types.SourcePodcast: {
		FieldYear, FieldPublication, FieldURL, FieldDuration,
		FieldProducer, FieldAccessDate,
	},
	types.SourceNewspaper: {
		FieldYear, FieldPublication, FieldPages, FieldURL, FieldAccessDate,
	},
}

// FieldsFor returns the set of optional fields applicable to a source type.
// Unknown source types get an empty set.
func FieldsFor(sourceType types.SourceType) map[Field]bool {
	fields := make(map[Field]bool, len(fieldsByType[sourceType]))
	for _, f := range fieldsByType[sourceType] {
		fields[f] = true
	}
	return fields
}

// FieldOrder returns the applicable fields for a source type in prompt
// order, for the interactive form.
func FieldOrder(sourceType types.SourceType) []Field {
	return fieldsByType[sourceType]
}

// Label returns the prompt label for a field. The publication field doubles
// as the publisher input for books, so its label depends on the source type.
func Label(f Field) string {
	switch f {
	case FieldYear:
		return "Year"
	case FieldPublication:
		return "Publication"
	case FieldVolume:
		return "Volume"
	case FieldIssue:
		return "Issue"
	case FieldPages:
		return "Pages"
	case FieldDOI:
		return "DOI"
	case FieldURL:
		return "URL"
	case FieldAccessDate:
		return "Access date"
	case FieldEdition:
		return "Edition"
	case FieldPublisher:
		return "Publisher"
	case FieldPublisherLocation:
		return "Publisher location"
	case FieldConferenceName:
		return "Conference name"
	case FieldConferenceLocation:
		return "Conference location"
	case FieldInstitution:
		return "Institution"
	case FieldDegreeType:
		return "Degree type"
	case FieldDuration:
		return "Duration"
	case FieldProducer:
		return "Producer"
	default:
		return string(f)
	}
}
