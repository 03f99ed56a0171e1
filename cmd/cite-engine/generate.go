// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/AyaanShaheer/cite-engine/internal/export"
	"github.com/AyaanShaheer/cite-engine/internal/request"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a citation from structured metadata",
	Long: `Generate builds a citation request from metadata flags, sends it to the
citation service, and prints the formatted citation, its in-text form, and
any warnings. Authors are given as "First Last" or "Last, First Middle";
entries missing a first or last name are dropped before submission.

For books the --publication value is sent as the publisher.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("type", "journal_article", "source type (see 'cite-engine source-types')")
	generateCmd.Flags().String("style", "", "citation style (default apa_7, see 'cite-engine styles')")
	generateCmd.Flags().String("title", "", "source title (required)")
	generateCmd.Flags().StringArray("author", nil, `author, repeatable ("First Last" or "Last, First")`)
	generateCmd.Flags().Bool("anonymous", false, "allow submission with no complete author")
	generateCmd.Flags().String("year", "", "publication year")
	generateCmd.Flags().String("publication", "", "journal/site name, or publisher for books")
	generateCmd.Flags().String("volume", "", "volume")
	generateCmd.Flags().String("issue", "", "issue")
	generateCmd.Flags().String("pages", "", "page range (e.g. 5998-6008)")
	generateCmd.Flags().String("doi", "", "DOI")
	generateCmd.Flags().String("url", "", "URL")
	generateCmd.Flags().String("access-date", "", "access date for online sources")
	generateCmd.Flags().String("edition", "", "edition (books)")
	generateCmd.Flags().String("publisher-location", "", "publisher location (books)")
	generateCmd.Flags().String("conference-name", "", "conference name")
	generateCmd.Flags().String("conference-location", "", "conference location")
	generateCmd.Flags().String("institution", "", "institution (theses, reports)")
	generateCmd.Flags().String("degree-type", "", "degree type (theses)")
	generateCmd.Flags().String("duration", "", "duration (video, podcast)")
	generateCmd.Flags().String("producer", "", "producer (video, podcast)")

	generateCmd.Flags().String("format", "text", "export format: text, bibtex, ris, or csl")
	generateCmd.Flags().String("out", "", "write the export to a file")
	generateCmd.Flags().Bool("save", false, "record the citation in the local history")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	form := formFromFlags(cmd)

	meta, style, err := request.Build(form)
	if err != nil {
		return err
	}

	client := newClient(cmd)
	citation, err := client.GenerateFromMetadata(cmd.Context(), meta, style, "text")
	if err != nil {
		connectionHint(err)
		return err
	}

	export.WritePreview(os.Stdout, citation)

	rec := export.Record{Citation: citation, Metadata: &meta}
	if err := writeExport(cmd, rec); err != nil {
		return err
	}
	return saveCitation(cmd, citation, &meta)
}

// formFromFlags collects the raw flag values into the editable form shape
// the builder validates.
func formFromFlags(cmd *cobra.Command) request.FormState {
	str := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}

	authorFlags, _ := cmd.Flags().GetStringArray("author")
	authors := make([]request.AuthorInput, 0, len(authorFlags))
	for _, a := range authorFlags {
		authors = append(authors, request.ParseAuthor(a))
	}

	anonymous, _ := cmd.Flags().GetBool("anonymous")

	style := str("style")
	if style == "" {
		if resolved, err := styleFlag(cmd); err == nil {
			style = string(resolved)
		}
	}

	return request.FormState{
		SourceType:         str("type"),
		Style:              style,
		Title:              str("title"),
		Authors:            authors,
		Year:               str("year"),
		Publication:        str("publication"),
		Volume:             str("volume"),
		Issue:              str("issue"),
		Pages:              str("pages"),
		DOI:                str("doi"),
		URL:                str("url"),
		AccessDate:         str("access-date"),
		Edition:            str("edition"),
		PublisherLocation:  str("publisher-location"),
		ConferenceName:     str("conference-name"),
		ConferenceLocation: str("conference-location"),
		Institution:        str("institution"),
		DegreeType:         str("degree-type"),
		Duration:           str("duration"),
		Producer:           str("producer"),
		AllowAnonymous:     anonymous,
	}
}
