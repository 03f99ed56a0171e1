// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AyaanShaheer/cite-engine/internal/export"
	"github.com/AyaanShaheer/cite-engine/internal/request"
)

var doiCmd = &cobra.Command{
	Use:   "doi <doi>",
	Short: "Generate a citation from a DOI",
	Long: `DOI resolves a DOI to source metadata remotely and formats the citation.
Accepts bare DOIs ("10.5555/3295222.3295349") as well as doi.org URLs and
the "doi:" prefix.`,
	Args: cobra.ExactArgs(1),
	RunE: runDOI,
}

func init() {
	doiCmd.Flags().String("style", "", "citation style (default apa_7)")
	doiCmd.Flags().String("format", "text", "export format: text, bibtex, ris, or csl")
	doiCmd.Flags().String("out", "", "write the export to a file")
	doiCmd.Flags().Bool("save", false, "record the citation in the local history")

	rootCmd.AddCommand(doiCmd)
}

func runDOI(cmd *cobra.Command, args []string) error {
	doi, ok := request.NormalizeDOI(args[0])
	if !ok {
		return fmt.Errorf("%q does not look like a DOI (expected e.g. 10.1145/1234567.1234568)", args[0])
	}

	style, err := styleFlag(cmd)
	if err != nil {
		return err
	}

	client := newClient(cmd)
	citation, err := client.GenerateFromDOI(cmd.Context(), doi, style)
	if err != nil {
		connectionHint(err)
		return err
	}

	export.WritePreview(os.Stdout, citation)

	rec := export.Record{Citation: citation}
	if err := writeExport(cmd, rec); err != nil {
		return err
	}
	return saveCitation(cmd, citation, nil)
}
