// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AyaanShaheer/cite-engine/internal/export"
)

var quickCmd = &cobra.Command{
	Use:   "quick [description...]",
	Short: "Generate a citation from a natural-language description",
	Long: `Quick sends a free-text description of the source (e.g. "the Attention
Is All You Need paper by Vaswani et al from NIPS 2017") to the service,
which extracts the metadata and formats the citation. Empty input is
rejected locally without a network call.`,
	RunE: runQuick,
}

func init() {
	quickCmd.Flags().String("style", "", "citation style (default apa_7)")
	quickCmd.Flags().String("format", "text", "export format: text, bibtex, ris, or csl")
	quickCmd.Flags().String("out", "", "write the export to a file")
	quickCmd.Flags().Bool("save", false, "record the citation in the local history")

	rootCmd.AddCommand(quickCmd)
}

func runQuick(cmd *cobra.Command, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return fmt.Errorf("describe the source to cite, e.g.: cite-engine quick \"the BERT paper by Devlin et al\"")
	}

	style, err := styleFlag(cmd)
	if err != nil {
		return err
	}

	client := newClient(cmd)
	citation, err := client.GenerateFromFreeText(cmd.Context(), text, style)
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
