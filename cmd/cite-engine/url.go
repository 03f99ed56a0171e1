// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/AyaanShaheer/cite-engine/internal/export"
)

var urlCmd = &cobra.Command{
	Use:   "url <url>",
	Short: "Generate a citation from a web page URL",
	Long: `URL asks the service to extract source metadata from a web page and
format the citation.`,
	Args: cobra.ExactArgs(1),
	RunE: runURL,
}

func init() {
	urlCmd.Flags().String("style", "", "citation style (default apa_7)")
	urlCmd.Flags().String("format", "text", "export format: text, bibtex, ris, or csl")
	urlCmd.Flags().String("out", "", "write the export to a file")
	urlCmd.Flags().Bool("save", false, "record the citation in the local history")

	rootCmd.AddCommand(urlCmd)
}

func runURL(cmd *cobra.Command, args []string) error {
	u, err := url.Parse(args[0])
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%q is not an http(s) URL", args[0])
	}

	style, err := styleFlag(cmd)
	if err != nil {
		return err
	}

	client := newClient(cmd)
	citation, err := client.GenerateFromURL(cmd.Context(), u.String(), style)
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
