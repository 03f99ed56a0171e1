// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/AyaanShaheer/cite-engine/internal/export"
	"github.com/AyaanShaheer/cite-engine/internal/history"
	"github.com/AyaanShaheer/cite-engine/internal/request"
	"github.com/AyaanShaheer/cite-engine/pkg/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch <sources-file>",
	Short: "Generate citations for a file of sources in one request",
	Long: `Batch reads a YAML or JSON list of source metadata records, validates
each one client-side (dropping incomplete authors), and generates all
citations in a single service request. Results print in source order.

Example sources file (YAML):

  - source_type: journal_article
    title: Attention Is All You Need
    authors:
      - first_name: Ashish
        last_name: Vaswani
    year: 2017`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().String("style", "", "citation style applied to every source (default apa_7)")
	batchCmd.Flags().String("format", "text", "export format: text, bibtex, ris, or csl")
	batchCmd.Flags().String("out", "", "write all exports to a single file")
	batchCmd.Flags().Bool("anonymous", false, "allow sources with no complete author")
	batchCmd.Flags().Bool("save", false, "record every citation in the local history")
	batchCmd.Flags().Bool("json", false, "output the raw citation list as JSON")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	sources, err := loadSources(args[0])
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("%s contains no sources", args[0])
	}

	anonymous, _ := cmd.Flags().GetBool("anonymous")
	normalized := make([]types.SourceMetadata, 0, len(sources))
	for i, src := range sources {
		meta, err := request.Normalize(src, anonymous)
		if err != nil {
			return fmt.Errorf("source %d (%q): %w", i+1, src.Title, err)
		}
		normalized = append(normalized, meta)
	}

	style, err := styleFlag(cmd)
	if err != nil {
		return err
	}

	client := newClient(cmd)
	citations, err := client.GenerateBatch(cmd.Context(), normalized, style)
	if err != nil {
		connectionHint(err)
		return err
	}
	if len(citations) != len(normalized) {
		return fmt.Errorf("citation service returned %d citations for %d sources", len(citations), len(normalized))
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(citations)
	}

	for i, citation := range citations {
		fmt.Printf("%d. ", i+1)
		export.WritePreview(os.Stdout, citation)
		fmt.Println()
	}

	if err := writeBatchExport(cmd, citations, normalized); err != nil {
		return err
	}
	return saveBatch(cmd, citations, normalized)
}

// loadSources reads the sources file, accepting YAML or JSON by extension
// (YAML parses JSON too, so unknown extensions go through the YAML path).
func loadSources(path string) ([]types.SourceMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sources file: %w", err)
	}

	var sources []types.SourceMetadata
	if strings.HasSuffix(path, ".json") {
		if err := json.Unmarshal(data, &sources); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return sources, nil
	}
	if err := yaml.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return sources, nil
}

func writeBatchExport(cmd *cobra.Command, citations []types.Citation, metas []types.SourceMetadata) error {
	formatName, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("out")
	if outPath == "" {
		return nil
	}

	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}
	if ext := export.Extension(format); !strings.HasSuffix(outPath, ext) {
		outPath += ext
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	for i := range citations {
		rec := export.Record{Citation: citations[i], Metadata: &metas[i]}
		if err := export.Write(f, rec, format); err != nil {
			return fmt.Errorf("writing export file: %w", err)
		}
		if format != export.FormatCSL && i < len(citations)-1 {
			fmt.Fprintln(f)
		}
	}
	fmt.Fprintf(os.Stderr, "Exported %d citations to %s\n", len(citations), outPath)
	return nil
}

func saveBatch(cmd *cobra.Command, citations []types.Citation, metas []types.SourceMetadata) error {
	save, _ := cmd.Flags().GetBool("save")
	if !save {
		return nil
	}

	store, err := history.NewStore(historyConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	for i := range citations {
		if _, err := store.Save(cmd.Context(), citations[i], &metas[i]); err != nil {
			return err
		}
	}
	fmt.Fprintf(os.Stderr, "Saved %d citations to history\n", len(citations))
	return nil
}
