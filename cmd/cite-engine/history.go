// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AyaanShaheer/cite-engine/internal/export"
	"github.com/AyaanShaheer/cite-engine/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse citations saved with --save",
	Long: `History manages the local SQLite store of citations saved with --save.
Nothing is recorded automatically; the workflow itself is stateless.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved citations, newest first",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one saved citation, optionally re-exported",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all saved citations",
	RunE:  runHistoryClear,
}

func init() {
	historyListCmd.Flags().String("style", "", "filter by citation style")
	historyListCmd.Flags().Int("limit", 0, "maximum results (0 = default)")
	historyListCmd.Flags().Bool("json", false, "output as JSON")

	historyShowCmd.Flags().String("format", "text", "export format: text, bibtex, ris, or csl")
	historyShowCmd.Flags().String("out", "", "write the export to a file")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := history.NewStore(historyConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	styleFilter, _ := cmd.Flags().GetString("style")
	limit, _ := cmd.Flags().GetInt("limit")

	entries, err := store.List(cmd.Context(), history.ListOptions{
		Style:      styleFilter,
		MaxResults: limit,
	})
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No saved citations.")
		return nil
	}

	fmt.Printf("%-5s  %-16s  %-12s  %s\n", "ID", "Saved", "Style", "Citation")
	fmt.Println(strings.Repeat("-", 100))
	for _, e := range entries {
		fmt.Printf("%-5d  %-16s  %-12s  %s\n",
			e.ID, e.CreatedAt.Local().Format("2006-01-02 15:04"),
			e.Citation.Style, truncate(e.Citation.Citation, 60))
	}
	fmt.Printf("\n%d saved citation(s)\n", len(entries))
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid history ID %q", args[0])
	}

	store, err := history.NewStore(historyConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	entry, err := store.Get(cmd.Context(), id)
	if err != nil {
		return err
	}

	export.WritePreview(os.Stdout, entry.Citation)
	return writeExport(cmd, export.Record{Citation: entry.Citation, Metadata: entry.Metadata})
}

// truncate shortens s to at most max runes, ending in an ellipsis.
// Truncation is by rune so a multi-byte character is never split.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	store, err := history.NewStore(historyConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	removed, err := store.Clear(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d saved citation(s).\n", removed)
	return nil
}
