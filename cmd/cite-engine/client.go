// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AyaanShaheer/cite-engine/internal/citeapi"
	"github.com/AyaanShaheer/cite-engine/internal/export"
	"github.com/AyaanShaheer/cite-engine/internal/history"
	"github.com/AyaanShaheer/cite-engine/internal/request"
	"github.com/AyaanShaheer/cite-engine/internal/secrets"
	"github.com/AyaanShaheer/cite-engine/pkg/types"
)

const (
	defaultBaseURL   = "http://localhost:8000"
	defaultUserAgent = "cite-engine/0.1"
	defaultStyle     = types.StyleAPA7
)

// resolveConfig gathers all settings: flag, then config file/env, then the
// built-in default.
func resolveConfig(cmd *cobra.Command) types.Config {
	baseURL, _ := cmd.Flags().GetString("base-url")
	if baseURL == "" {
		baseURL = viper.GetString("client.base_url")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = viper.GetDuration("client.timeout")
	}

	apiKey := viper.GetString("client.api_key")
	if apiKey == "" {
		apiKey = loadedSecrets[secrets.CitationAPIKey]
	}

	style := viper.GetString("client.default_style")
	if style == "" {
		style = string(defaultStyle)
	}

	return types.Config{
		Client: types.ClientConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   timeout,
				UserAgent: defaultUserAgent,
			},
			BaseURL:      baseURL,
			APIKey:       apiKey,
			DefaultStyle: types.CitationStyle(style),
		},
		History: historyConfig(),
	}
}

// newClient builds the service client from the resolved config.
func newClient(cmd *cobra.Command) *citeapi.Client {
	return citeapi.New(resolveConfig(cmd).Client)
}

// styleFlag resolves the citation style: --style, then the configured
// default, then apa_7.
func styleFlag(cmd *cobra.Command) (types.CitationStyle, error) {
	s, _ := cmd.Flags().GetString("style")
	if s == "" {
		s = string(resolveConfig(cmd).Client.DefaultStyle)
	}
	return request.ParseStyle(s)
}

// historyConfig resolves history store settings.
func historyConfig() types.HistoryConfig {
	dir := viper.GetString("history.history_dir")
	if dir == "" {
		dir = "history"
	}
	return types.HistoryConfig{
		HistoryDir: dir,
		MaxResults: viper.GetInt("history.max_results"),
	}
}

// saveCitation records a citation in the history store when --save is set.
func saveCitation(cmd *cobra.Command, citation types.Citation, meta *types.SourceMetadata) error {
	save, _ := cmd.Flags().GetBool("save")
	if !save {
		return nil
	}

	store, err := history.NewStore(historyConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.Save(cmd.Context(), citation, meta)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Saved to history (ID %d)\n", id)
	return nil
}

// writeExport renders the citation in the requested format. With --out it
// writes a file (appending the format's extension when the path has none);
// otherwise non-text formats go to stdout after the preview.
func writeExport(cmd *cobra.Command, rec export.Record) error {
	formatName, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("out")

	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}

	if outPath == "" {
		if format == export.FormatText {
			return nil
		}
		fmt.Println()
		return export.Write(os.Stdout, rec, format)
	}

	if ext := export.Extension(format); len(outPath) < len(ext) || outPath[len(outPath)-len(ext):] != ext {
		outPath += ext
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	if err := export.Write(f, rec, format); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Exported to %s\n", outPath)
	return nil
}

// connectionHint prints the reachability hint for transport failures so
// the user can tell "service down" from "fix your input".
func connectionHint(err error) {
	if citeapi.IsTransport(err) {
		fmt.Fprintln(os.Stderr, "Connection error: the citation service did not respond.")
	}
}
