package types

import "time"

// HTTPConfig holds shared HTTP settings for stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "cite-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ClientConfig holds settings for the citation service client.
type ClientConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the citation service root (e.g. "http://localhost:8000").
	// Endpoint paths are appended to it.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey is the bearer token for the citation service, if it requires
	// one. Loaded from .secrets/ when not set in config.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// DefaultStyle is used when no --style flag is given (default apa_7).
	DefaultStyle CitationStyle `json:"default_style" yaml:"default_style"`
}

// HistoryConfig holds settings for the local citation history store.
type HistoryConfig struct {
	// HistoryDir is the directory holding the history database
	// (default "history").
	HistoryDir string `json:"history_dir" yaml:"history_dir"`

	// MaxResults is the default maximum number of list results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// Config groups all client configuration.
type Config struct {
	Client  ClientConfig  `json:"client" yaml:"client"`
	History HistoryConfig `json:"history" yaml:"history"`
}
