// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citeapi is the HTTP client for the remote citation service.
// Each operation is exactly one network round trip with a bounded timeout
// and no automatic retries; a retry is always a user-initiated
// re-submission. All failures are classified before they leave this
// package (see ErrorKind).
package citeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AyaanShaheer/cite-engine/pkg/types"
)

const (
	// DefaultTimeout bounds a single request. Generation shares
	// infrastructure with long-running research calls, so the ceiling is
	// generous.
	DefaultTimeout = 60 * time.Second

	// MaxTimeout is the hard ceiling; configured timeouts are clamped.
	MaxTimeout = 120 * time.Second

	defaultUserAgent = "cite-engine/0.1"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 4 << 20

// Client talks to the citation service. It holds no per-request state and
// is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying HTTP client. Tests use this
// together with httptest servers.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// New creates a client from config. Zero and out-of-range timeouts are
// replaced with DefaultTimeout and clamped to MaxTimeout.
func New(cfg types.ClientConfig, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if timeout > MaxTimeout {
		timeout = MaxTimeout
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Wire payloads. Shapes match the service's citation routes.

type generateRequest struct {
	Metadata types.SourceMetadata `json:"metadata"`
	Style    types.CitationStyle  `json:"style"`
	Format   string               `json:"format"`
}

type quickGenerateRequest struct {
	Text  string              `json:"text"`
	Style types.CitationStyle `json:"style"`
}

type doiRequest struct {
	DOI   string              `json:"doi"`
	Style types.CitationStyle `json:"style"`
}

type urlRequest struct {
	URL   string              `json:"url"`
	Style types.CitationStyle `json:"style"`
}

type batchRequest struct {
	Sources []types.SourceMetadata `json:"sources"`
	Style   types.CitationStyle    `json:"style"`
}

type validateRequest struct {
	Citation string              `json:"citation"`
	Style    types.CitationStyle `json:"style"`
}

type stylesResponse struct {
	Styles []types.StyleInfo `json:"styles"`
}

type sourceTypesResponse struct {
	SourceTypes []types.SourceTypeInfo `json:"source_types"`
}

// GenerateFromMetadata generates a citation from structured metadata.
// An empty format defaults to "text".
func (c *Client) GenerateFromMetadata(ctx context.Context, meta types.SourceMetadata, style types.CitationStyle, format string) (types.Citation, error) {
	if format == "" {
		format = "text"
	}
	var citation types.Citation
	body := generateRequest{Metadata: meta, Style: style, Format: format}
	if err := c.post(ctx, "/citations/generate", body, &citation); err != nil {
		return types.Citation{}, err
	}
	if citation.Citation == "" {
		return types.Citation{}, &APIError{Kind: KindMalformed, Message: "citation service response missing citation text"}
	}
	return citation, nil
}

// GenerateFromFreeText generates a citation from a natural-language
// description of the source. Metadata extraction happens remotely. Empty
// input is rejected locally without a network call.
func (c *Client) GenerateFromFreeText(ctx context.Context, text string, style types.CitationStyle) (types.Citation, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return types.Citation{}, fmt.Errorf("empty text: describe the source to cite")
	}
	var citation types.Citation
	if err := c.post(ctx, "/citations/quick-generate", quickGenerateRequest{Text: text, Style: style}, &citation); err != nil {
		return types.Citation{}, err
	}
	if citation.Citation == "" {
		return types.Citation{}, &APIError{Kind: KindMalformed, Message: "citation service response missing citation text"}
	}
	return citation, nil
}

// GenerateFromDOI generates a citation by resolving a DOI remotely.
func (c *Client) GenerateFromDOI(ctx context.Context, doi string, style types.CitationStyle) (types.Citation, error) {
	doi = strings.TrimSpace(doi)
	if doi == "" {
		return types.Citation{}, fmt.Errorf("empty DOI")
	}
	var citation types.Citation
	if err := c.post(ctx, "/citations/from-doi", doiRequest{DOI: doi, Style: style}, &citation); err != nil {
		return types.Citation{}, err
	}
	if citation.Citation == "" {
		return types.Citation{}, &APIError{Kind: KindMalformed, Message: "citation service response missing citation text"}
	}
	return citation, nil
}

// GenerateFromURL generates a citation by extracting metadata from a web
// page remotely.
func (c *Client) GenerateFromURL(ctx context.Context, pageURL string, style types.CitationStyle) (types.Citation, error) {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return types.Citation{}, fmt.Errorf("empty URL")
	}
	var citation types.Citation
	if err := c.post(ctx, "/citations/from-url", urlRequest{URL: pageURL, Style: style}, &citation); err != nil {
		return types.Citation{}, err
	}
	if citation.Citation == "" {
		return types.Citation{}, &APIError{Kind: KindMalformed, Message: "citation service response missing citation text"}
	}
	return citation, nil
}

// GenerateBatch generates one citation per source in a single request.
// Results come back in source order.
func (c *Client) GenerateBatch(ctx context.Context, sources []types.SourceMetadata, style types.CitationStyle) ([]types.Citation, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources to cite")
	}
	var citations []types.Citation
	if err := c.post(ctx, "/citations/batch", batchRequest{Sources: sources, Style: style}, &citations); err != nil {
		return nil, err
	}
	return citations, nil
}

// Styles lists the citation styles the service supports.
func (c *Client) Styles(ctx context.Context) ([]types.StyleInfo, error) {
	var resp stylesResponse
	if err := c.get(ctx, "/citations/styles", &resp); err != nil {
		return nil, err
	}
	if len(resp.Styles) == 0 {
		return nil, &APIError{Kind: KindMalformed, Message: "citation service reported no styles"}
	}
	return resp.Styles, nil
}

// SourceTypes lists the source types the service supports.
func (c *Client) SourceTypes(ctx context.Context) ([]types.SourceTypeInfo, error) {
	var resp sourceTypesResponse
	if err := c.get(ctx, "/citations/source-types", &resp); err != nil {
		return nil, err
	}
	if len(resp.SourceTypes) == 0 {
		return nil, &APIError{Kind: KindMalformed, Message: "citation service reported no source types"}
	}
	return resp.SourceTypes, nil
}

// Validate asks the service to check an existing citation string against a
// style. Empty input is rejected locally.
func (c *Client) Validate(ctx context.Context, citation string, style types.CitationStyle) (types.ValidationReport, error) {
	citation = strings.TrimSpace(citation)
	if citation == "" {
		return types.ValidationReport{}, fmt.Errorf("empty citation text")
	}
	var report types.ValidationReport
	if err := c.post(ctx, "/citations/validate", validateRequest{Citation: citation, Style: style}, &report); err != nil {
		return types.ValidationReport{}, err
	}
	return report, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(payload), out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// do performs one round trip and classifies the outcome. A transport
// failure never reaches the caller as a raw *url.Error.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{
			Kind:    KindTransport,
			Message: "citation service unreachable: check that the service is running and the base URL is correct",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &APIError{Kind: KindTransport, Message: "reading citation service response failed", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			Kind:       KindRemote,
			StatusCode: resp.StatusCode,
			Message:    remoteMessage(resp.StatusCode, data),
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{Kind: KindMalformed, Message: "unexpected citation service response", Err: err}
	}
	return nil
}
