// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citeapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AyaanShaheer/cite-engine/pkg/types"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(types.ClientConfig{BaseURL: srv.URL, APIKey: "test-key"})
}

func TestGenerateFromMetadata(t *testing.T) {
	year := 2017
	meta := types.SourceMetadata{
		SourceType: types.SourceJournalArticle,
		Title:      "Attention Is All You Need",
		Authors:    []types.Author{{FirstName: "Ashish", LastName: "Vaswani"}},
		Year:       &year,
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/citations/generate", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Attention Is All You Need", req.Metadata.Title)
		assert.Equal(t, types.StyleAPA7, req.Style)
		assert.Equal(t, "text", req.Format)
		require.NotNil(t, req.Metadata.Year)
		assert.Equal(t, 2017, *req.Metadata.Year)

		json.NewEncoder(w).Encode(types.Citation{
			Citation:       "Vaswani, A. (2017). Attention is all you need.",
			InTextCitation: "(Vaswani, 2017)",
			Style:          types.StyleAPA7,
			Format:         "text",
		})
	})

	citation, err := client.GenerateFromMetadata(context.Background(), meta, types.StyleAPA7, "")
	require.NoError(t, err)
	assert.Equal(t, "Vaswani, A. (2017). Attention is all you need.", citation.Citation)
	assert.Equal(t, "(Vaswani, 2017)", citation.InTextCitation)
}

func TestGenerateFromMetadataOmitsEmptyFields(t *testing.T) {
	meta := types.SourceMetadata{
		SourceType: types.SourceBook,
		Title:      "A Book",
		Authors:    []types.Author{{FirstName: "Jane", LastName: "Smith"}},
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		wire, ok := raw["metadata"].(map[string]any)
		require.True(t, ok)

		// Unset optionals must be absent from the payload, not empty strings.
		for _, key := range []string{"year", "publisher", "doi", "url", "volume"} {
			_, present := wire[key]
			assert.False(t, present, "field %q should be omitted", key)
		}
		json.NewEncoder(w).Encode(types.Citation{Citation: "Smith, J. (n.d.). A book."})
	})

	_, err := client.GenerateFromMetadata(context.Background(), meta, types.StyleAPA7, "text")
	require.NoError(t, err)
}

func TestGenerateFromMetadataRemoteError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail": "year must be a 4-digit number"}`))
	})

	_, err := client.GenerateFromMetadata(context.Background(), types.SourceMetadata{}, types.StyleAPA7, "text")
	require.Error(t, err)
	require.True(t, IsRemote(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 422, apiErr.StatusCode)
	assert.Equal(t, "year must be a 4-digit number", apiErr.Message)
}

func TestGenerateFromMetadataTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := srv.URL
	srv.Close() // nothing is listening anymore

	client := New(types.ClientConfig{BaseURL: baseURL})
	_, err := client.GenerateFromMetadata(context.Background(), types.SourceMetadata{}, types.StyleAPA7, "text")
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.False(t, IsRemote(err))
}

func TestGenerateFromMetadataMalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not JSON", `this is not JSON`},
		{"missing citation text", `{"in_text_citation": "(Vaswani, 2017)"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			_, err := client.GenerateFromMetadata(context.Background(), types.SourceMetadata{}, types.StyleAPA7, "text")
			require.Error(t, err)
			assert.True(t, IsMalformed(err))
		})
	}
}

func TestGenerateFromFreeText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/citations/quick-generate", r.URL.Path)
		var req quickGenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "the transformer paper by Vaswani from 2017", req.Text)
		json.NewEncoder(w).Encode(types.Citation{Citation: "Vaswani, A. (2017). Attention is all you need."})
	})

	citation, err := client.GenerateFromFreeText(context.Background(), "the transformer paper by Vaswani from 2017", types.StyleAPA7)
	require.NoError(t, err)
	assert.NotEmpty(t, citation.Citation)
}

func TestEmptyInputsSkipNetwork(t *testing.T) {
	var calls atomic.Int64
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(types.Citation{Citation: "x"})
	})
	ctx := context.Background()

	_, err := client.GenerateFromFreeText(ctx, "   ", types.StyleAPA7)
	assert.Error(t, err)
	_, err = client.GenerateFromDOI(ctx, "", types.StyleAPA7)
	assert.Error(t, err)
	_, err = client.GenerateFromURL(ctx, "", types.StyleAPA7)
	assert.Error(t, err)
	_, err = client.GenerateBatch(ctx, nil, types.StyleAPA7)
	assert.Error(t, err)
	_, err = client.Validate(ctx, "", types.StyleAPA7)
	assert.Error(t, err)

	assert.Equal(t, int64(0), calls.Load(), "local validation failures must not reach the network")
}

func TestGenerateFromDOI(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/citations/from-doi", r.URL.Path)
		var req doiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "10.5555/3295222.3295349", req.DOI)
		json.NewEncoder(w).Encode(types.Citation{Citation: "Vaswani, A. (2017). Attention is all you need."})
	})

	_, err := client.GenerateFromDOI(context.Background(), "10.5555/3295222.3295349", types.StyleAPA7)
	require.NoError(t, err)
}

func TestGenerateFromURL(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/citations/from-url", r.URL.Path)
		json.NewEncoder(w).Encode(types.Citation{Citation: "Example article."})
	})

	_, err := client.GenerateFromURL(context.Background(), "https://example.com/article", types.StyleAPA7)
	require.NoError(t, err)
}

func TestGenerateBatch(t *testing.T) {
	sources := []types.SourceMetadata{
		{SourceType: types.SourceBook, Title: "First"},
		{SourceType: types.SourceBook, Title: "Second"},
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/citations/batch", r.URL.Path)
		var req batchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Sources, 2)
		json.NewEncoder(w).Encode([]types.Citation{
			{Citation: "First citation."},
			{Citation: "Second citation."},
		})
	})

	citations, err := client.GenerateBatch(context.Background(), sources, types.StyleMLA9)
	require.NoError(t, err)
	require.Len(t, citations, 2)
	assert.Equal(t, "First citation.", citations[0].Citation)
	assert.Equal(t, "Second citation.", citations[1].Citation)
}

func TestStyles(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/citations/styles", r.URL.Path)
		json.NewEncoder(w).Encode(stylesResponse{Styles: []types.StyleInfo{
			{Code: "apa_7", Name: "APA 7th Edition"},
			{Code: "mla_9", Name: "MLA 9th Edition"},
		}})
	})

	styles, err := client.Styles(context.Background())
	require.NoError(t, err)
	require.Len(t, styles, 2)
	assert.Equal(t, "apa_7", styles[0].Code)
}

func TestStylesEmptyListIsMalformed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(stylesResponse{})
	})
	_, err := client.Styles(context.Background())
	require.Error(t, err)
	assert.True(t, IsMalformed(err))
}

func TestSourceTypes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/citations/source-types", r.URL.Path)
		json.NewEncoder(w).Encode(sourceTypesResponse{SourceTypes: []types.SourceTypeInfo{
			{Code: "journal_article", Name: "Journal Article"},
		}})
	})

	sourceTypes, err := client.SourceTypes(context.Background())
	require.NoError(t, err)
	require.Len(t, sourceTypes, 1)
}

func TestValidate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/citations/validate", r.URL.Path)
		var req validateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Vaswani, A. (2017). Attention is all you need.", req.Citation)
		json.NewEncoder(w).Encode(types.ValidationReport{
			IsValid: false,
			Errors:  []string{"missing journal name"},
		})
	})

	report, err := client.Validate(context.Background(), "Vaswani, A. (2017). Attention is all you need.", types.StyleAPA7)
	require.NoError(t, err)
	assert.False(t, report.IsValid)
	assert.Equal(t, []string{"missing journal name"}, report.Errors)
}

func TestNewTimeoutClamping(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		want    time.Duration
	}{
		{"zero uses default", 0, DefaultTimeout},
		{"negative uses default", -time.Second, DefaultTimeout},
		{"in range kept", 30 * time.Second, 30 * time.Second},
		{"over ceiling clamped", 10 * time.Minute, MaxTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := types.ClientConfig{BaseURL: "http://localhost:8000"}
			cfg.Timeout = tt.timeout
			client := New(cfg)
			assert.Equal(t, tt.want, client.httpClient.Timeout)
		})
	}
}

func TestNewTrimsBaseURLSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/citations/styles", r.URL.Path)
		json.NewEncoder(w).Encode(stylesResponse{Styles: []types.StyleInfo{{Code: "apa_7"}}})
	}))
	t.Cleanup(srv.Close)

	client := New(types.ClientConfig{BaseURL: srv.URL + "/"})
	_, err := client.Styles(context.Background())
	require.NoError(t, err)
}
