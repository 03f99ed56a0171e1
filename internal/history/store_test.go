// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AyaanShaheer/cite-engine/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(types.HistoryConfig{HistoryDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleCitation(style types.CitationStyle, text string) types.Citation {
	return types.Citation{
		Citation:       text,
		InTextCitation: "(Vaswani, 2017)",
		Style:          style,
		Format:         "text",
		Warnings:       []string{"missing DOI"},
	}
}

func TestSaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	year := 2017
	meta := &types.SourceMetadata{
		SourceType: types.SourceJournalArticle,
		Title:      "Attention Is All You Need",
		Authors:    []types.Author{{FirstName: "Ashish", LastName: "Vaswani"}},
		Year:       &year,
	}

	id, err := store.Save(ctx, sampleCitation(types.StyleAPA7, "Vaswani, A. (2017)."), meta)
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	entry, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.Equal(t, "Attention Is All You Need", entry.Title)
	assert.Equal(t, "Vaswani, A. (2017).", entry.Citation.Citation)
	assert.Equal(t, "(Vaswani, 2017)", entry.Citation.InTextCitation)
	assert.Equal(t, types.StyleAPA7, entry.Citation.Style)
	assert.Equal(t, []string{"missing DOI"}, entry.Citation.Warnings)

	require.NotNil(t, entry.Metadata)
	assert.Equal(t, types.SourceJournalArticle, entry.Metadata.SourceType)
	require.NotNil(t, entry.Metadata.Year)
	assert.Equal(t, 2017, *entry.Metadata.Year)
}

func TestSaveWithoutMetadata(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Save(ctx, sampleCitation(types.StyleMLA9, "Quick citation."), nil)
	require.NoError(t, err)

	entry, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, entry.Metadata)
	assert.Empty(t, entry.Title)
}

func TestGetMissingEntry(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), 9999)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no saved citation with ID 9999")
}

func TestListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, text := range []string{"first", "second", "third"} {
		_, err := store.Save(ctx, sampleCitation(types.StyleAPA7, text), nil)
		require.NoError(t, err)
	}

	entries, err := store.List(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "third", entries[0].Citation.Citation)
	assert.Equal(t, "first", entries[2].Citation.Citation)
}

func TestListStyleFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Save(ctx, sampleCitation(types.StyleAPA7, "apa one"), nil)
	require.NoError(t, err)
	_, err = store.Save(ctx, sampleCitation(types.StyleMLA9, "mla one"), nil)
	require.NoError(t, err)
	_, err = store.Save(ctx, sampleCitation(types.StyleAPA7, "apa two"), nil)
	require.NoError(t, err)

	entries, err := store.List(ctx, ListOptions{Style: "mla_9"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "mla one", entries[0].Citation.Citation)
}

func TestListLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := store.Save(ctx, sampleCitation(types.StyleAPA7, "entry"), nil)
		require.NoError(t, err)
	}

	entries, err := store.List(ctx, ListOptions{MaxResults: 2})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.Save(ctx, sampleCitation(types.StyleAPA7, "entry"), nil)
		require.NoError(t, err)
	}

	removed, err := store.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	entries, err := store.List(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewStoreReopensExisting(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(types.HistoryConfig{HistoryDir: dir})
	require.NoError(t, err)
	id, err := store.Save(ctx, sampleCitation(types.StyleAPA7, "persisted"), nil)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewStore(types.HistoryConfig{HistoryDir: dir})
	require.NoError(t, err)
	defer reopened.Close()

	entry, err := reopened.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "persisted", entry.Citation.Citation)
}
