// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists explicitly saved citations in a local SQLite
// database. The citation workflow itself is persistence-free; only results
// the user asks to keep end up here.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/AyaanShaheer/cite-engine/pkg/types"
)

const dbFile = "citations.db"

// Store manages the citation history SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the history database at
// historyDir/citations.db, creating the schema if needed.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	dir := cfg.HistoryDir
	if dir == "" {
		dir = "history"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS citations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TEXT NOT NULL,
			style TEXT NOT NULL,
			format TEXT,
			source_type TEXT,
			title TEXT,
			citation TEXT NOT NULL,
			in_text_citation TEXT,
			warnings TEXT,
			metadata TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_citations_created_at ON citations(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_citations_style ON citations(style)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Entry is one saved citation.
type Entry struct {
	ID        int64                 `json:"id"`
	CreatedAt time.Time             `json:"created_at"`
	Title     string                `json:"title,omitempty"`
	Citation  types.Citation        `json:"citation"`
	Metadata  *types.SourceMetadata `json:"metadata,omitempty"`
}

// Save records a citation and the metadata that produced it (nil for
// free-text, DOI, and URL generation). It returns the new entry ID.
func (s *Store) Save(ctx context.Context, citation types.Citation, meta *types.SourceMetadata) (int64, error) {
	warningsJSON, err := json.Marshal(citation.Warnings)
	if err != nil {
		return 0, fmt.Errorf("encoding warnings: %w", err)
	}

	var sourceType, title string
	metaJSON := []byte("null")
	if meta != nil {
		sourceType = string(meta.SourceType)
		title = meta.Title
		metaJSON, err = json.Marshal(meta)
		if err != nil {
			return 0, fmt.Errorf("encoding metadata: %w", err)
		}
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO citations (created_at, style, format, source_type, title, citation, in_text_citation, warnings, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339Nano),
		string(citation.Style), citation.Format, sourceType, title,
		citation.Citation, citation.InTextCitation,
		string(warningsJSON), string(metaJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting citation: %w", err)
	}
	return res.LastInsertId()
}

// ListOptions filters a history listing.
type ListOptions struct {
	// Style restricts results to one citation style when set.
	Style string

	// MaxResults caps the listing (0 = store default).
	MaxResults int
}

// List returns saved citations, newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	limit := opts.MaxResults
	if limit <= 0 {
		limit = s.maxResults
	}

	query := `SELECT id, created_at, style, format, source_type, title, citation, in_text_citation, warnings, metadata
	          FROM citations`
	args := []any{}
	if opts.Style != "" {
		query += ` WHERE style = ?`
		args = append(args, opts.Style)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Get returns one saved citation by ID.
func (s *Store) Get(ctx context.Context, id int64) (Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, style, format, source_type, title, citation, in_text_citation, warnings, metadata
		 FROM citations WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return Entry{}, fmt.Errorf("no saved citation with ID %d", id)
	}
	return entry, err
}

// Clear deletes all saved citations and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM citations`)
	if err != nil {
		return 0, fmt.Errorf("clearing history: %w", err)
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var (
		entry        Entry
		createdAt    string
		style        string
		format       string
		sourceType   string
		warningsJSON string
		metaJSON     string
	)
	err := row.Scan(&entry.ID, &createdAt, &style, &format, &sourceType,
		&entry.Title, &entry.Citation.Citation, &entry.Citation.InTextCitation,
		&warningsJSON, &metaJSON)
	if err != nil {
		return Entry{}, err
	}

	if t, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
		entry.CreatedAt = t
	}
	entry.Citation.Style = types.CitationStyle(style)
	entry.Citation.Format = format

	if warningsJSON != "" {
		if err := json.Unmarshal([]byte(warningsJSON), &entry.Citation.Warnings); err != nil {
			return Entry{}, fmt.Errorf("decoding warnings for entry %d: %w", entry.ID, err)
		}
	}
	if metaJSON != "" && metaJSON != "null" {
		var meta types.SourceMetadata
		if err := json.Unmarshal([]byte(metaJSON), &meta); err != nil {
			return Entry{}, fmt.Errorf("decoding metadata for entry %d: %w", entry.ID, err)
		}
		entry.Metadata = &meta
	}
	return entry, nil
}
