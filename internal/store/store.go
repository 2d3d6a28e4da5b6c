// Package store is the durable relational metadata store: roots, files,
// headings, authors, chunks, and captures, plus the layout-version manifest.
//
// Grounded on internal/adapters/postgres.go (HSn0918-rag)'s pgx.v5 usage;
// extended with pgxpool and explicit transactions because spec 4.6/4.7
// require commit-once-per-indexing-run semantics the teacher's file never
// needed. Postgres session memory settings stand in for the original's
// SQLite cache pragmas (see DESIGN.md and SPEC_FULL.md §3).
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// Store owns the Postgres pool backing both the relational metadata tables
// and (via internal/vectorindex, against the same pool) the semantic vector
// column.
type Store struct {
	Pool *pgxpool.Pool
}

// Open connects to dsn and applies the session-level memory tuning
// (work_mem, effective_cache_size) analogous to spec 4.6's SQLite pragmas;
// no durability setting is changed.
func Open(ctx context.Context, dsn string) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("store: parse dsn: %w", err)
	}
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		// 64 MiB page cache / 256 MiB mmap hint analogues.
		if _, err := conn.Exec(ctx, "SET work_mem = '64MB'"); err != nil {
			return err
		}
		if _, err := conn.Exec(ctx, "SET effective_cache_size = '256MB'"); err != nil {
			return err
		}
		// The vector extension may not exist yet on the very first connection
		// of a fresh database (EnsureSchema creates it); ignore that one-time
		// failure, every later connection registers successfully.
		_ = pgvector.RegisterTypes(ctx, conn)
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	return &Store{Pool: pool}, nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.Pool.Close()
}

const schemaDDL = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS roots (
	id BIGSERIAL PRIMARY KEY,
	canonical_path TEXT NOT NULL UNIQUE,
	added_at_ms BIGINT NOT NULL,
	last_indexed_ms BIGINT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS files (
	id BIGSERIAL PRIMARY KEY,
	root_id BIGINT NOT NULL REFERENCES roots(id) ON DELETE CASCADE,
	relative_path TEXT NOT NULL,
	modified_ms BIGINT NOT NULL,
	size BIGINT NOT NULL,
	file_hash TEXT NOT NULL DEFAULT '',
	heading_count INTEGER NOT NULL DEFAULT 0,
	UNIQUE(root_id, relative_path)
);
CREATE INDEX IF NOT EXISTS idx_files_root_modified ON files(root_id, modified_ms DESC, id DESC);

CREATE TABLE IF NOT EXISTS headings (
	id BIGSERIAL PRIMARY KEY,
	file_id BIGINT NOT NULL REFERENCES files(id) ON DELETE CASCADE,
	heading_order INTEGER NOT NULL,
	level INTEGER NOT NULL,
	text TEXT NOT NULL,
	normalized TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_headings_file ON headings(file_id);
CREATE INDEX IF NOT EXISTS idx_headings_file_order ON headings(file_id, heading_order);
CREATE INDEX IF NOT EXISTS idx_headings_normalized ON headings(normalized);

CREATE TABLE IF NOT EXISTS authors (
	id BIGSERIAL PRIMARY KEY,
	file_id BIGINT NOT NULL REFERENCES files(id) ON DELETE CASCADE,
	author_order INTEGER NOT NULL,
	text TEXT NOT NULL,
	normalized TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_authors_file ON authors(file_id);
CREATE INDEX IF NOT EXISTS idx_authors_normalized ON authors(normalized);

CREATE TABLE IF NOT EXISTS chunks (
	id TEXT PRIMARY KEY,
	root_id BIGINT NOT NULL REFERENCES roots(id) ON DELETE CASCADE,
	file_id BIGINT NOT NULL REFERENCES files(id) ON DELETE CASCADE,
	chunk_order INTEGER NOT NULL,
	heading_order INTEGER,
	heading_level INTEGER,
	heading_text TEXT NOT NULL DEFAULT '',
	author_text TEXT NOT NULL DEFAULT '',
	chunk_text TEXT NOT NULL,
	file_name TEXT NOT NULL,
	relative_path TEXT NOT NULL,
	absolute_path TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_chunks_file_order ON chunks(file_id, chunk_order);
CREATE INDEX IF NOT EXISTS idx_chunks_root_file ON chunks(root_id, file_id);
CREATE INDEX IF NOT EXISTS idx_chunks_root_file_order ON chunks(root_id, file_id, chunk_order);

CREATE TABLE IF NOT EXISTS captures (
	id BIGSERIAL PRIMARY KEY,
	root_id BIGINT NOT NULL REFERENCES roots(id) ON DELETE CASCADE,
	source_path TEXT NOT NULL,
	section_title TEXT NOT NULL,
	content TEXT NOT NULL,
	created_at_ms BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_captures_root ON captures(root_id, id);

CREATE TABLE IF NOT EXISTS semantic_index_meta (
	id SMALLINT PRIMARY KEY DEFAULT 1,
	root_fingerprint_ms BIGINT NOT NULL DEFAULT 0,
	item_count BIGINT NOT NULL DEFAULT 0,
	embedding_dim INTEGER NOT NULL DEFAULT 0,
	updated_at_ms BIGINT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS layout_manifest (
	id SMALLINT PRIMARY KEY DEFAULT 1,
	version INTEGER NOT NULL,
	updated_at_ms BIGINT NOT NULL
);
`

// EnsureSchema creates tables/indexes if absent, then applies the captures
// table's in-place evolution from spec 4.6: add target_relative_path and
// heading_level if missing, back-filling nulls.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.Pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("store: ensure schema: %w", err)
	}

	evolve := []string{
		`ALTER TABLE captures ADD COLUMN IF NOT EXISTS target_relative_path TEXT NOT NULL DEFAULT '` + DefaultCaptureTarget + `'`,
		`ALTER TABLE captures ADD COLUMN IF NOT EXISTS heading_level INTEGER`,
		`UPDATE captures SET target_relative_path = '` + DefaultCaptureTarget + `' WHERE target_relative_path IS NULL OR target_relative_path = ''`,
		`CREATE INDEX IF NOT EXISTS idx_captures_root_target ON captures(root_id, target_relative_path, id)`,
	}
	for _, stmt := range evolve {
		if _, err := s.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("store: evolve captures: %w", err)
		}
	}
	return nil
}

// --- layout manifest ---------------------------------------------------

// LayoutVersionStored returns the persisted layout version, or 0 if no
// manifest row exists yet.
func (s *Store) LayoutVersionStored(ctx context.Context) (int, error) {
	var v int
	err := s.Pool.QueryRow(ctx, `SELECT version FROM layout_manifest WHERE id = 1`).Scan(&v)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, nil
		}
		return 0, err
	}
	return v, nil
}

// SetLayoutVersion upserts the manifest row.
func (s *Store) SetLayoutVersion(ctx context.Context, version int, nowMs int64) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO layout_manifest(id, version, updated_at_ms) VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET version = $1, updated_at_ms = $2`, version, nowMs)
	return err
}

// ResetLayout drops every table this store owns; callers must snapshot
// before calling this (see internal/snapshot), since the original behavior
// this ports is a hard delete with no in-place migration.
func (s *Store) ResetLayout(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, `
		DROP TABLE IF EXISTS chunks, headings, authors, captures, files, roots,
			semantic_index_meta, layout_manifest CASCADE`)
	return err
}

// --- roots ---------------------------------------------------------------

// AddRoot inserts a new root, or returns the existing one's id if the
// canonical path is already tracked.
func (s *Store) AddRoot(ctx context.Context, canonicalPath string, nowMs int64) (int64, error) {
	var id int64
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO roots(canonical_path, added_at_ms, last_indexed_ms) VALUES ($1, $2, 0)
		ON CONFLICT (canonical_path) DO UPDATE SET canonical_path = EXCLUDED.canonical_path
		RETURNING id`, canonicalPath, nowMs).Scan(&id)
	return id, err
}

// RemoveRoot deletes a root and, via ON DELETE CASCADE, every file/heading/
// author/chunk/capture beneath it.
func (s *Store) RemoveRoot(ctx context.Context, canonicalPath string) error {
	_, err := s.Pool.Exec(ctx, `DELETE FROM roots WHERE canonical_path = $1`, canonicalPath)
	return err
}

// GetRootID resolves a canonical path to its root id.
func (s *Store) GetRootID(ctx context.Context, canonicalPath string) (int64, bool, error) {
	var id int64
	err := s.Pool.QueryRow(ctx, `SELECT id FROM roots WHERE canonical_path = $1`, canonicalPath).Scan(&id)
	if err == pgx.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// ListRoots returns every root with file/heading counts, for list_roots.
func (s *Store) ListRoots(ctx context.Context) ([]RootSummary, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT r.id, r.canonical_path, r.added_at_ms, r.last_indexed_ms,
		       COUNT(DISTINCT f.id) AS file_count,
		       COALESCE(SUM(f.heading_count), 0) AS heading_count
		FROM roots r
		LEFT JOIN files f ON f.root_id = r.id
		GROUP BY r.id
		ORDER BY r.canonical_path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RootSummary
	for rows.Next() {
		var rs RootSummary
		if err := rows.Scan(&rs.ID, &rs.CanonicalPath, &rs.AddedAtMs, &rs.LastIndexedMs, &rs.FileCount, &rs.HeadingCount); err != nil {
			return nil, err
		}
		out = append(out, rs)
	}
	return out, rows.Err()
}

// MaxLastIndexedMs returns max(roots.last_indexed_ms) across all roots, the
// semantic fingerprint staleness detector.
func (s *Store) MaxLastIndexedMs(ctx context.Context) (int64, error) {
	var v int64
	err := s.Pool.QueryRow(ctx, `SELECT COALESCE(MAX(last_indexed_ms), 0) FROM roots`).Scan(&v)
	return v, err
}
