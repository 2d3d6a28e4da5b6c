// Package vectorindex is the columnar vector store for semantic search: a
// pgvector-backed table standing in for the original's Arrow/Lance table
// (see DESIGN.md). It shares internal/store's connection pool rather than
// opening a second one, since both live in the same Postgres instance.
package vectorindex

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// ANNIndexThreshold mirrors spec 4.9: an ANN index is only worth creating
// once the candidate set is large enough that exact scan stops being cheap.
const ANNIndexThreshold = 4096

// Record is one semantic index row: a file, heading, or author entry with
// its composed-text embedding.
type Record struct {
	SemanticID   int64
	RootID       int64
	Kind         string // "file" | "heading" | "author"
	FileID       int64
	FileName     string
	RelativePath string
	AbsolutePath string
	HeadingLevel *int64
	HeadingText  *string
	HeadingOrder *int64
	Vector       []float32
}

// Match is one ANN search hit.
type Match struct {
	Record
	Distance float64
}

// Index owns the chunk_vectors table for a fixed embedding dimension.
type Index struct {
	pool *pgxpool.Pool
	dim  int
}

// Open binds an Index to pool, assuming dim-dimensional vectors. Callers
// must call EnsureTable before first use.
func Open(pool *pgxpool.Pool, dim int) *Index {
	return &Index{pool: pool, dim: dim}
}

// EnsureTable creates the chunk_vectors table for the configured dimension
// if absent. Changing dim requires a full rebuild (see Rebuild), since
// pgvector columns are fixed-width.
func (ix *Index) EnsureTable(ctx context.Context) error {
	ddl := fmt.Sprintf(`
		CREATE EXTENSION IF NOT EXISTS vector;
		CREATE TABLE IF NOT EXISTS chunk_vectors (
			semantic_id BIGSERIAL PRIMARY KEY,
			root_id BIGINT NOT NULL,
			kind TEXT NOT NULL,
			file_id BIGINT NOT NULL,
			file_name TEXT NOT NULL,
			relative_path TEXT NOT NULL,
			absolute_path TEXT NOT NULL,
			heading_level BIGINT,
			heading_text TEXT,
			heading_order BIGINT,
			embedding vector(%d)
		);
		CREATE INDEX IF NOT EXISTS idx_chunk_vectors_root ON chunk_vectors(root_id);
	`, ix.dim)
	_, err := ix.pool.Exec(ctx, ddl)
	return err
}

// Rebuild replaces the entire table contents with records, mirroring spec
// 4.9's "table is created in overwrite mode". Runs inside a transaction so
// queries never observe a half-populated table.
func (ix *Index) Rebuild(ctx context.Context, records []Record) error {
	tx, err := ix.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `TRUNCATE TABLE chunk_vectors`); err != nil {
		return fmt.Errorf("vectorindex: truncate: %w", err)
	}

	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(`
			INSERT INTO chunk_vectors(root_id, kind, file_id, file_name, relative_path,
				absolute_path, heading_level, heading_text, heading_order, embedding)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			r.RootID, r.Kind, r.FileID, r.FileName, r.RelativePath, r.AbsolutePath,
			r.HeadingLevel, r.HeadingText, r.HeadingOrder, pgvector.NewVector(r.Vector))
	}
	br := tx.SendBatch(ctx, batch)
	for range records {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("vectorindex: insert: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return err
	}

	if len(records) >= ANNIndexThreshold {
		if err := ix.ensureANNIndex(ctx, tx); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// ensureANNIndex builds an IVFFlat index once the table is large enough for
// exact scan to stop being the cheaper option, the Postgres analogue of
// spec 4.9's "request an auto-selected ANN index" once candidates >= 4096.
func (ix *Index) ensureANNIndex(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS idx_chunk_vectors_ann
		ON chunk_vectors USING ivfflat (embedding vector_l2_ops) WITH (lists = 100)`)
	return err
}

// Count returns the number of rows currently stored.
func (ix *Index) Count(ctx context.Context) (int64, error) {
	var n int64
	err := ix.pool.QueryRow(ctx, `SELECT COUNT(*) FROM chunk_vectors`).Scan(&n)
	return n, err
}

// Search runs an ANN query for queryVec, returning the topK nearest rows by
// L2 distance. Only nprobes is accepted (there is no refine parameter;
// callers over-fetch through topK instead); pgvector's ivfflat tunes recall
// via ivfflat.probes, set per-query here.
func (ix *Index) Search(ctx context.Context, queryVec []float32, topK int, nprobes int, rootID *int64) ([]Match, error) {
	tx, err := ix.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL ivfflat.probes = %d", nprobes)); err != nil {
		return nil, fmt.Errorf("vectorindex: set probes: %w", err)
	}

	qv := pgvector.NewVector(queryVec)
	var rows pgx.Rows
	if rootID != nil {
		rows, err = tx.Query(ctx, `
			SELECT semantic_id, root_id, kind, file_id, file_name, relative_path, absolute_path,
			       heading_level, heading_text, heading_order, embedding <-> $1 AS distance
			FROM chunk_vectors WHERE root_id = $2
			ORDER BY embedding <-> $1 LIMIT $3`, qv, *rootID, topK)
	} else {
		rows, err = tx.Query(ctx, `
			SELECT semantic_id, root_id, kind, file_id, file_name, relative_path, absolute_path,
			       heading_level, heading_text, heading_order, embedding <-> $1 AS distance
			FROM chunk_vectors
			ORDER BY embedding <-> $1 LIMIT $2`, qv, topK)
	}
	if err != nil {
		return nil, fmt.Errorf("vectorindex: search: %w", err)
	}
	defer rows.Close()

	var out []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.SemanticID, &m.RootID, &m.Kind, &m.FileID, &m.FileName,
			&m.RelativePath, &m.AbsolutePath, &m.HeadingLevel, &m.HeadingText, &m.HeadingOrder,
			&m.Distance); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

// Score converts a raw distance into spec 4.9's fused ranking space: "7000
// + 1000*distance" (larger is worse, matching the lexical tiers' base+rank
// convention inverted for distance-based scoring upstream in queryengine).
func Score(distance float64) float64 {
	return 7000 + 1000*distance
}
