package store

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// WithTx runs fn inside a transaction, committing on success and rolling
// back on any error or panic. Mirrors the begin/defer-rollback/commit
// pattern the teacher uses for its multi-statement writes.
func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// InsertHeadings writes a file's headings inside tx, replacing whatever
// DeleteFileContents removed.
func InsertHeadings(ctx context.Context, tx pgx.Tx, fileID int64, headings []Heading) error {
	for _, h := range headings {
		if _, err := tx.Exec(ctx, `
			INSERT INTO headings(file_id, heading_order, level, text, normalized)
			VALUES ($1, $2, $3, $4, $5)`, fileID, h.HeadingOrder, h.Level, h.Text, h.Normalized); err != nil {
			return err
		}
	}
	return nil
}

// InsertAuthors writes a file's deduplicated author/citation lines inside tx.
func InsertAuthors(ctx context.Context, tx pgx.Tx, fileID int64, authors []Author) error {
	for _, a := range authors {
		if _, err := tx.Exec(ctx, `
			INSERT INTO authors(file_id, author_order, text, normalized)
			VALUES ($1, $2, $3, $4)`, fileID, a.AuthorOrder, a.Text, a.Normalized); err != nil {
			return err
		}
	}
	return nil
}

// InsertChunks writes a file's chunks inside tx. ChunkText is the only field
// consulted by the lexical index builder; the vector column is populated
// separately by internal/vectorindex once embeddings exist.
func InsertChunks(ctx context.Context, tx pgx.Tx, chunks []Chunk) error {
	for _, c := range chunks {
		if _, err := tx.Exec(ctx, `
			INSERT INTO chunks(id, root_id, file_id, chunk_order, heading_order, heading_level,
				heading_text, author_text, chunk_text, file_name, relative_path, absolute_path)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (id) DO UPDATE SET
				chunk_order = EXCLUDED.chunk_order,
				heading_order = EXCLUDED.heading_order,
				heading_level = EXCLUDED.heading_level,
				heading_text = EXCLUDED.heading_text,
				author_text = EXCLUDED.author_text,
				chunk_text = EXCLUDED.chunk_text,
				file_name = EXCLUDED.file_name,
				relative_path = EXCLUDED.relative_path,
				absolute_path = EXCLUDED.absolute_path`,
			c.ID, c.RootID, c.FileID, c.ChunkOrder, c.HeadingOrder, c.HeadingLevel,
			c.HeadingText, c.AuthorText, c.ChunkText, c.FileName, c.RelativePath, c.AbsolutePath); err != nil {
			return err
		}
	}
	return nil
}
