package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// ChunksByFile returns every chunk for fileID ordered by chunk_order.
func (s *Store) ChunksByFile(ctx context.Context, fileID int64) ([]Chunk, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, root_id, file_id, chunk_order, heading_order, heading_level,
		       heading_text, author_text, chunk_text, file_name, relative_path, absolute_path
		FROM chunks WHERE file_id = $1 ORDER BY chunk_order`, fileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanChunks(rows)
}

// ChunksByRoot returns every chunk under rootID, the lexical index's full
// corpus snapshot for rebuilds.
func (s *Store) ChunksByRoot(ctx context.Context, rootID int64) ([]Chunk, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, root_id, file_id, chunk_order, heading_order, heading_level,
		       heading_text, author_text, chunk_text, file_name, relative_path, absolute_path
		FROM chunks WHERE root_id = $1 ORDER BY file_id, chunk_order`, rootID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanChunks(rows)
}

// AllChunks returns every chunk across every root, used by the semantic
// index's candidate loading, the lexical index build, and snapshots.
func (s *Store) AllChunks(ctx context.Context) ([]Chunk, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, root_id, file_id, chunk_order, heading_order, heading_level,
		       heading_text, author_text, chunk_text, file_name, relative_path, absolute_path
		FROM chunks ORDER BY root_id, file_id, chunk_order`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanChunks(rows)
}

// ChunksByIDs fetches a specific set of chunks by id, preserving none of
// the input order; callers re-sort against their own ranked id list.
func (s *Store) ChunksByIDs(ctx context.Context, ids []string) ([]Chunk, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, root_id, file_id, chunk_order, heading_order, heading_level,
		       heading_text, author_text, chunk_text, file_name, relative_path, absolute_path
		FROM chunks WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanChunks(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanChunks(rows rowScanner) ([]Chunk, error) {
	var out []Chunk
	for rows.Next() {
		var c Chunk
		if err := rows.Scan(&c.ID, &c.RootID, &c.FileID, &c.ChunkOrder, &c.HeadingOrder, &c.HeadingLevel,
			&c.HeadingText, &c.AuthorText, &c.ChunkText, &c.FileName, &c.RelativePath, &c.AbsolutePath); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// HeadingsByFile returns a file's headings ordered by heading_order.
func (s *Store) HeadingsByFile(ctx context.Context, fileID int64) ([]Heading, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, file_id, heading_order, level, text, normalized
		FROM headings WHERE file_id = $1 ORDER BY heading_order`, fileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Heading
	for rows.Next() {
		var h Heading
		if err := rows.Scan(&h.ID, &h.FileID, &h.HeadingOrder, &h.Level, &h.Text, &h.Normalized); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// FindHeadingByNormalized searches a root's headings for an exact normalized
// text match, used by capture/move/delete operations that address a
// heading by name rather than by id.
func (s *Store) FindHeadingByNormalized(ctx context.Context, rootID int64, normalized string) (Heading, bool, error) {
	var h Heading
	err := s.Pool.QueryRow(ctx, `
		SELECT h.id, h.file_id, h.heading_order, h.level, h.text, h.normalized, f.relative_path
		FROM headings h
		JOIN files f ON f.id = h.file_id
		WHERE f.root_id = $1 AND h.normalized = $2
		ORDER BY h.id LIMIT 1`, rootID, normalized).
		Scan(&h.ID, &h.FileID, &h.HeadingOrder, &h.Level, &h.Text, &h.Normalized, &h.RelativePath)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Heading{}, false, nil
		}
		return Heading{}, false, err
	}
	return h, true, nil
}
