package store

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// FileByID looks up one tracked file by its row id, for callers (like the
// benchmark harness and preview lookups) that only have a file id in hand.
func (s *Store) FileByID(ctx context.Context, fileID int64) (File, bool, error) {
	var f File
	err := s.Pool.QueryRow(ctx, `
		SELECT id, root_id, relative_path, modified_ms, size, file_hash, heading_count
		FROM files WHERE id = $1`, fileID).
		Scan(&f.ID, &f.RootID, &f.RelativePath, &f.ModifiedMs, &f.Size, &f.FileHash, &f.HeadingCount)
	if err != nil {
		if err == pgx.ErrNoRows {
			return File{}, false, nil
		}
		return File{}, false, err
	}
	return f, true, nil
}

// RootPathByID resolves a root's canonical path from its id.
func (s *Store) RootPathByID(ctx context.Context, rootID int64) (string, bool, error) {
	var path string
	err := s.Pool.QueryRow(ctx, `SELECT canonical_path FROM roots WHERE id = $1`, rootID).Scan(&path)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", false, nil
		}
		return "", false, err
	}
	return path, true, nil
}

// LongestHeadingTextsByRoot returns the longest heading texts under a root,
// used to seed realistic benchmark queries. Grounded on commands.rs's
// collect_benchmark_queries heading source query.
func (s *Store) LongestHeadingTextsByRoot(ctx context.Context, rootID int64, limit int) ([]string, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT h.text
		FROM headings h
		JOIN files f ON f.id = h.file_id
		WHERE f.root_id = $1
		ORDER BY length(h.text) DESC, h.id ASC
		LIMIT $2`, rootID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, err
		}
		out = append(out, text)
	}
	return out, rows.Err()
}

// RecentAuthorTextsByRoot returns the most recently inserted author/citation
// texts under a root.
func (s *Store) RecentAuthorTextsByRoot(ctx context.Context, rootID int64, limit int) ([]string, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT a.text
		FROM authors a
		JOIN files f ON f.id = a.file_id
		WHERE f.root_id = $1
		ORDER BY a.id DESC
		LIMIT $2`, rootID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, err
		}
		out = append(out, text)
	}
	return out, rows.Err()
}

// RelativePathsByRootRanked returns relative paths under a root, ranked by
// heading_count then recency, the same ranking benchmark_root_performance
// uses to pick representative files for its query seed and preview samples.
func (s *Store) RelativePathsByRootRanked(ctx context.Context, rootID int64, limit int) ([]string, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT relative_path
		FROM files
		WHERE root_id = $1
		ORDER BY heading_count DESC, modified_ms DESC
		LIMIT $2`, rootID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var relativePath string
		if err := rows.Scan(&relativePath); err != nil {
			return nil, err
		}
		out = append(out, relativePath)
	}
	return out, rows.Err()
}

// SampleFileIDsByRoot returns file ids ranked by heading_count/modified_ms,
// for sampling representative files to time file-preview extraction.
func (s *Store) SampleFileIDsByRoot(ctx context.Context, rootID int64, limit int) ([]int64, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id
		FROM files
		WHERE root_id = $1
		ORDER BY heading_count DESC, modified_ms DESC, id DESC
		LIMIT $2`, rootID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// HeadingRef identifies one heading by its owning file and order.
type HeadingRef struct {
	FileID       int64
	HeadingOrder int
}

// SampleHeadingRefsByRoot returns heading references ranked by their file's
// heading_count then heading order, for timing heading-preview extraction.
func (s *Store) SampleHeadingRefsByRoot(ctx context.Context, rootID int64, limit int) ([]HeadingRef, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT h.file_id, h.heading_order
		FROM headings h
		JOIN files f ON f.id = h.file_id
		WHERE f.root_id = $1
		ORDER BY f.heading_count DESC, h.heading_order ASC
		LIMIT $2`, rootID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HeadingRef
	for rows.Next() {
		var ref HeadingRef
		if err := rows.Scan(&ref.FileID, &ref.HeadingOrder); err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}
