package store

import "context"

// AllFiles returns every tracked file across every root.
func (s *Store) AllFiles(ctx context.Context) ([]File, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, root_id, relative_path, modified_ms, size, file_hash, heading_count
		FROM files ORDER BY root_id, relative_path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []File
	for rows.Next() {
		var f File
		if err := rows.Scan(&f.ID, &f.RootID, &f.RelativePath, &f.ModifiedMs, &f.Size, &f.FileHash, &f.HeadingCount); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// HeadingJoined is a heading row annotated with its owning file's identity,
// for full-corpus lexical rebuilds.
type HeadingJoined struct {
	Heading
	RootID       int64
	FileID       int64
	AbsolutePath string
}

// AllHeadingsJoined returns every heading across every root joined with its
// file's path metadata.
func (s *Store) AllHeadingsJoined(ctx context.Context) ([]HeadingJoined, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT f.root_id, h.file_id, f.relative_path, h.heading_order, h.level, h.text, h.normalized
		FROM headings h JOIN files f ON f.id = h.file_id
		ORDER BY f.root_id, h.file_id, h.heading_order`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HeadingJoined
	for rows.Next() {
		var h HeadingJoined
		if err := rows.Scan(&h.RootID, &h.FileID, &h.RelativePath, &h.HeadingOrder, &h.Level, &h.Text, &h.Normalized); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// AuthorJoined is an author row annotated with its owning file's identity.
type AuthorJoined struct {
	Author
	RootID       int64
	RelativePath string
}

// AllAuthorsJoined returns every author row across every root joined with
// its file's path metadata.
func (s *Store) AllAuthorsJoined(ctx context.Context) ([]AuthorJoined, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT f.root_id, a.file_id, f.relative_path, a.author_order, a.text, a.normalized
		FROM authors a JOIN files f ON f.id = a.file_id
		ORDER BY f.root_id, a.file_id, a.author_order`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AuthorJoined
	for rows.Next() {
		var a AuthorJoined
		if err := rows.Scan(&a.RootID, &a.FileID, &a.RelativePath, &a.AuthorOrder, &a.Text, &a.Normalized); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
