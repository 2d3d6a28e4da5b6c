package store

import "context"

// InsertCapture records a logical capture entry after the mutator has
// successfully spliced the section into the target .docx on disk.
func (s *Store) InsertCapture(ctx context.Context, c Capture) (int64, error) {
	var id int64
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO captures(root_id, source_path, section_title, target_relative_path,
			heading_level, content, created_at_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`, c.RootID, c.SourcePath, c.SectionTitle, c.TargetRelativePath,
		c.HeadingLevel, c.Content, c.CreatedAtMs).Scan(&id)
	return id, err
}

// CapturesByRoot lists every capture entry under rootID, most recent first.
func (s *Store) CapturesByRoot(ctx context.Context, rootID int64) ([]Capture, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, root_id, source_path, section_title, target_relative_path,
		       heading_level, content, created_at_ms
		FROM captures WHERE root_id = $1 ORDER BY id DESC`, rootID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Capture
	for rows.Next() {
		var c Capture
		if err := rows.Scan(&c.ID, &c.RootID, &c.SourcePath, &c.SectionTitle, &c.TargetRelativePath,
			&c.HeadingLevel, &c.Content, &c.CreatedAtMs); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
