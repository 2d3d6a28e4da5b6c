package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// GetExistingFiles returns every tracked file under rootID keyed by relative
// path, used by the indexer's change-detection pass (spec 4.7: a file is
// re-parsed only if its modified time or size changed since last indexed).
func (s *Store) GetExistingFiles(ctx context.Context, rootID int64) (map[string]ExistingFileMeta, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT relative_path, id, modified_ms, size, file_hash
		FROM files WHERE root_id = $1`, rootID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]ExistingFileMeta)
	for rows.Next() {
		var relPath string
		var meta ExistingFileMeta
		if err := rows.Scan(&relPath, &meta.ID, &meta.ModifiedMs, &meta.Size, &meta.FileHash); err != nil {
			return nil, err
		}
		out[relPath] = meta
	}
	return out, rows.Err()
}

// UpsertFile inserts or updates a file's tracking row and returns its id.
// Must run inside the same transaction as the heading/author/chunk replace
// for the file, so a crash mid-commit never leaves stale chunks pointing at
// a refreshed modified_ms.
func UpsertFile(ctx context.Context, tx pgx.Tx, rootID int64, relativePath string, modifiedMs, size int64, fileHash string, headingCount int) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO files(root_id, relative_path, modified_ms, size, file_hash, heading_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (root_id, relative_path) DO UPDATE SET
			modified_ms = EXCLUDED.modified_ms,
			size = EXCLUDED.size,
			file_hash = EXCLUDED.file_hash,
			heading_count = EXCLUDED.heading_count
		RETURNING id`, rootID, relativePath, modifiedMs, size, fileHash, headingCount).Scan(&id)
	return id, err
}

// DeleteFilesNotIn removes file rows (and their headings/authors/chunks via
// cascade) under rootID whose relative path is absent from keepPaths — the
// indexer's stale-file cleanup phase.
func (s *Store) DeleteFilesNotIn(ctx context.Context, rootID int64, keepPaths []string) (int64, error) {
	tag, err := s.Pool.Exec(ctx, `
		DELETE FROM files WHERE root_id = $1 AND relative_path <> ALL($2)`, rootID, keepPaths)
	if err != nil {
		return 0, fmt.Errorf("store: delete stale files: %w", err)
	}
	return tag.RowsAffected(), nil
}

// TouchRootIndexed stamps a root's last_indexed_ms after a successful run.
func (s *Store) TouchRootIndexed(ctx context.Context, rootID int64, whenMs int64) error {
	_, err := s.Pool.Exec(ctx, `UPDATE roots SET last_indexed_ms = $2 WHERE id = $1`, rootID, whenMs)
	return err
}

// DeleteFileContents removes the headings/authors/chunks belonging to fileID
// ahead of a re-insert; called within the indexer's single commit
// transaction before the fresh rows from a re-parse are written.
func DeleteFileContents(ctx context.Context, tx pgx.Tx, fileID int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM chunks WHERE file_id = $1`, fileID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM headings WHERE file_id = $1`, fileID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM authors WHERE file_id = $1`, fileID); err != nil {
		return err
	}
	return nil
}
