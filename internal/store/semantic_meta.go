package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// SemanticIndexMeta tracks when the semantic index was last rebuilt and
// against what corpus, letting internal/semantic decide whether a rebuild
// is needed without re-embedding unchanged content.
type SemanticIndexMeta struct {
	RootFingerprintMs int64
	ItemCount         int64
	EmbeddingDim      int
	UpdatedAtMs       int64
}

// GetSemanticIndexMeta returns the persisted rebuild fingerprint, or the
// zero value if the semantic index has never been built.
func (s *Store) GetSemanticIndexMeta(ctx context.Context) (SemanticIndexMeta, error) {
	var m SemanticIndexMeta
	err := s.Pool.QueryRow(ctx, `
		SELECT root_fingerprint_ms, item_count, embedding_dim, updated_at_ms
		FROM semantic_index_meta WHERE id = 1`).
		Scan(&m.RootFingerprintMs, &m.ItemCount, &m.EmbeddingDim, &m.UpdatedAtMs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SemanticIndexMeta{}, nil
		}
		return SemanticIndexMeta{}, err
	}
	return m, nil
}

// SetSemanticIndexMeta upserts the rebuild fingerprint after a successful
// semantic rebuild.
func (s *Store) SetSemanticIndexMeta(ctx context.Context, m SemanticIndexMeta) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO semantic_index_meta(id, root_fingerprint_ms, item_count, embedding_dim, updated_at_ms)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			root_fingerprint_ms = $1, item_count = $2, embedding_dim = $3, updated_at_ms = $4`,
		m.RootFingerprintMs, m.ItemCount, m.EmbeddingDim, m.UpdatedAtMs)
	return err
}
