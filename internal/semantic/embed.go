package semantic

import (
	"context"
	"fmt"
	"math"

	"github.com/hsn0918/docindex/internal/clients/embedding"
)

// BatchSize mirrors spec 4.9's embedding batch size.
const BatchSize = 24

// Embedder is the subset of embedding.Client used here, narrowed for
// testability.
type Embedder interface {
	CreateBatchEmbedding(model string, texts []string) (*embedding.Response, error)
}

// EmbedTexts embeds texts in batches of BatchSize and L2-normalizes every
// resulting vector. Normalization is defensive: the remote embedding
// service may already return unit vectors, but the original's local
// pipeline always normalizes post-pooling, so this preserves that
// invariant regardless of what the backend returns (see DESIGN.md).
func EmbedTexts(ctx context.Context, embedder Embedder, model string, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += BatchSize {
		end := start + BatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		resp, err := embedder.CreateBatchEmbedding(model, batch)
		if err != nil {
			return nil, fmt.Errorf("semantic: embed batch [%d:%d]: %w", start, end, err)
		}
		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("semantic: embedding service returned %d vectors for %d inputs", len(resp.Data), len(batch))
		}
		for _, d := range resp.Data {
			vec := make([]float32, len(d.Embedding))
			for i, v := range d.Embedding {
				vec[i] = float32(v)
			}
			normalizeL2(vec)
			out = append(out, vec)
		}
	}
	return out, nil
}

// normalizeL2 scales values to unit length in place, mirroring
// normalize_vector_l2. A zero vector is left untouched.
func normalizeL2(values []float32) {
	var sumSq float64
	for _, v := range values {
		sumSq += float64(v) * float64(v)
	}
	norm := math.Sqrt(sumSq)
	if norm <= 0 {
		return
	}
	for i := range values {
		values[i] = float32(float64(values[i]) / norm)
	}
}
