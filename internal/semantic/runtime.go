package semantic

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/hsn0918/docindex/internal/store"
	"github.com/hsn0918/docindex/internal/textnorm"
	"github.com/hsn0918/docindex/internal/vectorindex"
)

// MinQueryCodepoints mirrors spec 4.9's minimum semantic query length.
const MinQueryCodepoints = 3

// Hit is one semantic search result.
type Hit struct {
	Kind         string
	FileID       int64
	FileName     string
	RelativePath string
	AbsolutePath string
	HeadingLevel *int
	HeadingText  *string
	HeadingOrder *int
	Score        float64
}

// Runtime coordinates candidate composition, embedding, storage, and query
// against a single root_fingerprint_ms-gated index.
type Runtime struct {
	store    *store.Store
	index    *vectorindex.Index
	embedder Embedder
	model    string
	nprobes  int
	// refine is accepted for parity with spec 4.9's refine_factor=2; pgvector's
	// ivfflat has no direct post-filter refine knob, so it is folded into the
	// over-fetch multiplier in Search instead of a separate re-rank pass.
	refine   int
	inFlight atomic.Bool
}

// NewRuntime wires a semantic runtime against shared store/index/embedder
// instances.
func NewRuntime(st *store.Store, index *vectorindex.Index, embedder Embedder, model string, nprobes, refine int) *Runtime {
	return &Runtime{store: st, index: index, embedder: embedder, model: model, nprobes: nprobes, refine: refine}
}

// IsStale reports whether the persisted fingerprint trails the newest root
// indexing run, spec 4.9's rebuild trigger condition (besides force).
func (r *Runtime) IsStale(ctx context.Context) (bool, error) {
	fingerprint, err := r.store.MaxLastIndexedMs(ctx)
	if err != nil {
		return false, err
	}
	if fingerprint == 0 {
		return false, nil
	}
	meta, err := r.store.GetSemanticIndexMeta(ctx)
	if err != nil {
		return false, err
	}
	return meta.RootFingerprintMs < fingerprint, nil
}

// RebuildIfNeeded triggers a full rebuild when forced, or when the index is
// stale. A single-flight atomic flag mirrors the original's
// SEMANTIC_REBUILD_IN_FLIGHT: a rebuild already running causes this call to
// return immediately rather than queue a second one.
func (r *Runtime) RebuildIfNeeded(ctx context.Context, force bool) error {
	if !force {
		stale, err := r.IsStale(ctx)
		if err != nil {
			return err
		}
		if !stale {
			return nil
		}
	}

	if !r.inFlight.CompareAndSwap(false, true) {
		return nil
	}
	defer r.inFlight.Store(false)

	return r.rebuild(ctx)
}

func (r *Runtime) rebuild(ctx context.Context) error {
	candidates, err := LoadCandidates(ctx, r.store)
	if err != nil {
		return fmt.Errorf("semantic: load candidates: %w", err)
	}
	if len(candidates) == 0 {
		return r.index.Rebuild(ctx, nil)
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Text
	}
	vectors, err := EmbedTexts(ctx, r.embedder, r.model, texts)
	if err != nil {
		return fmt.Errorf("semantic: embed candidates: %w", err)
	}
	if len(vectors) != len(candidates) {
		return fmt.Errorf("semantic: embedded %d vectors for %d candidates", len(vectors), len(candidates))
	}

	records := make([]vectorindex.Record, len(candidates))
	dim := 0
	for i, c := range candidates {
		var headingLevel64, headingOrder64 *int64
		if c.HeadingLevel != nil {
			v := int64(*c.HeadingLevel)
			headingLevel64 = &v
		}
		if c.HeadingOrder != nil {
			v := int64(*c.HeadingOrder)
			headingOrder64 = &v
		}
		records[i] = vectorindex.Record{
			RootID:       c.RootID,
			Kind:         c.Kind,
			FileID:       c.FileID,
			FileName:     c.FileName,
			RelativePath: c.RelativePath,
			AbsolutePath: c.AbsolutePath,
			HeadingLevel: headingLevel64,
			HeadingText:  c.HeadingText,
			HeadingOrder: headingOrder64,
			Vector:       vectors[i],
		}
		dim = len(vectors[i])
	}

	if err := r.index.Rebuild(ctx, records); err != nil {
		return fmt.Errorf("semantic: rebuild vector table: %w", err)
	}

	fingerprint, err := r.store.MaxLastIndexedMs(ctx)
	if err != nil {
		return err
	}
	return r.store.SetSemanticIndexMeta(ctx, store.SemanticIndexMeta{
		RootFingerprintMs: fingerprint,
		ItemCount:         int64(len(records)),
		EmbeddingDim:      dim,
	})
}

// Search embeds the query and runs an ANN search for the top
// 2*limit*max(refine,1) matches,
// deduplicating by (file_id, kind, heading_order, heading_text) and scoring
// 7000 + 1000*distance (larger is worse).
func (r *Runtime) Search(ctx context.Context, query string, rootID *int64, limit int) ([]Hit, error) {
	trimmed := textnorm.TruncateRunes(query, textnorm.MaxQueryChars)
	if len([]rune(trimmed)) < MinQueryCodepoints {
		return nil, nil
	}

	vectors, err := EmbedTexts(ctx, r.embedder, r.model, []string{trimmed})
	if err != nil {
		return nil, fmt.Errorf("semantic: embed query: %w", err)
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, nil
	}

	overfetch := limit * 2 * max(r.refine, 1)
	matches, err := r.index.Search(ctx, vectors[0], overfetch, r.nprobes, rootID)
	if err != nil {
		return nil, fmt.Errorf("semantic: ann search: %w", err)
	}

	seen := make(map[string]struct{})
	out := make([]Hit, 0, limit)
	for _, m := range matches {
		if len(out) >= limit {
			break
		}
		order := int64(0)
		if m.HeadingOrder != nil {
			order = *m.HeadingOrder
		}
		text := ""
		if m.HeadingText != nil {
			text = *m.HeadingText
		}
		key := fmt.Sprintf("%d:%s:%d:%s", m.FileID, m.Kind, order, text)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		var level, hOrder *int
		if m.HeadingLevel != nil {
			v := int(*m.HeadingLevel)
			level = &v
		}
		if m.HeadingOrder != nil {
			v := int(*m.HeadingOrder)
			hOrder = &v
		}
		out = append(out, Hit{
			Kind:         m.Kind,
			FileID:       m.FileID,
			FileName:     m.FileName,
			RelativePath: m.RelativePath,
			AbsolutePath: m.AbsolutePath,
			HeadingLevel: level,
			HeadingText:  m.HeadingText,
			HeadingOrder: hOrder,
			Score:        vectorindex.Score(m.Distance),
		})
	}
	return out, nil
}
