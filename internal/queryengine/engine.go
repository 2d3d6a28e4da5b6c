package queryengine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hsn0918/docindex/internal/indexlog"
	"github.com/hsn0918/docindex/internal/lexical"
	"github.com/hsn0918/docindex/internal/querycache"
	"github.com/hsn0918/docindex/internal/semantic"
	"github.com/hsn0918/docindex/internal/store"
	"github.com/hsn0918/docindex/internal/textnorm"
)

const (
	minLexicalQueryRunes = 2
	lexicalSoftBudget    = 60 * time.Millisecond
	hybridSoftBudget     = 180 * time.Millisecond
)

// RedisCache is the subset of redisqcache.Client the engine depends on,
// kept as an interface so the shared second tier is optional in tests and
// in deployments that run a single process.
type RedisCache interface {
	Get(ctx context.Context, cacheKey string, dest any) (bool, error)
	Set(ctx context.Context, cacheKey string, value any) error
}

// Engine dispatches lexical, semantic, and hybrid search requests, fronted
// by an in-process LRU cache and an optional shared Redis cache. Grounded
// on query_engine.rs's QueryEngine.
type Engine struct {
	Lexical  *lexical.Index
	Semantic *semantic.Runtime
	Store    *store.Store
	Cache    *querycache.Cache
	Redis    RedisCache
}

// New wires an Engine from its already-constructed dependencies. Redis may
// be nil, in which case the engine runs with only the in-process cache.
func New(lx *lexical.Index, sem *semantic.Runtime, st *store.Store, cache *querycache.Cache, redis RedisCache) *Engine {
	if cache == nil {
		cache = querycache.New(0, 0)
	}
	return &Engine{Lexical: lx, Semantic: sem, Store: st, Cache: cache, Redis: redis}
}

func (e *Engine) resolveRootID(ctx context.Context, rootPath string) (*int64, error) {
	if rootPath == "" {
		return nil, nil
	}
	id, ok, err := e.Store.GetRootID(ctx, rootPath)
	if err != nil {
		return nil, fmt.Errorf("queryengine: resolve root: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("queryengine: unknown root %q", rootPath)
	}
	return &id, nil
}

func cacheKeyInt64(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}

// lookupCache checks the in-process tier first, then the shared Redis tier
// if present, promoting a Redis hit into the in-process cache.
func (e *Engine) lookupCache(ctx context.Context, key string) ([]Hit, bool) {
	if v, ok := e.Cache.Get(key); ok {
		if hits, ok := v.([]Hit); ok {
			return hits, true
		}
	}
	if e.Redis == nil {
		return nil, false
	}
	var hits []Hit
	found, err := e.Redis.Get(ctx, key, &hits)
	if err != nil || !found {
		return nil, false
	}
	e.Cache.Set(key, hits)
	return hits, true
}

func (e *Engine) storeCache(ctx context.Context, key string, hits []Hit) {
	e.Cache.Set(key, hits)
	if e.Redis != nil {
		_ = e.Redis.Set(ctx, key, hits)
	}
}

// SearchLexical runs the word/prefix/ngram tiers against the in-memory
// inverted index, cached under "{mode}|{normalized}|{root}|{limit}" where
// mode is "lexical", or "lexical_file_name_only" when fileNameOnly is set.
func (e *Engine) SearchLexical(ctx context.Context, rawQuery, rootPath string, limit int, fileNameOnly bool) ([]Hit, error) {
	start := time.Now()
	normalized := textnorm.Normalize(textnorm.TruncateQuery(rawQuery))
	if len([]rune(normalized)) < minLexicalQueryRunes {
		return nil, fmt.Errorf("queryengine: query too short")
	}

	rootID, err := e.resolveRootID(ctx, rootPath)
	if err != nil {
		return nil, err
	}

	mode := "lexical"
	if fileNameOnly {
		mode = "lexical_file_name_only"
	}
	cacheKey := fmt.Sprintf("%s|%s|%d|%d", mode, normalized, cacheKeyInt64(rootID), limit)
	if hits, ok := e.lookupCache(ctx, cacheKey); ok {
		return hits, nil
	}

	lexHits := e.Lexical.Search(normalized, rootID, limit, fileNameOnly)
	hits := make([]Hit, 0, len(lexHits))
	for _, h := range lexHits {
		hits = append(hits, fromLexical(h))
	}

	e.storeCache(ctx, cacheKey, hits)

	if elapsed := time.Since(start); elapsed > lexicalSoftBudget {
		indexlog.Get().Warn("lexical search exceeded soft budget",
			zap.Duration("elapsed", elapsed), zap.String("query", normalized))
	}
	return hits, nil
}

// SearchSemantic runs the ANN tier directly. It is never cached, mirroring
// an asymmetry in the original engine: semantic search already pays an
// embedding round-trip per call, so the marginal benefit of caching is
// small relative to the staleness risk after a rebuild.
func (e *Engine) SearchSemantic(ctx context.Context, rawQuery, rootPath string, limit int) ([]Hit, error) {
	rootID, err := e.resolveRootID(ctx, rootPath)
	if err != nil {
		return nil, err
	}

	if err := e.Semantic.RebuildIfNeeded(ctx, false); err != nil {
		indexlog.Get().Warn("semantic rebuild check failed", zap.Error(err))
	}

	semHits, err := e.Semantic.Search(ctx, rawQuery, rootID, limit)
	if err != nil {
		return nil, fmt.Errorf("queryengine: semantic search: %w", err)
	}
	hits := make([]Hit, 0, len(semHits))
	for _, h := range semHits {
		hits = append(hits, fromSemantic(h))
	}
	return hits, nil
}

// SearchHybrid runs lexical and semantic search concurrently and fuses the
// results with reciprocal rank fusion. fileNameOnly or a disabled semantic
// tier short-circuits to SearchLexical's result, cached under SearchLexical's
// key, which keeps file-name-only and full lexical queries apart.
func (e *Engine) SearchHybrid(ctx context.Context, rawQuery, rootPath string, limit int, fileNameOnly, semanticEnabled bool) ([]Hit, error) {
	start := time.Now()

	mode := "hybrid"
	switch {
	case fileNameOnly:
		mode = "hybrid_file_name_only"
	case !semanticEnabled:
		mode = "lexical_only"
	}

	if mode != "hybrid" {
		hits, err := e.SearchLexical(ctx, rawQuery, rootPath, limit, fileNameOnly)
		if err != nil {
			return nil, err
		}
		for i := range hits {
			hits[i].Source = "lexical"
		}
		return hits, nil
	}

	normalized := textnorm.Normalize(textnorm.TruncateQuery(rawQuery))
	if len([]rune(normalized)) < minLexicalQueryRunes {
		return nil, fmt.Errorf("queryengine: query too short")
	}

	rootID, err := e.resolveRootID(ctx, rootPath)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("%s|%s|%d|%d", mode, normalized, cacheKeyInt64(rootID), limit)
	if hits, ok := e.lookupCache(ctx, cacheKey); ok {
		return hits, nil
	}

	var lexHits []lexical.Hit
	var semHits []semantic.Hit

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lexHits = e.Lexical.Search(normalized, rootID, limit, false)
		return nil
	})
	g.Go(func() error {
		if err := e.Semantic.RebuildIfNeeded(gctx, false); err != nil {
			indexlog.Get().Warn("semantic rebuild check failed", zap.Error(err))
		}
		hits, err := e.Semantic.Search(gctx, rawQuery, rootID, limit)
		if err != nil {
			// Semantic errors degrade to an empty result rather than failing
			// the whole hybrid call.
			indexlog.Get().Warn("semantic search degraded to empty", zap.Error(err))
			return nil
		}
		semHits = hits
		return nil
	})
	_ = g.Wait()

	lexAsHit := make([]Hit, 0, len(lexHits))
	for _, h := range lexHits {
		lexAsHit = append(lexAsHit, fromLexical(h))
	}
	semAsHit := make([]Hit, 0, len(semHits))
	for _, h := range semHits {
		semAsHit = append(semAsHit, fromSemantic(h))
	}

	fused := fuseRRF(lexAsHit, semAsHit, limit)
	e.storeCache(ctx, cacheKey, fused)

	if elapsed := time.Since(start); elapsed > hybridSoftBudget {
		indexlog.Get().Warn("hybrid search exceeded soft budget",
			zap.Duration("elapsed", elapsed), zap.String("query", normalized))
	}
	return fused, nil
}
