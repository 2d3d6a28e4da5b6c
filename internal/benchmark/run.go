package benchmark

import (
	"context"
	"time"

	"github.com/hsn0918/docindex/internal/queryengine"
	"github.com/hsn0918/docindex/internal/store"
)

// Indexer is the subset of the indexer orchestration this package depends
// on: run one indexing pass over a root and report what it did. Kept as an
// interface so benchmark never imports the indexer package directly, the
// same dependency-inversion shape as queryengine.RedisCache.
type Indexer interface {
	IndexRoot(ctx context.Context, rootPath string) (IndexStats, error)
}

// PreviewProvider is the subset of preview extraction this package needs,
// addressed by file id the way the original Tauri commands were.
type PreviewProvider interface {
	FilePreviewHeadingCount(ctx context.Context, fileID int64) (int, error)
	HeadingPreviewHTML(ctx context.Context, fileID int64, headingOrder int) (string, error)
}

// Snapshotter produces the lightweight index summary a UI would refresh
// after indexing; Run only cares how long building one takes.
type Snapshotter interface {
	GetIndexSnapshot(ctx context.Context, rootPath string) error
}

// Dependencies bundles everything Run needs to exercise a root end to end.
type Dependencies struct {
	Indexer  Indexer
	Engine   *queryengine.Engine
	Store    *store.Store
	Preview  PreviewProvider
	Snapshot Snapshotter
	NowMs    func() int64
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}

// Run exercises indexing twice (cold then incremental) and times the
// lexical/semantic/hybrid search and preview-extraction paths over a
// representative query and sample set, producing one consolidated report.
// Grounded on commands.rs's benchmark_root_performance.
func Run(ctx context.Context, deps Dependencies, rootPath string, rawOpts Options) (Report, error) {
	started := time.Now()
	opts := rawOpts.normalized()

	indexFull, err := deps.Indexer.IndexRoot(ctx, rootPath)
	if err != nil {
		return Report{}, err
	}
	indexIncremental, err := deps.Indexer.IndexRoot(ctx, rootPath)
	if err != nil {
		return Report{}, err
	}

	rootID, ok, err := deps.Store.GetRootID(ctx, rootPath)
	if err != nil {
		return Report{}, err
	}
	if !ok {
		return Report{}, rootNotIndexedError(rootPath)
	}

	benchmarkQueries, err := CollectBenchmarkQueries(ctx, deps.Store, rootID, opts.Queries, 32)
	if err != nil {
		return Report{}, err
	}

	search := SearchSummary{
		QueryCount: len(benchmarkQueries),
		Iterations: opts.Iterations,
		Limit:      opts.Limit,
	}

	search.LexicalRaw = runLexicalRaw(deps, rootID, benchmarkQueries, opts)
	search.LexicalCached = runLexicalCached(ctx, deps, rootPath, benchmarkQueries, opts)

	if *opts.IncludeSemantic {
		search.Hybrid = runHybrid(ctx, deps, rootPath, benchmarkQueries, opts)
		search.Semantic = runSemantic(ctx, deps, rootPath, benchmarkQueries, opts)
	} else {
		search.Hybrid = buildTaskResult(false, nil, 0, "")
		search.Semantic = buildTaskResult(false, nil, 0, "")
	}

	snapshotStarted := time.Now()
	if deps.Snapshot != nil {
		_ = deps.Snapshot.GetIndexSnapshot(ctx, rootPath)
	}
	preview := PreviewSummary{SnapshotMs: elapsedMs(snapshotStarted)}
	preview.FilePreview = runFilePreviewSamples(ctx, deps, rootID, opts)
	preview.HeadingPreviewHTML = runHeadingPreviewSamples(ctx, deps, rootID, opts)

	nowMs := time.Now().UnixMilli()
	if deps.NowMs != nil {
		nowMs = deps.NowMs()
	}

	return Report{
		RootPath:         rootPath,
		IndexFull:        indexFull,
		IndexIncremental: indexIncremental,
		Queries:          benchmarkQueries,
		Search:           search,
		Preview:          preview,
		GeneratedAtMs:    nowMs,
		ElapsedMs:        int64(elapsedMs(started)),
	}, nil
}

func runLexicalRaw(deps Dependencies, rootID int64, queries []string, opts Options) TaskResult {
	var samples []float64
	totalHits := 0
	for i := 0; i < opts.Iterations; i++ {
		for _, query := range queries {
			started := time.Now()
			hits := deps.Engine.Lexical.Search(query, &rootID, opts.Limit, false)
			samples = append(samples, elapsedMs(started))
			totalHits += len(hits)
		}
	}
	return buildTaskResult(true, samples, totalHits, "")
}

func runLexicalCached(ctx context.Context, deps Dependencies, rootPath string, queries []string, opts Options) TaskResult {
	for _, query := range queries {
		_, _ = deps.Engine.SearchLexical(ctx, query, rootPath, opts.Limit, false)
	}

	var samples []float64
	totalHits := 0
	errMsg := ""
	for i := 0; i < opts.Iterations && errMsg == ""; i++ {
		for _, query := range queries {
			started := time.Now()
			hits, err := deps.Engine.SearchLexical(ctx, query, rootPath, opts.Limit, false)
			if err != nil {
				errMsg = err.Error()
				break
			}
			samples = append(samples, elapsedMs(started))
			totalHits += len(hits)
		}
	}
	return buildTaskResult(true, samples, totalHits, errMsg)
}

func runHybrid(ctx context.Context, deps Dependencies, rootPath string, queries []string, opts Options) TaskResult {
	for _, query := range queries {
		_, _ = deps.Engine.SearchHybrid(ctx, query, rootPath, opts.Limit, false, true)
	}

	var samples []float64
	totalHits := 0
	errMsg := ""
	for i := 0; i < opts.Iterations && errMsg == ""; i++ {
		for _, query := range queries {
			started := time.Now()
			hits, err := deps.Engine.SearchHybrid(ctx, query, rootPath, opts.Limit, false, true)
			if err != nil {
				errMsg = err.Error()
				break
			}
			samples = append(samples, elapsedMs(started))
			totalHits += len(hits)
		}
	}
	return buildTaskResult(true, samples, totalHits, errMsg)
}

func runSemantic(ctx context.Context, deps Dependencies, rootPath string, queries []string, opts Options) TaskResult {
	if len(queries) > 0 {
		_, _ = deps.Engine.SearchSemantic(ctx, queries[0], rootPath, opts.Limit)
	}

	var samples []float64
	totalHits := 0
	errMsg := ""
	for i := 0; i < opts.Iterations && errMsg == ""; i++ {
		for _, query := range queries {
			started := time.Now()
			hits, err := deps.Engine.SearchSemantic(ctx, query, rootPath, opts.Limit)
			if err != nil {
				errMsg = err.Error()
				break
			}
			samples = append(samples, elapsedMs(started))
			totalHits += len(hits)
		}
	}
	return buildTaskResult(true, samples, totalHits, errMsg)
}

func runFilePreviewSamples(ctx context.Context, deps Dependencies, rootID int64, opts Options) TaskResult {
	fileIDs, err := deps.Store.SampleFileIDsByRoot(ctx, rootID, opts.PreviewSamples)
	if err != nil {
		return buildTaskResult(opts.PreviewSamples > 0, nil, 0, err.Error())
	}

	var samples []float64
	totalHits := 0
	errMsg := ""
	for _, fileID := range fileIDs {
		started := time.Now()
		headingCount, err := deps.Preview.FilePreviewHeadingCount(ctx, fileID)
		if err != nil {
			errMsg = err.Error()
			break
		}
		samples = append(samples, elapsedMs(started))
		totalHits += headingCount
	}
	return buildTaskResult(opts.PreviewSamples > 0, samples, totalHits, errMsg)
}

func runHeadingPreviewSamples(ctx context.Context, deps Dependencies, rootID int64, opts Options) TaskResult {
	refs, err := deps.Store.SampleHeadingRefsByRoot(ctx, rootID, opts.PreviewSamples)
	if err != nil {
		return buildTaskResult(opts.PreviewSamples > 0, nil, 0, err.Error())
	}

	var samples []float64
	totalHits := 0
	errMsg := ""
	for _, ref := range refs {
		started := time.Now()
		html, err := deps.Preview.HeadingPreviewHTML(ctx, ref.FileID, ref.HeadingOrder)
		if err != nil {
			errMsg = err.Error()
			break
		}
		samples = append(samples, elapsedMs(started))
		if trimmedNonEmpty(html) {
			totalHits++
		}
	}
	return buildTaskResult(opts.PreviewSamples > 0, samples, totalHits, errMsg)
}

func trimmedNonEmpty(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return true
		}
	}
	return false
}

func rootNotIndexedError(rootPath string) error {
	return &rootNotIndexed{rootPath: rootPath}
}

type rootNotIndexed struct {
	rootPath string
}

func (e *rootNotIndexed) Error() string {
	return "benchmark: root id missing for " + e.rootPath + ", try indexing again"
}
