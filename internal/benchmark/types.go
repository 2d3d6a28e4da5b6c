// Package benchmark times a root's indexing and search paths end to end,
// to catch regressions before they reach a large corpus. Grounded on
// original_source/packages/core/src/commands.rs's benchmark_root_performance
// and the BenchmarkReport family in original_source/.../types.rs.
package benchmark

// IndexStats mirrors one indexing pass's outcome, used to compare a full
// index against a subsequent incremental one.
type IndexStats struct {
	Scanned           int
	Updated           int
	Skipped           int
	Removed           int
	HeadingsExtracted int
	ElapsedMs         int64
}

// LatencyStats summarizes a set of latency samples in milliseconds.
type LatencyStats struct {
	Runs   int
	MinMs  float64
	P50Ms  float64
	P95Ms  float64
	MaxMs  float64
	MeanMs float64
}

// TaskResult is one timed task's outcome: whether it ran, how many hits it
// produced in total, and its latency distribution.
type TaskResult struct {
	Enabled   bool
	Error     string
	TotalHits int
	Latency   LatencyStats
}

// SearchSummary is the search-path portion of a benchmark report.
type SearchSummary struct {
	QueryCount    int
	Iterations    int
	Limit         int
	LexicalRaw    TaskResult
	LexicalCached TaskResult
	Hybrid        TaskResult
	Semantic      TaskResult
}

// PreviewSummary is the preview-path portion of a benchmark report.
type PreviewSummary struct {
	SnapshotMs         float64
	FilePreview        TaskResult
	HeadingPreviewHTML TaskResult
}

// Report is the full result of one Run.
type Report struct {
	RootPath         string
	IndexFull        IndexStats
	IndexIncremental IndexStats
	Queries          []string
	Search           SearchSummary
	Preview          PreviewSummary
	GeneratedAtMs    int64
	ElapsedMs        int64
}

// Options tunes a Run, every field clamped to the same bounds as the
// original command. IncludeSemantic is a pointer so "unset" (default true)
// is distinguishable from an explicit false.
type Options struct {
	Queries         []string
	Iterations      int
	Limit           int
	IncludeSemantic *bool
	PreviewSamples  int
}

func (o Options) normalized() Options {
	iterations := o.Iterations
	if iterations == 0 {
		iterations = 3
	}
	iterations = clamp(iterations, 1, 12)

	limit := o.Limit
	if limit == 0 {
		limit = 80
	}
	limit = clamp(limit, 10, 400)

	previewSamples := o.PreviewSamples
	if previewSamples == 0 {
		previewSamples = 16
	}
	previewSamples = clamp(previewSamples, 0, 240)

	includeSemantic := true
	if o.IncludeSemantic != nil {
		includeSemantic = *o.IncludeSemantic
	}

	return Options{
		Queries:         o.Queries,
		Iterations:      iterations,
		Limit:           limit,
		IncludeSemantic: &includeSemantic,
		PreviewSamples:  previewSamples,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
