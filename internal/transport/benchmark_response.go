package transport

import "github.com/hsn0918/docindex/internal/benchmark"

// LatencyStatsView mirrors benchmark.LatencyStats for the wire.
type LatencyStatsView struct {
	Runs   int     `json:"runs"`
	MinMs  float64 `json:"min_ms"`
	P50Ms  float64 `json:"p50_ms"`
	P95Ms  float64 `json:"p95_ms"`
	MaxMs  float64 `json:"max_ms"`
	MeanMs float64 `json:"mean_ms"`
}

// TaskResultView mirrors benchmark.TaskResult for the wire.
type TaskResultView struct {
	Enabled   bool             `json:"enabled"`
	Error     string           `json:"error,omitempty"`
	TotalHits int              `json:"total_hits"`
	Latency   LatencyStatsView `json:"latency"`
}

// IndexStatsView mirrors benchmark.IndexStats for the wire.
type IndexStatsView struct {
	Scanned           int   `json:"scanned"`
	Updated           int   `json:"updated"`
	Skipped           int   `json:"skipped"`
	Removed           int   `json:"removed"`
	HeadingsExtracted int   `json:"headings_extracted"`
	ElapsedMs         int64 `json:"elapsed_ms"`
}

// SearchSummaryView mirrors benchmark.SearchSummary for the wire.
type SearchSummaryView struct {
	QueryCount    int            `json:"query_count"`
	Iterations    int            `json:"iterations"`
	Limit         int            `json:"limit"`
	LexicalRaw    TaskResultView `json:"lexical_raw"`
	LexicalCached TaskResultView `json:"lexical_cached"`
	Hybrid        TaskResultView `json:"hybrid"`
	Semantic      TaskResultView `json:"semantic"`
}

// PreviewSummaryView mirrors benchmark.PreviewSummary for the wire.
type PreviewSummaryView struct {
	SnapshotMs         float64        `json:"snapshot_ms"`
	FilePreview        TaskResultView `json:"file_preview"`
	HeadingPreviewHTML TaskResultView `json:"heading_preview_html"`
}

// BenchmarkRootPerformanceResponse mirrors benchmark.Report for the wire.
type BenchmarkRootPerformanceResponse struct {
	RootPath         string             `json:"root_path"`
	IndexFull        IndexStatsView     `json:"index_full"`
	IndexIncremental IndexStatsView     `json:"index_incremental"`
	Queries          []string           `json:"queries"`
	Search           SearchSummaryView  `json:"search"`
	Preview          PreviewSummaryView `json:"preview"`
	GeneratedAtMs    int64              `json:"generated_at_ms"`
	ElapsedMs        int64              `json:"elapsed_ms"`
}

func latencyToView(l benchmark.LatencyStats) LatencyStatsView {
	return LatencyStatsView{Runs: l.Runs, MinMs: l.MinMs, P50Ms: l.P50Ms, P95Ms: l.P95Ms, MaxMs: l.MaxMs, MeanMs: l.MeanMs}
}

func taskToView(t benchmark.TaskResult) TaskResultView {
	return TaskResultView{Enabled: t.Enabled, Error: t.Error, TotalHits: t.TotalHits, Latency: latencyToView(t.Latency)}
}

func indexStatsToView(s benchmark.IndexStats) IndexStatsView {
	return IndexStatsView{
		Scanned: s.Scanned, Updated: s.Updated, Skipped: s.Skipped,
		Removed: s.Removed, HeadingsExtracted: s.HeadingsExtracted, ElapsedMs: s.ElapsedMs,
	}
}

func reportToResponse(r benchmark.Report) BenchmarkRootPerformanceResponse {
	return BenchmarkRootPerformanceResponse{
		RootPath:         r.RootPath,
		IndexFull:        indexStatsToView(r.IndexFull),
		IndexIncremental: indexStatsToView(r.IndexIncremental),
		Queries:          r.Queries,
		Search: SearchSummaryView{
			QueryCount:    r.Search.QueryCount,
			Iterations:    r.Search.Iterations,
			Limit:         r.Search.Limit,
			LexicalRaw:    taskToView(r.Search.LexicalRaw),
			LexicalCached: taskToView(r.Search.LexicalCached),
			Hybrid:        taskToView(r.Search.Hybrid),
			Semantic:      taskToView(r.Search.Semantic),
		},
		Preview: PreviewSummaryView{
			SnapshotMs:         r.Preview.SnapshotMs,
			FilePreview:        taskToView(r.Preview.FilePreview),
			HeadingPreviewHTML: taskToView(r.Preview.HeadingPreviewHTML),
		},
		GeneratedAtMs: r.GeneratedAtMs,
		ElapsedMs:     r.ElapsedMs,
	}
}
