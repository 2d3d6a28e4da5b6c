package transport

import (
	"context"

	"connectrpc.com/connect"

	"github.com/hsn0918/docindex/internal/benchmark"
)

// BenchmarkRootPerformance exercises indexing and search end to end over a
// root and times each stage, the Go port of commands.rs's
// benchmark_root_performance.
func (s *Service) BenchmarkRootPerformance(ctx context.Context, req *connect.Request[BenchmarkRootPerformanceRequest]) (*connect.Response[BenchmarkRootPerformanceResponse], error) {
	deps := benchmark.Dependencies{
		Indexer:  s.Indexer,
		Engine:   s.Engine,
		Store:    s.Store,
		Preview:  s,
		Snapshot: s,
		NowMs:    s.NowMs,
	}
	report, err := benchmark.Run(ctx, deps, req.Msg.Path, benchmark.Options{
		Queries:         req.Msg.Queries,
		Iterations:      req.Msg.Iterations,
		Limit:           req.Msg.Limit,
		IncludeSemantic: req.Msg.IncludeSemantic,
		PreviewSamples:  req.Msg.PreviewSamples,
	})
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	resp := reportToResponse(report)
	return connect.NewResponse(&resp), nil
}
