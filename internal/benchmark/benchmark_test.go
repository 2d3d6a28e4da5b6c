package benchmark

import "testing"

func TestPercentileMatchesReferenceSamples(t *testing.T) {
	sorted := []float64{10, 20, 30, 40}
	if got := Percentile(sorted, 0.50); got != 30.0 {
		t.Fatalf("p50 = %v, want 30.0", got)
	}
	if got := Percentile(sorted, 0.95); got != 40.0 {
		t.Fatalf("p95 = %v, want 40.0", got)
	}
}

func TestPercentileEmptySamples(t *testing.T) {
	if got := Percentile(nil, 0.5); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
}

func TestComputeLatencyStats(t *testing.T) {
	stats := ComputeLatencyStats([]float64{30, 10, 40, 20})
	if stats.Runs != 4 {
		t.Fatalf("runs = %d, want 4", stats.Runs)
	}
	if stats.MinMs != 10 || stats.MaxMs != 40 {
		t.Fatalf("unexpected min/max: %+v", stats)
	}
	if stats.MeanMs != 25 {
		t.Fatalf("mean = %v, want 25", stats.MeanMs)
	}
}

func TestQueryCandidatesFromTextProducesExpectedForms(t *testing.T) {
	candidates := QueryCandidatesFromText("The quick brown fox jumps over fences")

	want := map[string]bool{
		"the quick brown": false,
		"the quick":       false,
		"the":             false,
		"over fences":     false,
	}
	for _, c := range candidates {
		if _, ok := want[c]; ok {
			want[c] = true
		}
	}
	for candidate, found := range want {
		if !found {
			t.Fatalf("expected candidate %q among %v", candidate, candidates)
		}
	}
}

func TestQueryCandidatesFromTextEmpty(t *testing.T) {
	if got := QueryCandidatesFromText("   "); got != nil {
		t.Fatalf("expected nil candidates for blank text, got %v", got)
	}
}

func TestOptionsNormalizedDefaultsAndClamps(t *testing.T) {
	opts := Options{}.normalized()
	if opts.Iterations != 3 || opts.Limit != 80 || opts.PreviewSamples != 16 {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
	if opts.IncludeSemantic == nil || !*opts.IncludeSemantic {
		t.Fatal("expected IncludeSemantic to default true")
	}

	clamped := Options{Iterations: 999, Limit: 1, PreviewSamples: 10000}.normalized()
	if clamped.Iterations != 12 {
		t.Fatalf("iterations = %d, want clamped to 12", clamped.Iterations)
	}
	if clamped.Limit != 10 {
		t.Fatalf("limit = %d, want clamped to 10", clamped.Limit)
	}
	if clamped.PreviewSamples != 240 {
		t.Fatalf("previewSamples = %d, want clamped to 240", clamped.PreviewSamples)
	}
}
