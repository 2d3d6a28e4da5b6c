package benchmark

import (
	"context"
	"math"
	"path"
	"sort"
	"strings"

	"github.com/hsn0918/docindex/internal/store"
	"github.com/hsn0918/docindex/internal/textnorm"
)

// Percentile returns the p-th percentile (p clamped to [0,1]) of an
// already-sorted sample slice, via nearest-rank rounding. Grounded on
// commands.rs's percentile: the index is rounded half away from zero and
// clamped to the last element.
func Percentile(sortedSamples []float64, p float64) float64 {
	if len(sortedSamples) == 0 {
		return 0
	}
	clamped := p
	if clamped < 0 {
		clamped = 0
	}
	if clamped > 1 {
		clamped = 1
	}
	last := len(sortedSamples) - 1
	index := int(math.Round(float64(last) * clamped))
	if index > last {
		index = last
	}
	if index < 0 {
		index = 0
	}
	return sortedSamples[index]
}

// ComputeLatencyStats summarizes a set of latency samples (in milliseconds).
func ComputeLatencyStats(samples []float64) LatencyStats {
	if len(samples) == 0 {
		return LatencyStats{}
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	var sum float64
	for _, s := range sorted {
		sum += s
	}

	return LatencyStats{
		Runs:   len(sorted),
		MinMs:  sorted[0],
		P50Ms:  Percentile(sorted, 0.50),
		P95Ms:  Percentile(sorted, 0.95),
		MaxMs:  sorted[len(sorted)-1],
		MeanMs: sum / float64(len(sorted)),
	}
}

func buildTaskResult(enabled bool, samples []float64, totalHits int, errMsg string) TaskResult {
	return TaskResult{
		Enabled:   enabled,
		Error:     errMsg,
		TotalHits: totalHits,
		Latency:   ComputeLatencyStats(samples),
	}
}

// QueryCandidatesFromText derives a handful of realistic search queries
// from one piece of text: the longest meaningful prefix, a shorter prefix,
// the first token alone, and (for longer text) its closing two tokens.
// Grounded on commands.rs's query_candidates_from_text.
func QueryCandidatesFromText(text string) []string {
	normalized := textnorm.Normalize(text)
	if normalized == "" {
		return nil
	}

	var tokens []string
	for _, token := range strings.Fields(normalized) {
		if len([]rune(token)) >= 3 {
			tokens = append(tokens, token)
		}
	}
	if len(tokens) == 0 {
		return nil
	}

	var candidates []string
	headThree := tokens
	if len(headThree) > 3 {
		headThree = headThree[:3]
	}
	candidates = append(candidates, strings.Join(headThree, " "))

	if len(tokens) >= 2 {
		candidates = append(candidates, strings.Join(tokens[:2], " "))
	}
	candidates = append(candidates, tokens[0])

	if len(tokens) >= 4 {
		candidates = append(candidates, strings.Join(tokens[len(tokens)-2:], " "))
	}

	return candidates
}

func pushQueryCandidate(target *[]string, seen map[string]struct{}, candidate string, maxQueries int) {
	normalized := textnorm.Normalize(candidate)
	if len([]rune(normalized)) < 2 {
		return
	}
	if _, ok := seen[normalized]; !ok {
		seen[normalized] = struct{}{}
		*target = append(*target, normalized)
	}
	if len(*target) > maxQueries {
		*target = (*target)[:maxQueries]
	}
}

var fallbackBenchmarkQueries = []string{
	"introduction", "method", "results", "discussion", "conclusion", "references",
}

// CollectBenchmarkQueries seeds a benchmark query set from explicitly
// provided queries, then from the longest headings, most recent authors,
// and highest heading-count files under a root, falling back to a fixed
// word list if the root yields nothing usable. Grounded on commands.rs's
// collect_benchmark_queries.
func CollectBenchmarkQueries(ctx context.Context, st *store.Store, rootID int64, providedQueries []string, maxQueries int) ([]string, error) {
	queries := make([]string, 0, maxQueries)
	seen := make(map[string]struct{})

	for _, provided := range providedQueries {
		for _, candidate := range QueryCandidatesFromText(provided) {
			if len(queries) >= maxQueries {
				return queries, nil
			}
			pushQueryCandidate(&queries, seen, candidate, maxQueries)
		}
	}

	headings, err := st.LongestHeadingTextsByRoot(ctx, rootID, 240)
	if err != nil {
		return nil, err
	}
	for _, text := range headings {
		if len(queries) >= maxQueries {
			break
		}
		for _, candidate := range QueryCandidatesFromText(text) {
			if len(queries) >= maxQueries {
				break
			}
			pushQueryCandidate(&queries, seen, candidate, maxQueries)
		}
	}

	authors, err := st.RecentAuthorTextsByRoot(ctx, rootID, 120)
	if err != nil {
		return nil, err
	}
	for _, text := range authors {
		if len(queries) >= maxQueries {
			break
		}
		for _, candidate := range QueryCandidatesFromText(text) {
			if len(queries) >= maxQueries {
				break
			}
			pushQueryCandidate(&queries, seen, candidate, maxQueries)
		}
	}

	relativePaths, err := st.RelativePathsByRootRanked(ctx, rootID, 180)
	if err != nil {
		return nil, err
	}
	for _, relativePath := range relativePaths {
		if len(queries) >= maxQueries {
			break
		}
		fileName := path.Base(relativePath)
		for _, candidate := range QueryCandidatesFromText(fileName) {
			if len(queries) >= maxQueries {
				break
			}
			pushQueryCandidate(&queries, seen, candidate, maxQueries)
		}
	}

	if len(queries) == 0 {
		for _, fallback := range fallbackBenchmarkQueries {
			pushQueryCandidate(&queries, seen, fallback, maxQueries)
		}
	}

	return queries, nil
}
