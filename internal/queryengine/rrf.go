package queryengine

import "sort"

// rrfK is the reciprocal-rank-fusion damping constant, matching
// query_engine.rs's fuse_rrf.
const rrfK = 60.0

// fuseRRF combines lexical and semantic hit lists by reciprocal rank fusion.
// A hit present in both lists accumulates a score contribution from each and
// is tagged source "hybrid"; a hit present in only one list keeps that list's
// source tag. The combined score is transformed to the same "lower is
// better" scale the lexical and semantic tiers already use, then the result
// is sorted deterministically and truncated to limit.
func fuseRRF(lexicalHits, semanticHits []Hit, limit int) []Hit {
	type accum struct {
		hit        Hit
		rrf        float64
		inLexical  bool
		inSemantic bool
	}

	byKey := make(map[string]*accum)
	order := make([]string, 0, len(lexicalHits)+len(semanticHits))

	addRanked := func(hits []Hit, markLexical bool) {
		for rank, h := range hits {
			key := dedupeKey(h)
			a, ok := byKey[key]
			if !ok {
				a = &accum{hit: h}
				byKey[key] = a
				order = append(order, key)
			}
			a.rrf += 1.0 / (rrfK + float64(rank) + 1.0)
			if markLexical {
				a.inLexical = true
			} else {
				a.inSemantic = true
			}
		}
	}

	addRanked(lexicalHits, true)
	addRanked(semanticHits, false)

	fused := make([]Hit, 0, len(order))
	for _, key := range order {
		a := byKey[key]
		h := a.hit
		h.Score = 1000 - (a.rrf * 1000)
		switch {
		case a.inLexical && a.inSemantic:
			h.Source = "hybrid"
		case a.inSemantic:
			h.Source = "semantic"
		default:
			h.Source = "lexical"
		}
		fused = append(fused, h)
	}

	sort.SliceStable(fused, func(i, j int) bool {
		if fused[i].Score != fused[j].Score {
			return fused[i].Score < fused[j].Score
		}
		if fused[i].RelativePath != fused[j].RelativePath {
			return fused[i].RelativePath < fused[j].RelativePath
		}
		oi, oj := 0, 0
		if fused[i].HeadingOrder != nil {
			oi = *fused[i].HeadingOrder
		}
		if fused[j].HeadingOrder != nil {
			oj = *fused[j].HeadingOrder
		}
		if oi != oj {
			return oi < oj
		}
		return fused[i].Kind < fused[j].Kind
	})

	if limit > 0 && len(fused) > limit {
		fused = fused[:limit]
	}
	return fused
}
