// Package lexical is a hand-rolled inverted index for keyword search: word,
// prefix, and n-gram tiers over file/heading/author/chunk text. No
// full-text search engine (bleve, or a tantivy binding) exists anywhere in
// the retrieval pack this module was built from, so this is a from-scratch
// construction grounded directly on original_source/packages/core/src/lexical.rs's
// tier design and scoring, re-expressed with Go maps/slices instead of a
// segment-file index (see DESIGN.md).
package lexical

import (
	"sort"
	"strings"
	"sync"

	"github.com/hsn0918/docindex/internal/textnorm"
)

const (
	prefixMinGram = 2
	prefixMaxGram = 18
	ngramMin      = 3
	ngramMax      = 4

	minFetchFloor    = 80
	maxFetchLimit    = 1800
	fetchMultiplier  = 5
	chunkPreviewRune = 240
)

// Doc is one indexable unit: a file, heading, author, or chunk row.
type Doc struct {
	Kind         string // "file" | "heading" | "author" | "chunk"
	RootID       int64
	FileID       int64
	FileName     string
	RelativePath string
	AbsolutePath string
	HeadingLevel *int
	HeadingText  string
	HeadingOrder *int
	AuthorText   string
	ChunkText    string
}

// Hit is one ranked search result.
type Hit struct {
	Kind         string
	FileID       int64
	FileName     string
	RelativePath string
	AbsolutePath string
	HeadingLevel *int
	HeadingText  string
	HeadingOrder *int
	Score        float64 // lower is better, base+rank per spec
}

type docEntry struct {
	doc           Doc
	preview       string
	wordField     string // heading+author+filename+relpath+chunk, space joined
	prefixField   string // heading+author+filename+relpath
	ngramField    string // heading+author+preview+filename+relpath
}

// Index is the in-memory inverted index. Safe for concurrent queries while
// no rebuild is in flight; Replace takes an exclusive lock.
type Index struct {
	mu       sync.RWMutex
	docs     []docEntry
	wordPost map[string][]int
	prefPost map[string][]int
	ngrPost  map[string][]int
}

// New returns an empty index.
func New() *Index {
	return &Index{
		wordPost: make(map[string][]int),
		prefPost: make(map[string][]int),
		ngrPost:  make(map[string][]int),
	}
}

func previewText(chunkText string) string {
	trimmed := strings.TrimSpace(chunkText)
	if trimmed == "" {
		return ""
	}
	r := []rune(trimmed)
	if len(r) <= chunkPreviewRune {
		return trimmed
	}
	return string(r[:chunkPreviewRune])
}

func tokenizeWords(s string) []string {
	return strings.Fields(textnorm.Normalize(s))
}

// prefixGrams returns every prefix of word with length in
// [prefixMinGram, prefixMaxGram], mirroring tantivy's NgramTokenizer(2,18,
// prefix_only=true).
func prefixGrams(word string) []string {
	r := []rune(word)
	if len(r) < prefixMinGram {
		return nil
	}
	max := prefixMaxGram
	if len(r) < max {
		max = len(r)
	}
	out := make([]string, 0, max-prefixMinGram+1)
	for n := prefixMinGram; n <= max; n++ {
		out = append(out, string(r[:n]))
	}
	return out
}

// charNgrams slides a window of sizes [min,max] across the full text
// (spaces included), mirroring tantivy's NgramTokenizer(3,4,prefix_only=false).
func charNgrams(s string, min, max int) []string {
	r := []rune(s)
	var out []string
	for start := 0; start < len(r); start++ {
		for n := min; n <= max; n++ {
			end := start + n
			if end > len(r) {
				break
			}
			out = append(out, string(r[start:end]))
		}
	}
	return out
}

// ngramsForQuery mirrors lexical.rs's ngrams_for_query: short compact
// queries (<=4 chars with spaces stripped) are searched as a literal
// string rather than exploded into grams.
func ngramsForQuery(normalized string) []string {
	compact := strings.ReplaceAll(normalized, " ", "")
	r := []rune(compact)
	if len(r) <= 4 {
		return []string{normalized}
	}
	var grams []string
	for start := 0; start+2 < len(r); start++ {
		end := start + 4
		if end > len(r) {
			end = len(r)
		}
		gram := string(r[start:end])
		if len([]rune(gram)) >= 3 {
			grams = append(grams, gram)
		}
	}
	return grams
}

// Replace discards the current index contents and rebuilds from docs,
// mirroring lexical.rs's delete_all_documents + re-add + commit cycle.
func (ix *Index) Replace(docs []Doc) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.docs = ix.docs[:0]
	ix.wordPost = make(map[string][]int)
	ix.prefPost = make(map[string][]int)
	ix.ngrPost = make(map[string][]int)

	for _, d := range docs {
		if d.Kind == "chunk" && strings.TrimSpace(d.ChunkText) == "" {
			continue
		}
		preview := previewText(d.ChunkText)
		entry := docEntry{
			doc:     d,
			preview: preview,
			wordField: strings.Join([]string{
				d.HeadingText, d.AuthorText, d.FileName, d.RelativePath, d.ChunkText,
			}, " "),
			prefixField: strings.Join([]string{
				d.HeadingText, d.AuthorText, d.FileName, d.RelativePath,
			}, " "),
			ngramField: strings.Join([]string{
				d.HeadingText, d.AuthorText, preview, d.FileName, d.RelativePath,
			}, " "),
		}
		idx := len(ix.docs)
		ix.docs = append(ix.docs, entry)

		for _, tok := range tokenizeWords(entry.wordField) {
			ix.wordPost[tok] = appendUnique(ix.wordPost[tok], idx)
		}
		for _, w := range tokenizeWords(entry.prefixField) {
			for _, g := range prefixGrams(w) {
				ix.prefPost[g] = appendUnique(ix.prefPost[g], idx)
			}
		}
		for _, g := range charNgrams(strings.ToLower(entry.ngramField), ngramMin, ngramMax) {
			ix.ngrPost[g] = appendUnique(ix.ngrPost[g], idx)
		}
	}
}

func appendUnique(list []int, v int) []int {
	if n := len(list); n > 0 && list[n-1] == v {
		return list
	}
	return append(list, v)
}

// FetchDepth clamps target*5 into [80, 1800], spec 4.8's per-tier fetch
// depth.
func FetchDepth(limit int) int {
	d := limit * fetchMultiplier
	if d < minFetchFloor {
		return minFetchFloor
	}
	if d > maxFetchLimit {
		return maxFetchLimit
	}
	return d
}

func clampLimit(limit int) int {
	if limit < 10 {
		return 10
	}
	if limit > 400 {
		return 400
	}
	return limit
}

// tierMatch intersects (conjunction) or unions (disjunction) the posting
// lists for every query token.
func tierMatch(posting map[string][]int, tokens []string, conjunction bool) []int {
	if len(tokens) == 0 {
		return nil
	}
	sets := make([]map[int]struct{}, 0, len(tokens))
	for _, t := range tokens {
		ids := posting[t]
		if len(ids) == 0 && conjunction {
			return nil
		}
		s := make(map[int]struct{}, len(ids))
		for _, id := range ids {
			s[id] = struct{}{}
		}
		sets = append(sets, s)
	}

	counts := make(map[int]int)
	for _, s := range sets {
		for id := range s {
			counts[id]++
		}
	}

	var out []int
	for id, c := range counts {
		if conjunction && c != len(sets) {
			continue
		}
		out = append(out, id)
	}
	// Rank by number of matched tokens, then doc id, approximating a
	// relevance ordering without a real scorer.
	sort.Slice(out, func(i, j int) bool {
		if counts[out[i]] != counts[out[j]] {
			return counts[out[i]] > counts[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}

func dedupeKey(h Hit) string {
	order := 0
	if h.HeadingOrder != nil {
		order = *h.HeadingOrder
	}
	var sb strings.Builder
	sb.WriteString(h.Kind)
	sb.WriteByte(':')
	sb.WriteString(itoa(h.FileID))
	sb.WriteByte(':')
	sb.WriteString(itoa(int64(order)))
	sb.WriteByte(':')
	sb.WriteString(h.HeadingText)
	sb.WriteByte(':')
	sb.WriteString(h.RelativePath)
	return sb.String()
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func mapKind(kind string) string {
	switch kind {
	case "file":
		return "file"
	case "author":
		return "author"
	default:
		return "heading"
	}
}

func toHit(e docEntry, score float64, fileNameOnly bool) (Hit, bool) {
	if fileNameOnly && e.doc.Kind != "file" {
		return Hit{}, false
	}
	headingText := e.doc.HeadingText
	if headingText == "" {
		headingText = e.doc.AuthorText
	}
	if headingText == "" {
		headingText = e.preview
	}
	return Hit{
		Kind:         mapKind(e.doc.Kind),
		FileID:       e.doc.FileID,
		FileName:     e.doc.FileName,
		RelativePath: e.doc.RelativePath,
		AbsolutePath: e.doc.AbsolutePath,
		HeadingLevel: e.doc.HeadingLevel,
		HeadingText:  headingText,
		HeadingOrder: e.doc.HeadingOrder,
		Score:        score,
	}, true
}

// Search runs the three-tier lexical query plan from spec 4.8.
func (ix *Index) Search(query string, rootID *int64, limit int, fileNameOnly bool) []Hit {
	normalized := textnorm.Normalize(query)
	if normalized == "" {
		return nil
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	targetLimit := clampLimit(limit)
	fetchLimit := FetchDepth(targetLimit)

	type tier struct {
		tokens      []string
		posting     map[string][]int
		conjunction bool
		base        float64
	}

	tiers := []tier{
		{tokens: tokenizeWords(normalized), posting: ix.wordPost, conjunction: true, base: 1000},
		{tokens: tokenizeWords(normalized), posting: ix.prefPost, conjunction: true, base: 2000},
	}
	if !fileNameOnly {
		compact := strings.ReplaceAll(normalized, " ", "")
		if len([]rune(compact)) > 4 {
			tiers = append(tiers, tier{
				tokens:      ngramsForQuery(normalized),
				posting:     ix.ngrPost,
				conjunction: false,
				base:        3000,
			})
		}
	}

	results := make([]Hit, 0, targetLimit)
	seen := make(map[string]struct{})

	for _, t := range tiers {
		if len(t.tokens) == 0 {
			continue
		}
		matches := tierMatch(t.posting, t.tokens, t.conjunction)
		if len(matches) > fetchLimit {
			matches = matches[:fetchLimit]
		}
		for rank, docIdx := range matches {
			if len(results) >= targetLimit {
				break
			}
			e := ix.docs[docIdx]
			if rootID != nil && e.doc.RootID != *rootID {
				continue
			}
			hit, ok := toHit(e, t.base+float64(rank), fileNameOnly)
			if !ok {
				continue
			}
			key := dedupeKey(hit)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			results = append(results, hit)
		}
		if len(results) >= targetLimit {
			break
		}
	}
	return results
}

// Count returns the number of indexed documents.
func (ix *Index) Count() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.docs)
}
