// Package chunking builds variable-profile chunks with overlap from a
// file's parsed paragraphs, tracking section boundaries at each heading.
// Heading ranges themselves are computed by internal/headingrange.
//
// The non-recursive accumulate-then-flush traversal here is grounded on the
// stack-walk pattern used by the teacher's markdown chunker
// (internal/chunking/markdown.go in HSn0918-rag): walk linearly, accumulate
// section content, flush and re-tag on every structural boundary. The exact
// profile constants and splitting algorithm are ported from the original
// Rust chunker (chunking.rs) and must match it literally, including its
// documented quirks (see MaxChunksPerSection).
package chunking

import (
	"strings"
	"unicode"

	"github.com/hsn0918/docindex/internal/author"
	"github.com/hsn0918/docindex/internal/docx"
	"github.com/hsn0918/docindex/internal/textnorm"
)

// MaxChunksPerSection is the hard per-section chunk ceiling. When the naive
// chunk-count estimate for a section would exceed it, the profile's
// min/max/overlap are scaled up until the estimate fits.
const MaxChunksPerSection = 384

// Profile is the (min, max, overlap) triple used to split one section's
// body text.
type Profile struct {
	Min     int
	Max     int
	Overlap int
}

// ChunkProfile selects and, if necessary, scales the base profile for a
// section of totalChars characters.
func ChunkProfile(totalChars int) Profile {
	p := basesProfile(totalChars)
	if totalChars <= 0 || p.Min <= 0 {
		return p
	}
	est := ceilDiv(totalChars, p.Min)
	if est <= MaxChunksPerSection {
		return p
	}
	factor := ceilDiv(est, MaxChunksPerSection)
	p.Min *= factor
	p.Max *= factor
	p.Overlap *= factor
	if p.Overlap >= p.Max-64 {
		p.Overlap = p.Max - 64
		if p.Overlap < 0 {
			p.Overlap = 0
		}
	}
	if p.Min >= p.Max {
		p.Min = p.Max - 64
		if p.Min < 64 {
			p.Min = 64
		}
	}
	return p
}

func basesProfile(totalChars int) Profile {
	switch {
	case totalChars >= 180_000:
		return Profile{Min: 1800, Max: 3600, Overlap: 420}
	case totalChars >= 40_000:
		return Profile{Min: 1200, Max: 2600, Overlap: 320}
	default:
		return Profile{Min: 700, Max: 1600, Overlap: 220}
	}
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}

// SplitTextIntoChunks splits text on whole codepoints per the profile: a cut
// is sought in [start+min, start+max] at the last whitespace; absent one, a
// hard cut lands at start+max. start then advances to cut-overlap (never
// backward; otherwise to cut). Splitting halts once MaxChunksPerSection
// chunks have been produced; any remaining tail is appended to the last
// chunk with a newline separator — unless the last chunk already ends with
// that exact tail, a literal preservation of the original's documented
// no-op-append quirk for long repeated suffixes (see spec Design Notes).
func SplitTextIntoChunks(text string, p Profile) []string {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil
	}
	var chunks []string
	start := 0
	for start < n {
		if len(chunks) >= MaxChunksPerSection {
			break
		}
		remaining := n - start
		if remaining <= p.Max {
			chunks = append(chunks, string(runes[start:]))
			start = n
			break
		}
		cutMax := start + p.Max
		cutMin := start + p.Min
		if cutMax > n {
			cutMax = n
		}
		cut := -1
		for i := cutMax; i >= cutMin && i >= start; i-- {
			if i < n && unicode.IsSpace(runes[i]) {
				cut = i
				break
			}
		}
		if cut == -1 {
			cut = cutMax
		}
		chunks = append(chunks, string(runes[start:cut]))
		next := cut - p.Overlap
		if next <= start {
			next = cut
		}
		start = next
	}
	if start < n {
		tail := string(runes[start:])
		if len(chunks) > 0 {
			if !strings.HasSuffix(chunks[len(chunks)-1], tail) {
				chunks[len(chunks)-1] = chunks[len(chunks)-1] + "\n" + tail
			}
		} else {
			chunks = append(chunks, tail)
		}
	}
	return chunks
}

// Chunk is one indexing unit: either a short structure-preserving heading
// chunk, or a slice of a section's accumulated body text.
type Chunk struct {
	ChunkOrder   int
	HeadingOrder *int
	HeadingLevel *int
	HeadingText  string
	AuthorText   string
	ChunkText    string
}

type section struct {
	headingOrder *int
	headingLevel *int
	headingText  string
	authorText   string
	authorSet    bool
	lines        []string
}

// BuildChunks walks paras in document order, accumulating section bodies
// and flushing them (plus one structure-preserving heading chunk) every
// time a heading paragraph is encountered, per spec 4.4's build_chunks.
func BuildChunks(paras []docx.Paragraph) []Chunk {
	var chunks []Chunk
	order := 0
	cur := section{}
	started := false

	flush := func() {
		if !started {
			return
		}
		body := strings.Join(cur.lines, "\n")
		if body == "" {
			return
		}
		profile := ChunkProfile(len([]rune(body)))
		for _, piece := range SplitTextIntoChunks(body, profile) {
			order++
			chunks = append(chunks, Chunk{
				ChunkOrder:   order,
				HeadingOrder: cur.headingOrder,
				HeadingLevel: cur.headingLevel,
				HeadingText:  cur.headingText,
				AuthorText:   cur.authorText,
				ChunkText:    piece,
			})
		}
	}

	for _, p := range paras {
		if p.HeadingLevel != nil {
			flush()
			order++
			lvl := *p.HeadingLevel
			headingOrder := p.Order
			chunks = append(chunks, Chunk{
				ChunkOrder:   order,
				HeadingOrder: &headingOrder,
				HeadingLevel: &lvl,
				HeadingText:  p.Text,
				ChunkText:    p.Text,
			})
			cur = section{headingOrder: &headingOrder, headingLevel: &lvl, headingText: p.Text}
			started = true
			continue
		}
		line := strings.TrimSpace(p.Text)
		if line == "" {
			continue
		}
		if !started {
			started = true
		}
		cur.lines = append(cur.lines, line)
		if !cur.authorSet {
			normalized := textnorm.Normalize(line)
			if author.Looks(line, normalized) {
				cur.authorText = line
				cur.authorSet = true
			}
		}
	}
	flush()
	return chunks
}
