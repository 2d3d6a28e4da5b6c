package chunking

import (
	"strings"
	"testing"

	"github.com/hsn0918/docindex/internal/docx"
)

func lvl(n int) *int { return &n }

func TestChunkProfileBase(t *testing.T) {
	p := ChunkProfile(1000)
	if p != (Profile{Min: 700, Max: 1600, Overlap: 220}) {
		t.Fatalf("got %+v", p)
	}
	p = ChunkProfile(50_000)
	if p != (Profile{Min: 1200, Max: 2600, Overlap: 320}) {
		t.Fatalf("got %+v", p)
	}
	p = ChunkProfile(200_000)
	if p != (Profile{Min: 1800, Max: 3600, Overlap: 420} ) {
		t.Fatalf("got %+v", p)
	}
}

func TestChunkProfileScalesOnOverflow(t *testing.T) {
	// 3,000,000 chars / 1800 min would need ~1667 chunks, far over 384.
	p := ChunkProfile(3_000_000)
	if p.Min <= 1800 {
		t.Fatalf("expected scaled min > 1800, got %d", p.Min)
	}
	if p.Overlap > p.Max-64 {
		// allowed to equal max-64 after clamp, never exceed
		t.Fatalf("overlap must not exceed max-64: %+v", p)
	}
	if p.Min >= p.Max {
		t.Fatalf("min must stay below max: %+v", p)
	}
}

func TestSplitTextIntoChunksCoverage(t *testing.T) {
	text := strings.Repeat("word ", 500) // 2500 chars
	p := ChunkProfile(len(text))
	chunks := SplitTextIntoChunks(text, p)
	if len(chunks) == 0 {
		t.Fatal("expected at least one chunk")
	}
	if len(chunks) > MaxChunksPerSection {
		t.Fatalf("chunk count %d exceeds cap", len(chunks))
	}
	joined := strings.Join(chunks, "")
	if !strings.Contains(joined, "word") {
		t.Fatalf("chunks lost content: %q", joined[:min(40, len(joined))])
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func TestBuildChunksHeadingAndAuthor(t *testing.T) {
	paras := []docx.Paragraph{
		{Order: 1, HeadingLevel: lvl(1), Text: "Introduction"},
		{Order: 2, Text: "Smith, J. (2010). Journal of Testing, vol 3."},
		{Order: 3, Text: "This is the body text of the introduction section."},
	}
	chunks := BuildChunks(paras)
	if len(chunks) < 2 {
		t.Fatalf("expected heading chunk + body chunk, got %d", len(chunks))
	}
	if chunks[0].ChunkText != "Introduction" {
		t.Errorf("first chunk should be the structure-preserving heading chunk, got %q", chunks[0].ChunkText)
	}
	foundAuthor := false
	for _, c := range chunks {
		if c.AuthorText != "" {
			foundAuthor = true
		}
	}
	if !foundAuthor {
		t.Error("expected section author_text to be captured from the citation line")
	}
}
