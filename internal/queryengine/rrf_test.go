package queryengine

import "testing"

func intPtr(n int) *int { return &n }

func TestFuseRRFTagsOverlapAsHybrid(t *testing.T) {
	lex := []Hit{
		{Kind: "heading", FileID: 1, RelativePath: "a.docx", HeadingOrder: intPtr(1), HeadingText: "intro"},
		{Kind: "heading", FileID: 2, RelativePath: "b.docx", HeadingOrder: intPtr(1), HeadingText: "only lexical"},
	}
	sem := []Hit{
		{Kind: "heading", FileID: 1, RelativePath: "a.docx", HeadingOrder: intPtr(1), HeadingText: "intro"},
		{Kind: "heading", FileID: 3, RelativePath: "c.docx", HeadingOrder: intPtr(1), HeadingText: "only semantic"},
	}

	fused := fuseRRF(lex, sem, 10)
	if len(fused) != 3 {
		t.Fatalf("expected 3 fused hits, got %d", len(fused))
	}

	byFile := make(map[int64]Hit)
	for _, h := range fused {
		byFile[h.FileID] = h
	}

	if byFile[1].Source != "hybrid" {
		t.Fatalf("expected file 1 tagged hybrid, got %s", byFile[1].Source)
	}
	if byFile[2].Source != "lexical" {
		t.Fatalf("expected file 2 tagged lexical, got %s", byFile[2].Source)
	}
	if byFile[3].Source != "semantic" {
		t.Fatalf("expected file 3 tagged semantic, got %s", byFile[3].Source)
	}

	// the hybrid hit ranked first in both lists should score best (lowest).
	if fused[0].FileID != 1 {
		t.Fatalf("expected file 1 to rank first, got %d", fused[0].FileID)
	}
}

func TestFuseRRFTruncatesToLimit(t *testing.T) {
	lex := []Hit{
		{Kind: "heading", FileID: 1, RelativePath: "a.docx", HeadingOrder: intPtr(1)},
		{Kind: "heading", FileID: 2, RelativePath: "b.docx", HeadingOrder: intPtr(1)},
		{Kind: "heading", FileID: 3, RelativePath: "c.docx", HeadingOrder: intPtr(1)},
	}
	fused := fuseRRF(lex, nil, 2)
	if len(fused) != 2 {
		t.Fatalf("expected truncation to 2, got %d", len(fused))
	}
}

func TestFuseRRFDeterministicTieBreak(t *testing.T) {
	// identical scores (both single-source, same rank) should break ties by
	// relative_path ascending.
	lex := []Hit{
		{Kind: "heading", FileID: 1, RelativePath: "z.docx", HeadingOrder: intPtr(1)},
	}
	sem := []Hit{
		{Kind: "heading", FileID: 2, RelativePath: "a.docx", HeadingOrder: intPtr(1)},
	}
	fused := fuseRRF(lex, sem, 10)
	if len(fused) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(fused))
	}
	if fused[0].RelativePath != "a.docx" {
		t.Fatalf("expected a.docx to sort first on tie, got %s", fused[0].RelativePath)
	}
}
