package headingrange

import (
	"testing"

	"github.com/hsn0918/docindex/internal/docx"
)

func lvl(n int) *int { return &n }

func TestBuildNestedRanges(t *testing.T) {
	paras := []docx.Paragraph{
		{Order: 1, HeadingLevel: lvl(1)}, // H1 A
		{Order: 2},
		{Order: 3, HeadingLevel: lvl(2)}, // H2 under A
		{Order: 4},
		{Order: 5, HeadingLevel: lvl(1)}, // H1 B
		{Order: 6},
	}
	ranges := Build(paras)
	if len(ranges) != 3 {
		t.Fatalf("expected 3 ranges, got %d", len(ranges))
	}
	if ranges[0].StartIndex != 0 || ranges[0].EndIndex != 4 {
		t.Errorf("first H1 range = [%d,%d), want [0,4)", ranges[0].StartIndex, ranges[0].EndIndex)
	}
	if ranges[1].StartIndex != 2 || ranges[1].EndIndex != 4 {
		t.Errorf("H2 range = [%d,%d), want [2,4)", ranges[1].StartIndex, ranges[1].EndIndex)
	}
	if ranges[2].StartIndex != 4 || ranges[2].EndIndex != 6 {
		t.Errorf("second H1 range = [%d,%d), want [4,6)", ranges[2].StartIndex, ranges[2].EndIndex)
	}
}

func TestBuildNoTrailingHeading(t *testing.T) {
	paras := []docx.Paragraph{{Order: 1, HeadingLevel: lvl(1)}, {Order: 2}, {Order: 3}}
	ranges := Build(paras)
	if len(ranges) != 1 || ranges[0].EndIndex != 3 {
		t.Fatalf("expected single range to end of doc, got %+v", ranges)
	}
}
