package transport

import (
	"testing"

	"github.com/hsn0918/docindex/internal/queryengine"
)

func TestHitsToViewPreservesFields(t *testing.T) {
	level := 2
	order := 5
	hits := []queryengine.Hit{{
		Source:       "hybrid",
		Kind:         "heading",
		FileID:       42,
		FileName:     "report.docx",
		RelativePath: "folder/report.docx",
		AbsolutePath: "/tmp/folder/report.docx",
		HeadingLevel: &level,
		HeadingText:  "Summary",
		HeadingOrder: &order,
		Score:        0.83,
	}}

	views := hitsToView(hits)
	if len(views) != 1 {
		t.Fatalf("expected 1 view, got %d", len(views))
	}
	v := views[0]
	if v.Source != "hybrid" || v.Kind != "heading" || v.FileID != 42 || v.FileName != "report.docx" {
		t.Fatalf("unexpected view: %+v", v)
	}
	if v.HeadingLevel == nil || *v.HeadingLevel != 2 {
		t.Fatalf("expected heading_level 2, got %+v", v.HeadingLevel)
	}
	if v.HeadingOrder == nil || *v.HeadingOrder != 5 {
		t.Fatalf("expected heading_order 5, got %+v", v.HeadingOrder)
	}
	if v.Score != 0.83 {
		t.Fatalf("expected score 0.83, got %v", v.Score)
	}
}

func TestHitsToViewEmptyInput(t *testing.T) {
	views := hitsToView(nil)
	if views == nil {
		t.Fatal("expected a non-nil empty slice for JSON [] rather than null")
	}
	if len(views) != 0 {
		t.Fatalf("expected 0 views, got %d", len(views))
	}
}
