package transport

import (
	"errors"
	"testing"

	"github.com/hsn0918/docindex/internal/direrr"
)

func TestAddRootRequestValidate(t *testing.T) {
	if err := (AddRootRequest{Path: ""}).Validate(); !errors.Is(err, direrr.ErrRootNotFound) {
		t.Fatalf("expected ErrRootNotFound for empty path, got %v", err)
	}
	if err := (AddRootRequest{Path: "  "}).Validate(); err == nil {
		t.Fatal("expected error for whitespace-only path")
	}
	if err := (AddRootRequest{Path: "/tmp/docs"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAddCaptureHeadingRequestValidate(t *testing.T) {
	base := AddCaptureHeadingRequest{RootPath: "/tmp", TargetPath: "notes.docx", HeadingLevel: 2, HeadingText: "Section"}
	if err := base.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	tooLow := base
	tooLow.HeadingLevel = 0
	if err := tooLow.Validate(); !errors.Is(err, direrr.ErrHeadingLevelRange) {
		t.Fatalf("expected ErrHeadingLevelRange for level 0, got %v", err)
	}

	tooHigh := base
	tooHigh.HeadingLevel = 5
	if err := tooHigh.Validate(); !errors.Is(err, direrr.ErrHeadingLevelRange) {
		t.Fatalf("expected ErrHeadingLevelRange for level 5, got %v", err)
	}

	emptyText := base
	emptyText.HeadingText = "   "
	if err := emptyText.Validate(); !errors.Is(err, direrr.ErrEmptyHeadingText) {
		t.Fatalf("expected ErrEmptyHeadingText, got %v", err)
	}
}

func TestInsertCaptureRequestValidate(t *testing.T) {
	base := InsertCaptureRequest{RootPath: "/tmp", SourcePath: "src.docx", Content: "body text"}
	if err := base.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	noContent := InsertCaptureRequest{RootPath: "/tmp", SourcePath: "src.docx"}
	if err := noContent.Validate(); !errors.Is(err, direrr.ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent when neither content nor paragraph_xml set, got %v", err)
	}

	withParagraphs := InsertCaptureRequest{RootPath: "/tmp", SourcePath: "src.docx", ParagraphXML: []string{"<w:p/>"}}
	if err := withParagraphs.Validate(); err != nil {
		t.Fatalf("paragraph_xml alone should satisfy content requirement, got %v", err)
	}

	level := 10
	badLevel := base
	badLevel.HeadingLevel = &level
	if err := badLevel.Validate(); !errors.Is(err, direrr.ErrHeadingLevelRange) {
		t.Fatalf("expected ErrHeadingLevelRange for heading_level 10, got %v", err)
	}
}

func TestBenchmarkRootPerformanceRequestValidate(t *testing.T) {
	if err := (BenchmarkRootPerformanceRequest{Path: "/tmp"}).Validate(); err != nil {
		t.Fatalf("zero-value optional fields should be valid, got %v", err)
	}
	if err := (BenchmarkRootPerformanceRequest{Path: "/tmp", Iterations: 13}).Validate(); err == nil {
		t.Fatal("expected error for iterations above 12")
	}
	if err := (BenchmarkRootPerformanceRequest{Path: "/tmp", Limit: 5}).Validate(); err == nil {
		t.Fatal("expected error for limit below 10")
	}
	if err := (BenchmarkRootPerformanceRequest{Path: "/tmp", PreviewSamples: 241}).Validate(); err == nil {
		t.Fatal("expected error for preview_samples above 240")
	}
}

func TestSearchIndexRequestValidate(t *testing.T) {
	if err := (SearchIndexRequest{}).Validate(); err == nil {
		t.Fatal("expected error for empty query")
	}
	if err := (SearchIndexRequest{Query: "invoice"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
