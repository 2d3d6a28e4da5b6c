package capture

import (
	"testing"

	"github.com/hsn0918/docindex/internal/docx"
)

func TestNormalizeCaptureTargetPathDefaults(t *testing.T) {
	got, err := NormalizeCaptureTargetPath("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "BlockFile-Captures.docx" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizeCaptureTargetPathAddsExtension(t *testing.T) {
	got, err := NormalizeCaptureTargetPath("nested/final-notes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "nested/final-notes.docx" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizeCaptureTargetPathRejectsParentDir(t *testing.T) {
	if _, err := NormalizeCaptureTargetPath("../escape.docx"); err == nil {
		t.Fatal("expected error for parent-dir component")
	}
}

func TestNormalizeCaptureTargetPathKeepsDocxExtension(t *testing.T) {
	got, err := NormalizeCaptureTargetPath("Notes.DOCX")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Notes.DOCX" {
		t.Fatalf("got %q, expected extension left untouched when already .docx", got)
	}
}

func TestCaptureMarkerFormat(t *testing.T) {
	if got := CaptureMarker(42); got != "BF-000042" {
		t.Fatalf("got %q", got)
	}
}

func TestCitationStyleScoreRanksF8CiteHighest(t *testing.T) {
	if citationStyleScore("F8Citation", "F8 Citation") <= citationStyleScore("Quote", "Quote") {
		t.Fatal("expected F8 citation style to outrank plain quote style")
	}
	if citationStyleScore("Normal", "Normal") >= 0 {
		t.Fatal("expected Normal style to be penalized")
	}
}

func TestFallbackStyledSectionOnePerLine(t *testing.T) {
	section := FallbackStyledSection("first\nsecond\r\nthird")
	if len(section.ParagraphXML) != 3 {
		t.Fatalf("got %d paragraphs, want 3", len(section.ParagraphXML))
	}
	if section.UsedSourceXML {
		t.Fatal("fallback section must not claim source XML usage")
	}
}

func TestResolveInsertAfterOrderNoSelectionUsesLastAtLevel(t *testing.T) {
	level1, level2 := 1, 2
	paragraphs := []docx.Paragraph{
		{Order: 1, HeadingLevel: &level1},
		{Order: 2, HeadingLevel: &level2},
		{Order: 3},
		{Order: 4, HeadingLevel: &level2},
		{Order: 5},
	}
	incoming := 2
	got := resolveInsertAfterOrder(paragraphs, nil, &incoming)
	if got == nil || *got != 5 {
		t.Fatalf("got %v, want end order of last level-2 range (5)", got)
	}
}

func TestInsertionIndexAfterParagraphCountZeroUsesBodyStart(t *testing.T) {
	doc := []byte(`<w:document><w:body><w:p>a</w:p></w:body></w:document>`)
	idx, ok := insertionIndexAfterParagraphCount(doc, 0)
	if !ok {
		t.Fatal("expected ok")
	}
	if doc[idx] != '<' {
		t.Fatalf("expected insertion just inside body open tag, got byte %q", doc[idx])
	}
}
