package indexer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hsn0918/docindex/internal/docx"
)

func lvl(n int) *int { return &n }

func TestFastFileHashDeterministicAndSensitiveToContent(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.docx")
	pathB := filepath.Join(dir, "b.docx")
	if err := os.WriteFile(pathA, []byte("hello world"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pathB, []byte("hello worlD"), 0o644); err != nil {
		t.Fatal(err)
	}

	hashA1, err := fastFileHash(pathA)
	if err != nil {
		t.Fatal(err)
	}
	hashA2, err := fastFileHash(pathA)
	if err != nil {
		t.Fatal(err)
	}
	if hashA1 != hashA2 {
		t.Fatalf("hash not deterministic: %s vs %s", hashA1, hashA2)
	}

	hashB, err := fastFileHash(pathB)
	if err != nil {
		t.Fatal(err)
	}
	if hashA1 == hashB {
		t.Fatal("expected different content to hash differently")
	}
}

func TestFastFileHashCoversLargeFileWindow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "large.docx")

	head := strings.Repeat("a", hashWindowBytes)
	middle := strings.Repeat("b", hashWindowBytes) // only this differs between the two files
	tail := strings.Repeat("c", hashWindowBytes)
	if err := os.WriteFile(path, []byte(head+middle+tail), 0o644); err != nil {
		t.Fatal(err)
	}
	hash1, err := fastFileHash(path)
	if err != nil {
		t.Fatal(err)
	}

	middleChanged := strings.Repeat("x", hashWindowBytes)
	if err := os.WriteFile(path, []byte(head+middleChanged+tail), 0o644); err != nil {
		t.Fatal(err)
	}
	hash2, err := fastFileHash(path)
	if err != nil {
		t.Fatal(err)
	}

	if hash1 != hash2 {
		t.Fatal("expected a change confined to the unread middle window to not affect the hash")
	}
}

func TestCanonicalizeRootRejectsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "not-a-dir.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := canonicalizeRoot(file); err == nil {
		t.Fatal("expected error for a non-directory path")
	}
}

func TestIsVisibleNameAndIsDocxName(t *testing.T) {
	if isVisibleName(".hidden") {
		t.Fatal("dotfiles should not be visible")
	}
	if !isVisibleName("notes.docx") {
		t.Fatal("plain file names should be visible")
	}
	if !isDocxName("Report.DOCX") {
		t.Fatal("extension match should be case-insensitive")
	}
	if isDocxName("report.pdf") {
		t.Fatal("non-docx extension should not match")
	}
}

func TestDiscoverAndClassifySkipsHiddenAndNonDocx(t *testing.T) {
	root := t.TempDir()
	must := func(err error) {
		if err != nil {
			t.Fatal(err)
		}
	}
	must(os.WriteFile(filepath.Join(root, "keep.docx"), []byte("one"), 0o644))
	must(os.WriteFile(filepath.Join(root, "ignore.txt"), []byte("two"), 0o644))
	must(os.Mkdir(filepath.Join(root, ".hidden"), 0o755))
	must(os.WriteFile(filepath.Join(root, ".hidden", "skip.docx"), []byte("three"), 0o644))

	lastEmit := int64(0)
	scanned, skipped, candidates, seen, err := discoverAndClassify(
		root, nil, nil, 0, func() int64 { return 0 }, &lastEmit)
	if err != nil {
		t.Fatal(err)
	}
	if scanned != 1 {
		t.Fatalf("scanned = %d, want 1", scanned)
	}
	if skipped != 0 {
		t.Fatalf("skipped = %d, want 0 for a brand new file", skipped)
	}
	if len(candidates) != 1 || candidates[0].relativePath != "keep.docx" {
		t.Fatalf("unexpected candidates: %+v", candidates)
	}
	if _, ok := seen["keep.docx"]; !ok {
		t.Fatal("expected keep.docx in seen set")
	}
}

func TestSuggestedParseChunkSizeClamped(t *testing.T) {
	n := suggestedParseChunkSize()
	if n < 2 || n > 12 {
		t.Fatalf("parse chunk size %d out of [2,12]", n)
	}
}

func TestExtractAuthorCandidatesDeduplicatesNormalizedLines(t *testing.T) {
	paragraphs := []docx.Paragraph{
		{Order: 1, Text: "Smith, J., Doe, A. (2021). Journal of Testing"},
		{Order: 2, Text: "Smith, J., Doe, A. (2021). Journal of Testing "},
		{Order: 3, Text: "Plain heading paragraph"},
	}

	authors := extractAuthorCandidates(paragraphs)
	if len(authors) != 1 {
		t.Fatalf("expected 1 deduplicated author line, got %d: %+v", len(authors), authors)
	}
	if authors[0].order != 1 {
		t.Fatalf("expected first occurrence's order, got %d", authors[0].order)
	}
	if authors[0].text != "Smith, J., Doe, A. (2021). Journal of Testing" {
		t.Fatalf("unexpected text: %q", authors[0].text)
	}
}

func TestExtractAuthorCandidatesIgnoresNonAuthorLines(t *testing.T) {
	paragraphs := []docx.Paragraph{
		{Order: 1, Text: "This is just a normal sentence without citation markers at all really."},
		{Order: 2, HeadingLevel: lvl(1), Text: "Introduction"},
	}
	if authors := extractAuthorCandidates(paragraphs); len(authors) != 0 {
		t.Fatalf("expected no author candidates, got %+v", authors)
	}
}
