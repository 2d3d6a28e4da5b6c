package capture

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
)

var errBackupFailed = errors.New("backup failed")

func TestAppendCaptureToDocxCreatesAndInvokesBackup(t *testing.T) {
	dir := t.TempDir()
	capturePath := filepath.Join(dir, "BlockFile-Captures.docx")

	backupCalls := 0
	backup := func(ctx context.Context, previousBytes io.Reader, size int64) error {
		backupCalls++
		if _, err := io.Copy(io.Discard, previousBytes); err != nil {
			t.Fatalf("reading backup bytes: %v", err)
		}
		if size <= 0 {
			t.Fatalf("expected positive backup size, got %d", size)
		}
		return nil
	}

	section := FallbackStyledSection("captured text")
	if err := AppendCaptureToDocx(context.Background(), capturePath, capturePath, nil, nil, section, nil); err != nil {
		t.Fatalf("first append (no backup hook supplied): %v", err)
	}
	if backupCalls != 0 {
		t.Fatalf("backup hook was nil, so it must never run, got %d calls", backupCalls)
	}

	if err := AppendCaptureToDocx(context.Background(), capturePath, capturePath, nil, nil, section, backup); err != nil {
		t.Fatalf("second append (with backup): %v", err)
	}
	if backupCalls != 1 {
		t.Fatalf("expected exactly one backup invocation for the second append, got %d", backupCalls)
	}

	documentXML, ok, err := ReadDocxPart(capturePath, "word/document.xml")
	if err != nil {
		t.Fatalf("reading final document.xml: %v", err)
	}
	if !ok {
		t.Fatal("expected word/document.xml to be present after append")
	}
	if !documentHasBodyContent(documentXML) {
		t.Fatal("expected body content after appending a captured section")
	}
}

func TestAppendCaptureToDocxBackupFailureAbortsRewrite(t *testing.T) {
	dir := t.TempDir()
	capturePath := filepath.Join(dir, "BlockFile-Captures.docx")

	section := FallbackStyledSection("seed")
	if err := AppendCaptureToDocx(context.Background(), capturePath, capturePath, nil, nil, section, nil); err != nil {
		t.Fatalf("seeding capture docx: %v", err)
	}

	before, _, err := ReadDocxPart(capturePath, "word/document.xml")
	if err != nil {
		t.Fatalf("reading seeded document.xml: %v", err)
	}

	failingBackup := func(ctx context.Context, previousBytes io.Reader, size int64) error {
		return errBackupFailed
	}

	if err := AppendCaptureToDocx(context.Background(), capturePath, capturePath, nil, nil, section, failingBackup); err == nil {
		t.Fatal("expected append to fail when backup fails")
	}

	after, _, err := ReadDocxPart(capturePath, "word/document.xml")
	if err != nil {
		t.Fatalf("reading document.xml after failed append: %v", err)
	}
	if string(before) != string(after) {
		t.Fatal("expected document.xml to be left untouched when backup fails")
	}
}
