package snapshot

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
)

type fakeObjectStore struct {
	lastKey  string
	lastSize int64
	failWith error
}

func (f *fakeObjectStore) UploadObject(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.lastKey = key
	f.lastSize = size
	return nil
}

func (f *fakeObjectStore) DownloadObject(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeObjectStore) ObjectExists(ctx context.Context, key string) (bool, error) {
	return false, nil
}

func TestBackupCaptureTargetKeyFormat(t *testing.T) {
	fake := &fakeObjectStore{}
	data := []byte("previous bytes")
	err := BackupCaptureTarget(context.Background(), fake, 7, "Notes/Captures.docx", bytes.NewReader(data), int64(len(data)), 1700000000000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "captures/7/Notes/Captures.docx/1700000000000"
	if fake.lastKey != want {
		t.Fatalf("got key %q, want %q", fake.lastKey, want)
	}
	if fake.lastSize != int64(len(data)) {
		t.Fatalf("got size %d, want %d", fake.lastSize, len(data))
	}
}

func TestBackupCaptureTargetPropagatesUploadError(t *testing.T) {
	fake := &fakeObjectStore{failWith: errors.New("boom")}
	err := BackupCaptureTarget(context.Background(), fake, 1, "target.docx", bytes.NewReader(nil), 0, 1)
	if err == nil {
		t.Fatal("expected error to propagate")
	}
}
