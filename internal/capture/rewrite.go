package capture

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
)

// BackupFunc snapshots a capture document's previous bytes before an
// in-place rewrite. Implemented by internal/snapshot at the call site that
// wires a MinIO client; left nil here to keep internal/capture independent
// of object storage.
type BackupFunc func(ctx context.Context, previousBytes io.Reader, size int64) error

// RewriteWithParts streams capturePath's zip entries into a temporary file,
// substituting any part named in replacements and appending any replacement
// part not already present in the source, then swaps the temp file over the
// original. A failed rename falls back to delete-then-rename; the original
// file is left untouched on any earlier error, since the temp file is
// always the write target. If backup is non-nil, it is invoked with the
// document's current bytes before any modification is written, and a
// backup failure aborts the rewrite.
func RewriteWithParts(ctx context.Context, capturePath string, replacements map[string][]byte, backup BackupFunc) error {
	if backup != nil {
		if err := backupExisting(ctx, capturePath, backup); err != nil {
			return err
		}
	}

	source, err := os.Open(capturePath)
	if err != nil {
		return fmt.Errorf("capture: open capture docx %q for update: %w", capturePath, err)
	}
	defer source.Close()
	info, err := source.Stat()
	if err != nil {
		return fmt.Errorf("capture: stat capture docx %q: %w", capturePath, err)
	}
	zr, err := zip.NewReader(source, info.Size())
	if err != nil {
		return fmt.Errorf("capture: read capture docx %q for update: %w", capturePath, err)
	}

	tempPath := capturePath + "." + uuid.NewString() + ".tmp"
	tempFile, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("capture: create temporary capture file %q: %w", tempPath, err)
	}

	writer := zip.NewWriter(tempFile)
	copiedNames := make(map[string]struct{}, len(zr.File))

	writeErr := func() error {
		for _, entry := range zr.File {
			if entry.FileInfo().IsDir() {
				continue
			}
			name := entry.Name
			w, err := writer.CreateHeader(&zip.FileHeader{Name: name, Method: entry.Method})
			if err != nil {
				return fmt.Errorf("capture: write capture zip entry %q: %w", name, err)
			}

			if updated, ok := replacements[name]; ok {
				if _, err := w.Write(updated); err != nil {
					return fmt.Errorf("capture: write capture zip entry %q: %w", name, err)
				}
			} else {
				rc, err := entry.Open()
				if err != nil {
					return fmt.Errorf("capture: read capture zip entry %q: %w", name, err)
				}
				_, copyErr := io.Copy(w, rc)
				rc.Close()
				if copyErr != nil {
					return fmt.Errorf("capture: write capture zip entry %q: %w", name, copyErr)
				}
			}
			copiedNames[name] = struct{}{}
		}

		for name, updated := range replacements {
			if _, ok := copiedNames[name]; ok {
				continue
			}
			w, err := writer.Create(name)
			if err != nil {
				return fmt.Errorf("capture: add capture zip entry %q: %w", name, err)
			}
			if _, err := w.Write(updated); err != nil {
				return fmt.Errorf("capture: add capture zip entry %q: %w", name, err)
			}
		}
		return writer.Close()
	}()

	closeErr := tempFile.Close()
	if writeErr != nil {
		_ = os.Remove(tempPath)
		return writeErr
	}
	if closeErr != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("capture: finish capture zip rewrite: %w", closeErr)
	}

	if err := os.Rename(tempPath, capturePath); err == nil {
		return nil
	}

	if err := os.Remove(capturePath); err != nil {
		return fmt.Errorf("capture: could not replace capture docx %q: %w", capturePath, err)
	}
	if err := os.Rename(tempPath, capturePath); err != nil {
		return fmt.Errorf("capture: could not move updated capture docx into place %q: %w", capturePath, err)
	}
	return nil
}

func backupExisting(ctx context.Context, capturePath string, backup BackupFunc) error {
	f, err := os.Open(capturePath)
	if err != nil {
		return fmt.Errorf("capture: open capture docx %q for backup: %w", capturePath, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("capture: stat capture docx %q for backup: %w", capturePath, err)
	}
	return backup(ctx, f, info.Size())
}
