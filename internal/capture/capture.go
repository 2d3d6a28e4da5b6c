package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hsn0918/docindex/internal/direrr"
	"github.com/hsn0918/docindex/internal/docx"
	"github.com/hsn0918/docindex/internal/headingrange"
	"github.com/hsn0918/docindex/internal/store"
)

// NormalizeCaptureTargetPath validates and canonicalizes a caller-supplied
// capture target path, defaulting to store.DefaultCaptureTarget and forcing
// a .docx extension. Grounded on util.rs's normalize_capture_target_path.
func NormalizeCaptureTargetPath(targetPath string) (string, error) {
	raw := strings.TrimSpace(targetPath)
	if raw == "" {
		raw = store.DefaultCaptureTarget
	}

	if filepath.IsAbs(raw) {
		return filepath.Clean(raw), nil
	}

	parts := strings.Split(filepath.ToSlash(raw), "/")
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			return "", fmt.Errorf("%w: cannot use '..' or root-prefix components when relative", direrr.ErrInvalidCaptureTarget)
		default:
			kept = append(kept, part)
		}
	}
	if len(kept) == 0 {
		return "", fmt.Errorf("%w: path cannot be empty", direrr.ErrInvalidCaptureTarget)
	}

	normalized := filepath.Join(kept...)
	if !strings.EqualFold(filepath.Ext(normalized), ".docx") {
		normalized += ".docx"
	}
	return normalized, nil
}

// CaptureDocxPath joins rootPath and targetRelativePath.
func CaptureDocxPath(rootPath, targetRelativePath string) string {
	return filepath.Join(rootPath, targetRelativePath)
}

// CaptureMarker formats the stable "BF-NNNNNN" marker for a capture row id.
func CaptureMarker(captureID int64) string {
	return fmt.Sprintf("BF-%06d", captureID)
}

// CaptureTargetPreviewForPath builds a heading-level preview of the capture
// target file at absolutePath, returning a non-existent preview if the file
// isn't there or can't be parsed as a .docx.
func CaptureTargetPreviewForPath(absolutePath, relativePath string) CaptureTargetPreview {
	preview := CaptureTargetPreview{
		RelativePath: relativePath,
		AbsolutePath: absolutePath,
	}

	f, err := os.Open(absolutePath)
	if err != nil {
		return preview
	}
	defer f.Close()
	preview.Exists = true

	info, err := f.Stat()
	if err != nil {
		return preview
	}
	paragraphs, _, err := docx.ParseParagraphs(f, info.Size())
	if err != nil {
		return preview
	}

	ranges := headingrange.Build(paragraphs)
	preview.HeadingCount = len(ranges)
	preview.Headings = make([]CaptureHeadingPreview, 0, len(ranges))
	for _, r := range ranges {
		if r.StartIndex < 0 || r.StartIndex >= len(paragraphs) {
			continue
		}
		preview.Headings = append(preview.Headings, CaptureHeadingPreview{
			Order: paragraphs[r.StartIndex].Order,
			Level: r.Level,
			Text:  paragraphs[r.StartIndex].Text,
		})
	}
	return preview
}

// GetCaptureTargetPreview resolves targetRelativePath under rootPath and
// previews it, normalizing the path first.
func GetCaptureTargetPreview(rootPath, targetRelativePath string) (CaptureTargetPreview, error) {
	normalized, err := NormalizeCaptureTargetPath(targetRelativePath)
	if err != nil {
		return CaptureTargetPreview{}, err
	}
	absolutePath := CaptureDocxPath(rootPath, normalized)
	return CaptureTargetPreviewForPath(absolutePath, normalized), nil
}

// ListCaptureTargets reports every distinct capture target under rootID and
// its capture count: the default target first (count 0 when it has no
// captures), then the other targets in order of their most recent capture.
func ListCaptureTargets(ctx context.Context, st *store.Store, rootID int64) ([]CaptureTarget, error) {
	captures, err := st.CapturesByRoot(ctx, rootID)
	if err != nil {
		return nil, err
	}

	counts := map[string]int64{store.DefaultCaptureTarget: 0}
	order := []string{store.DefaultCaptureTarget}
	for _, c := range captures {
		if _, seen := counts[c.TargetRelativePath]; !seen {
			order = append(order, c.TargetRelativePath)
		}
		counts[c.TargetRelativePath]++
	}

	out := make([]CaptureTarget, 0, len(order))
	for _, relativePath := range order {
		out = append(out, CaptureTarget{RelativePath: relativePath, CaptureCount: counts[relativePath]})
	}
	return out, nil
}

// InsertCaptureRequest describes a new capture to splice into a target
// .docx and record in the store.
type InsertCaptureRequest struct {
	RootID                     int64
	RootPath                   string
	SourcePath                 string
	SourceRelativePath         string
	SectionTitle               string
	TargetRelativePath         string
	HeadingLevel               *int
	Content                    string
	SelectedTargetHeadingOrder *int
	SourceHeadingOrder         *int
}

// InsertCapture extracts the styled section from the request's source
// document (or falls back to its plain content), splices it into the
// normalized target .docx, and records the logical capture row. backup, if
// non-nil, is invoked with the target document's previous bytes before the
// in-place rewrite.
func InsertCapture(ctx context.Context, st *store.Store, nowMs func() int64, req InsertCaptureRequest, backup BackupFunc) (InsertResult, error) {
	normalizedTarget, err := NormalizeCaptureTargetPath(req.TargetRelativePath)
	if err != nil {
		return InsertResult{}, err
	}
	capturePath := CaptureDocxPath(req.RootPath, normalizedTarget)

	section := ExtractStyledSection(req.SourcePath, req.SourceHeadingOrder, req.Content)

	if err := AppendCaptureToDocx(ctx, capturePath, req.SourcePath, req.HeadingLevel, req.SelectedTargetHeadingOrder, section, backup); err != nil {
		return InsertResult{}, err
	}

	createdAtMs := time.Now().UnixMilli()
	if nowMs != nil {
		createdAtMs = nowMs()
	}

	id, err := st.InsertCapture(ctx, store.Capture{
		RootID:             req.RootID,
		SourcePath:         req.SourceRelativePath,
		SectionTitle:       req.SectionTitle,
		TargetRelativePath: normalizedTarget,
		HeadingLevel:       req.HeadingLevel,
		Content:            req.Content,
		CreatedAtMs:        createdAtMs,
	})
	if err != nil {
		return InsertResult{}, err
	}

	return InsertResult{
		CapturePath:        capturePath,
		Marker:             CaptureMarker(id),
		TargetRelativePath: normalizedTarget,
	}, nil
}
