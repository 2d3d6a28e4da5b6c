package transport

import (
	"fmt"
	"strings"

	"github.com/hsn0918/docindex/internal/direrr"
)

// Every request struct below implements Validate() error, the hand-rolled
// stand-in for protovalidate's descriptor-driven checks (internal/middleware
// calls it through the Validatable interface; see DESIGN.md). Bounds mirror
// spec.md §6's command surface exactly.

// AddRootRequest adds (or re-confirms) a root folder to index.
type AddRootRequest struct {
	Path string `json:"path"`
}

func (r AddRootRequest) Validate() error {
	if strings.TrimSpace(r.Path) == "" {
		return fmt.Errorf("%w: path must not be empty", direrr.ErrRootNotFound)
	}
	return nil
}

// RemoveRootRequest drops a previously added root.
type RemoveRootRequest struct {
	Path string `json:"path"`
}

func (r RemoveRootRequest) Validate() error {
	if strings.TrimSpace(r.Path) == "" {
		return fmt.Errorf("%w: path must not be empty", direrr.ErrRootNotFound)
	}
	return nil
}

// ListRootsRequest has no fields; every root is always listed.
type ListRootsRequest struct{}

func (r ListRootsRequest) Validate() error { return nil }

// IndexRootRequest runs one indexing pass over path.
type IndexRootRequest struct {
	Path string `json:"path"`
}

func (r IndexRootRequest) Validate() error {
	if strings.TrimSpace(r.Path) == "" {
		return fmt.Errorf("%w: path must not be empty", direrr.ErrRootNotFound)
	}
	return nil
}

// GetIndexSnapshotRequest asks for the folder/file tree of an indexed root.
type GetIndexSnapshotRequest struct {
	Path string `json:"path"`
}

func (r GetIndexSnapshotRequest) Validate() error {
	if strings.TrimSpace(r.Path) == "" {
		return fmt.Errorf("%w: path must not be empty", direrr.ErrRootNotFound)
	}
	return nil
}

// GetFilePreviewRequest asks for one file's headings and citation blocks.
type GetFilePreviewRequest struct {
	FileID int64 `json:"file_id"`
}

func (r GetFilePreviewRequest) Validate() error {
	if r.FileID <= 0 {
		return fmt.Errorf("%w: file_id must be positive", direrr.ErrFileNotFound)
	}
	return nil
}

// GetHeadingPreviewHTMLRequest renders one heading section as HTML.
type GetHeadingPreviewHTMLRequest struct {
	FileID       int64 `json:"file_id"`
	HeadingOrder int   `json:"heading_order"`
}

func (r GetHeadingPreviewHTMLRequest) Validate() error {
	if r.FileID <= 0 {
		return fmt.Errorf("%w: file_id must be positive", direrr.ErrFileNotFound)
	}
	return nil
}

// ListCaptureTargetsRequest lists the distinct capture targets under a root.
type ListCaptureTargetsRequest struct {
	RootPath string `json:"root_path"`
}

func (r ListCaptureTargetsRequest) Validate() error {
	if strings.TrimSpace(r.RootPath) == "" {
		return fmt.Errorf("%w: root_path must not be empty", direrr.ErrRootNotFound)
	}
	return nil
}

// GetCaptureTargetPreviewRequest previews a capture target document.
type GetCaptureTargetPreviewRequest struct {
	RootPath   string `json:"root_path"`
	TargetPath string `json:"target_path"`
}

func (r GetCaptureTargetPreviewRequest) Validate() error {
	if strings.TrimSpace(r.RootPath) == "" {
		return fmt.Errorf("%w: root_path must not be empty", direrr.ErrRootNotFound)
	}
	return nil
}

// AddCaptureHeadingRequest inserts a new heading into a capture target.
type AddCaptureHeadingRequest struct {
	RootPath                   string `json:"root_path"`
	TargetPath                 string `json:"target_path"`
	HeadingLevel               int    `json:"heading_level"`
	HeadingText                string `json:"heading_text"`
	SelectedTargetHeadingOrder *int   `json:"selected_target_heading_order,omitempty"`
}

func (r AddCaptureHeadingRequest) Validate() error {
	if strings.TrimSpace(r.RootPath) == "" {
		return fmt.Errorf("%w: root_path must not be empty", direrr.ErrRootNotFound)
	}
	if r.HeadingLevel < 1 || r.HeadingLevel > 4 {
		return fmt.Errorf("%w: heading_level must be in [1,4], got %d", direrr.ErrHeadingLevelRange, r.HeadingLevel)
	}
	if strings.TrimSpace(r.HeadingText) == "" {
		return direrr.ErrEmptyHeadingText
	}
	return nil
}

// DeleteCaptureHeadingRequest removes a heading (and its section) from a
// capture target.
type DeleteCaptureHeadingRequest struct {
	RootPath     string `json:"root_path"`
	TargetPath   string `json:"target_path"`
	HeadingOrder int    `json:"heading_order"`
}

func (r DeleteCaptureHeadingRequest) Validate() error {
	if strings.TrimSpace(r.RootPath) == "" {
		return fmt.Errorf("%w: root_path must not be empty", direrr.ErrRootNotFound)
	}
	return nil
}

// MoveCaptureHeadingRequest reorders a heading within a capture target.
type MoveCaptureHeadingRequest struct {
	RootPath           string `json:"root_path"`
	TargetPath         string `json:"target_path"`
	SourceHeadingOrder int    `json:"source_heading_order"`
	TargetHeadingOrder int    `json:"target_heading_order"`
}

func (r MoveCaptureHeadingRequest) Validate() error {
	if strings.TrimSpace(r.RootPath) == "" {
		return fmt.Errorf("%w: root_path must not be empty", direrr.ErrRootNotFound)
	}
	return nil
}

// InsertCaptureRequest splices a styled section from a source document into
// a capture target, creating a logical capture entry.
type InsertCaptureRequest struct {
	RootPath                   string `json:"root_path"`
	SourcePath                 string `json:"source_path"`
	SectionTitle               string `json:"section_title"`
	Content                    string `json:"content"`
	ParagraphXML               []string `json:"paragraph_xml,omitempty"`
	TargetPath                 string `json:"target_path,omitempty"`
	HeadingLevel                *int  `json:"heading_level,omitempty"`
	HeadingOrder                *int  `json:"heading_order,omitempty"`
	SelectedTargetHeadingOrder *int  `json:"selected_target_heading_order,omitempty"`
}

func (r InsertCaptureRequest) Validate() error {
	if strings.TrimSpace(r.RootPath) == "" {
		return fmt.Errorf("%w: root_path must not be empty", direrr.ErrRootNotFound)
	}
	if strings.TrimSpace(r.SourcePath) == "" {
		return fmt.Errorf("%w: source_path must not be empty", direrr.ErrFileNotFound)
	}
	if strings.TrimSpace(r.Content) == "" && len(r.ParagraphXML) == 0 {
		return direrr.ErrEmptyContent
	}
	if r.HeadingLevel != nil && (*r.HeadingLevel < 1 || *r.HeadingLevel > 9) {
		return fmt.Errorf("%w: heading_level must be in [1,9], got %d", direrr.ErrHeadingLevelRange, *r.HeadingLevel)
	}
	return nil
}

// SearchIndexRequest is the common shape shared by the lexical-only,
// semantic-only, and hybrid search endpoints.
type SearchIndexRequest struct {
	Query           string `json:"query"`
	RootPath        string `json:"root_path,omitempty"`
	Limit           int    `json:"limit,omitempty"`
	FileNameOnly    bool   `json:"file_name_only,omitempty"`
	SemanticEnabled *bool  `json:"semantic_enabled,omitempty"`
}

func (r SearchIndexRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return fmt.Errorf("query must not be empty")
	}
	return nil
}

// BenchmarkRootPerformanceRequest exercises indexing and search end to end
// over one root and times it.
type BenchmarkRootPerformanceRequest struct {
	Path            string   `json:"path"`
	Queries         []string `json:"queries,omitempty"`
	Iterations      int      `json:"iterations,omitempty"`
	Limit           int      `json:"limit,omitempty"`
	IncludeSemantic *bool    `json:"include_semantic,omitempty"`
	PreviewSamples  int      `json:"preview_samples,omitempty"`
}

func (r BenchmarkRootPerformanceRequest) Validate() error {
	if strings.TrimSpace(r.Path) == "" {
		return fmt.Errorf("%w: path must not be empty", direrr.ErrRootNotFound)
	}
	if r.Iterations != 0 && (r.Iterations < 1 || r.Iterations > 12) {
		return fmt.Errorf("iterations must be in [1,12], got %d", r.Iterations)
	}
	if r.Limit != 0 && (r.Limit < 10 || r.Limit > 400) {
		return fmt.Errorf("limit must be in [10,400], got %d", r.Limit)
	}
	if r.PreviewSamples != 0 && (r.PreviewSamples < 0 || r.PreviewSamples > 240) {
		return fmt.Errorf("preview_samples must be in [0,240], got %d", r.PreviewSamples)
	}
	return nil
}

// StreamIndexProgressRequest opens a progress stream for one indexing run
// over root_path; the call both drives the indexing pass and streams its
// events, rather than subscribing to a separately started IndexRoot call.
type StreamIndexProgressRequest struct {
	RootPath string `json:"root_path"`
}

func (r StreamIndexProgressRequest) Validate() error {
	if strings.TrimSpace(r.RootPath) == "" {
		return fmt.Errorf("%w: root_path must not be empty", direrr.ErrRootNotFound)
	}
	return nil
}
