package transport

import "github.com/hsn0918/docindex/internal/queryengine"

// AddRootResponse echoes the canonicalized path, matching add_root's
// original {canonical_path} shape.
type AddRootResponse struct {
	CanonicalPath string `json:"canonical_path"`
}

// RemoveRootResponse is empty; remove_root only ever signals success.
type RemoveRootResponse struct{}

// RootSummary is one entry of list_roots's response.
type RootSummary struct {
	Path          string `json:"path"`
	AddedAtMs     int64  `json:"added_at_ms"`
	LastIndexedMs int64  `json:"last_indexed_ms"`
	FileCount     int64  `json:"file_count"`
	HeadingCount  int64  `json:"heading_count"`
}

// ListRootsResponse is list_roots's full response.
type ListRootsResponse struct {
	Roots []RootSummary `json:"roots"`
}

// IndexRootResponse mirrors index_root's {scanned, updated, skipped,
// removed, headings_extracted, elapsed_ms} shape.
type IndexRootResponse struct {
	Scanned           int   `json:"scanned"`
	Updated           int   `json:"updated"`
	Skipped           int   `json:"skipped"`
	Removed           int   `json:"removed"`
	HeadingsExtracted int   `json:"headings_extracted"`
	ElapsedMs         int64 `json:"elapsed_ms"`
}

// FolderEntry is one node of get_index_snapshot's folder tree, grounded on
// commands.rs's FolderEntry/ensure_folder_with_ancestors.
type FolderEntry struct {
	Path       string `json:"path"`
	Name       string `json:"name"`
	ParentPath string `json:"parent_path,omitempty"`
	Depth      int    `json:"depth"`
	FileCount  int64  `json:"file_count"`
}

// IndexedFile is one file entry of get_index_snapshot's response.
type IndexedFile struct {
	ID           int64  `json:"id"`
	FileName     string `json:"file_name"`
	RelativePath string `json:"relative_path"`
	FolderPath   string `json:"folder_path"`
	ModifiedMs   int64  `json:"modified_ms"`
	HeadingCount int    `json:"heading_count"`
}

// GetIndexSnapshotResponse mirrors get_index_snapshot's
// {root_path, indexed_at_ms, folders[], files[]} shape.
type GetIndexSnapshotResponse struct {
	RootPath    string        `json:"root_path"`
	IndexedAtMs int64         `json:"indexed_at_ms"`
	Folders     []FolderEntry `json:"folders"`
	Files       []IndexedFile `json:"files"`
}

// FileHeadingView is one heading entry of get_file_preview's response.
type FileHeadingView struct {
	ID       int    `json:"id"`
	Order    int    `json:"order"`
	Level    int    `json:"level"`
	Text     string `json:"text"`
	CopyText string `json:"copy_text"`
}

// TaggedBlockView is one F8-cite block of get_file_preview's response.
type TaggedBlockView struct {
	Order      int    `json:"order"`
	StyleLabel string `json:"style_label"`
	Text       string `json:"text"`
}

// GetFilePreviewResponse mirrors the original's FilePreview shape.
type GetFilePreviewResponse struct {
	FileID       int64             `json:"file_id"`
	FileName     string            `json:"file_name"`
	RelativePath string            `json:"relative_path"`
	AbsolutePath string            `json:"absolute_path"`
	HeadingCount int64             `json:"heading_count"`
	Headings     []FileHeadingView `json:"headings"`
	F8Cites      []TaggedBlockView `json:"f8_cites"`
}

// GetHeadingPreviewHTMLResponse wraps the rendered HTML fragment.
type GetHeadingPreviewHTMLResponse struct {
	HTML string `json:"html"`
}

// CaptureTargetView is one entry of list_capture_targets's response.
type CaptureTargetView struct {
	RelativePath string `json:"relative_path"`
	CaptureCount int64  `json:"capture_count"`
}

// ListCaptureTargetsResponse wraps list_capture_targets's response.
type ListCaptureTargetsResponse struct {
	Targets []CaptureTargetView `json:"targets"`
}

// CaptureHeadingPreviewView is one heading within a capture target preview.
type CaptureHeadingPreviewView struct {
	Order int    `json:"order"`
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// CaptureTargetPreviewResponse mirrors CaptureTargetPreview, returned by
// get_capture_target_preview and every capture-heading mutation.
type CaptureTargetPreviewResponse struct {
	RelativePath string                      `json:"relative_path"`
	AbsolutePath string                      `json:"absolute_path"`
	Exists       bool                        `json:"exists"`
	HeadingCount int                         `json:"heading_count"`
	Headings     []CaptureHeadingPreviewView `json:"headings"`
}

// InsertCaptureResponse mirrors insert_capture's {capture_path, marker,
// target_relative_path} shape.
type InsertCaptureResponse struct {
	CapturePath        string `json:"capture_path"`
	Marker             string `json:"marker"`
	TargetRelativePath string `json:"target_relative_path"`
}

// SearchHitView is one entry of a search response, mirroring
// queryengine.Hit field-for-field for the wire.
type SearchHitView struct {
	Source       string `json:"source"`
	Kind         string `json:"kind"`
	FileID       int64  `json:"file_id"`
	FileName     string `json:"file_name"`
	RelativePath string `json:"relative_path"`
	AbsolutePath string `json:"absolute_path"`
	HeadingLevel *int   `json:"heading_level,omitempty"`
	HeadingText  string `json:"heading_text,omitempty"`
	HeadingOrder *int   `json:"heading_order,omitempty"`
	Score        float64 `json:"score"`
}

func hitsToView(hits []queryengine.Hit) []SearchHitView {
	out := make([]SearchHitView, 0, len(hits))
	for _, h := range hits {
		out = append(out, SearchHitView{
			Source:       h.Source,
			Kind:         h.Kind,
			FileID:       h.FileID,
			FileName:     h.FileName,
			RelativePath: h.RelativePath,
			AbsolutePath: h.AbsolutePath,
			HeadingLevel: h.HeadingLevel,
			HeadingText:  h.HeadingText,
			HeadingOrder: h.HeadingOrder,
			Score:        h.Score,
		})
	}
	return out
}

// SearchIndexResponse wraps the hit list returned by all three search
// endpoints.
type SearchIndexResponse struct {
	Hits []SearchHitView `json:"hits"`
}

// IndexProgressEvent is one StreamIndexProgress message, mirroring the
// original's index-progress event payload.
type IndexProgressEvent struct {
	RootPath    string `json:"root_path"`
	Phase       string `json:"phase"`
	Discovered  int    `json:"discovered"`
	Changed     int    `json:"changed"`
	Processed   int    `json:"processed"`
	Updated     int    `json:"updated"`
	Skipped     int    `json:"skipped"`
	Removed     int    `json:"removed"`
	ElapsedMs   int64  `json:"elapsed_ms"`
	CurrentFile string `json:"current_file,omitempty"`
}
