package transport

import (
	"context"
	"sort"

	"connectrpc.com/connect"

	"github.com/hsn0918/docindex/internal/preview"
)

// GetFilePreview extracts file_id's headings and F8-cite blocks, the Go
// port of commands.rs's get_file_preview.
func (s *Service) GetFilePreview(ctx context.Context, req *connect.Request[GetFilePreviewRequest]) (*connect.Response[GetFilePreviewResponse], error) {
	file, absolutePath, err := s.resolveFileAbsolutePath(ctx, req.Msg.FileID)
	if err != nil {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}

	headings, blocks, err := preview.ExtractPreviewContent(absolutePath)
	if err != nil {
		// Matches the original's unwrap_or_default: a file that no longer
		// parses reports zero headings rather than failing the command.
		headings, blocks = nil, nil
	}
	sort.Slice(headings, func(i, j int) bool { return headings[i].Order < headings[j].Order })
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Order < blocks[j].Order })

	headingViews := make([]FileHeadingView, 0, len(headings))
	for _, h := range headings {
		headingViews = append(headingViews, FileHeadingView{ID: h.ID, Order: h.Order, Level: h.Level, Text: h.Text, CopyText: h.CopyText})
	}
	blockViews := make([]TaggedBlockView, 0, len(blocks))
	for _, b := range blocks {
		blockViews = append(blockViews, TaggedBlockView{Order: b.Order, StyleLabel: b.StyleLabel, Text: b.Text})
	}

	headingCount := int64(len(headingViews))
	if headingCount == 0 {
		headingCount = int64(file.HeadingCount)
	}

	return connect.NewResponse(&GetFilePreviewResponse{
		FileID:       req.Msg.FileID,
		FileName:     fileNameFromRelative(file.RelativePath),
		RelativePath: file.RelativePath,
		AbsolutePath: absolutePath,
		HeadingCount: headingCount,
		Headings:     headingViews,
		F8Cites:      blockViews,
	}), nil
}

// GetHeadingPreviewHTML renders file_id's heading_order section as an HTML
// fragment. A non-positive heading_order returns an empty string, matching
// get_heading_preview_html's early return in the original.
func (s *Service) GetHeadingPreviewHTML(ctx context.Context, req *connect.Request[GetHeadingPreviewHTMLRequest]) (*connect.Response[GetHeadingPreviewHTMLResponse], error) {
	if req.Msg.HeadingOrder <= 0 {
		return connect.NewResponse(&GetHeadingPreviewHTMLResponse{}), nil
	}
	_, absolutePath, err := s.resolveFileAbsolutePath(ctx, req.Msg.FileID)
	if err != nil {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	html, err := preview.ExtractHeadingPreviewHTML(absolutePath, req.Msg.HeadingOrder)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&GetHeadingPreviewHTMLResponse{HTML: html}), nil
}
