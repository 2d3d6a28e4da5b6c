package transport

import (
	"context"
	"io"

	"connectrpc.com/connect"

	"github.com/hsn0918/docindex/internal/capture"
	"github.com/hsn0918/docindex/internal/indexer"
	"github.com/hsn0918/docindex/internal/snapshot"
)

// backupFuncFor builds a capture.BackupFunc that snapshots a capture
// target's previous bytes to MinIO before an in-place rewrite. Returns nil
// (no backup) when no snapshot client is configured, matching
// internal/capture's own "nil means skip" contract.
func (s *Service) backupFuncFor(rootID int64, targetRelativePath string) capture.BackupFunc {
	if s.Snapshot == nil {
		return nil
	}
	return func(ctx context.Context, previousBytes io.Reader, size int64) error {
		return snapshot.BackupCaptureTarget(ctx, s.Snapshot, rootID, targetRelativePath, previousBytes, size, s.nowMs())
	}
}

func previewToResponse(p capture.CaptureTargetPreview) *CaptureTargetPreviewResponse {
	headings := make([]CaptureHeadingPreviewView, 0, len(p.Headings))
	for _, h := range p.Headings {
		headings = append(headings, CaptureHeadingPreviewView{Order: h.Order, Level: h.Level, Text: h.Text})
	}
	return &CaptureTargetPreviewResponse{
		RelativePath: p.RelativePath,
		AbsolutePath: p.AbsolutePath,
		Exists:       p.Exists,
		HeadingCount: p.HeadingCount,
		Headings:     headings,
	}
}

// ListCaptureTargets reports every distinct capture target recorded under a
// root: the default target first (count 0 when it has no captures), then the
// other targets in order of their most recent capture.
func (s *Service) ListCaptureTargets(ctx context.Context, req *connect.Request[ListCaptureTargetsRequest]) (*connect.Response[ListCaptureTargetsResponse], error) {
	rootID, _, err := s.resolveRootID(ctx, req.Msg.RootPath)
	if err != nil {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	targets, err := capture.ListCaptureTargets(ctx, s.Store, rootID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	out := make([]CaptureTargetView, 0, len(targets))
	for _, t := range targets {
		out = append(out, CaptureTargetView{RelativePath: t.RelativePath, CaptureCount: t.CaptureCount})
	}
	return connect.NewResponse(&ListCaptureTargetsResponse{Targets: out}), nil
}

// GetCaptureTargetPreview previews a capture target document, creating
// nothing: a target that doesn't exist yet previews as empty.
func (s *Service) GetCaptureTargetPreview(ctx context.Context, req *connect.Request[GetCaptureTargetPreviewRequest]) (*connect.Response[CaptureTargetPreviewResponse], error) {
	canonicalRoot, err := indexer.CanonicalizeRoot(req.Msg.RootPath)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	preview, err := capture.GetCaptureTargetPreview(canonicalRoot, req.Msg.TargetPath)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	return connect.NewResponse(previewToResponse(preview)), nil
}

// AddCaptureHeading appends a new heading (and empty section) to a capture
// target, creating the target document if it doesn't exist yet.
func (s *Service) AddCaptureHeading(ctx context.Context, req *connect.Request[AddCaptureHeadingRequest]) (*connect.Response[CaptureTargetPreviewResponse], error) {
	rootID, canonicalRoot, err := s.resolveRootID(ctx, req.Msg.RootPath)
	if err != nil {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	normalizedTarget, err := capture.NormalizeCaptureTargetPath(req.Msg.TargetPath)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	absolutePath := capture.CaptureDocxPath(canonicalRoot, normalizedTarget)

	if err := capture.AddHeading(ctx, absolutePath, req.Msg.HeadingLevel, req.Msg.HeadingText,
		req.Msg.SelectedTargetHeadingOrder, s.backupFuncFor(rootID, normalizedTarget)); err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	preview := capture.CaptureTargetPreviewForPath(absolutePath, normalizedTarget)
	return connect.NewResponse(previewToResponse(preview)), nil
}

// DeleteCaptureHeading removes a heading and its section from a capture
// target.
func (s *Service) DeleteCaptureHeading(ctx context.Context, req *connect.Request[DeleteCaptureHeadingRequest]) (*connect.Response[CaptureTargetPreviewResponse], error) {
	rootID, canonicalRoot, err := s.resolveRootID(ctx, req.Msg.RootPath)
	if err != nil {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	normalizedTarget, err := capture.NormalizeCaptureTargetPath(req.Msg.TargetPath)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	absolutePath := capture.CaptureDocxPath(canonicalRoot, normalizedTarget)

	if err := capture.DeleteHeading(ctx, absolutePath, req.Msg.HeadingOrder, s.backupFuncFor(rootID, normalizedTarget)); err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	preview := capture.CaptureTargetPreviewForPath(absolutePath, normalizedTarget)
	return connect.NewResponse(previewToResponse(preview)), nil
}

// MoveCaptureHeading reorders a heading (and its section) within a capture
// target.
func (s *Service) MoveCaptureHeading(ctx context.Context, req *connect.Request[MoveCaptureHeadingRequest]) (*connect.Response[CaptureTargetPreviewResponse], error) {
	rootID, canonicalRoot, err := s.resolveRootID(ctx, req.Msg.RootPath)
	if err != nil {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	normalizedTarget, err := capture.NormalizeCaptureTargetPath(req.Msg.TargetPath)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	absolutePath := capture.CaptureDocxPath(canonicalRoot, normalizedTarget)

	if err := capture.MoveHeading(ctx, absolutePath, req.Msg.SourceHeadingOrder, req.Msg.TargetHeadingOrder,
		s.backupFuncFor(rootID, normalizedTarget)); err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	preview := capture.CaptureTargetPreviewForPath(absolutePath, normalizedTarget)
	return connect.NewResponse(previewToResponse(preview)), nil
}

// InsertCapture extracts a styled section from source_path and splices it
// into target_path, recording a logical capture row.
func (s *Service) InsertCapture(ctx context.Context, req *connect.Request[InsertCaptureRequest]) (*connect.Response[InsertCaptureResponse], error) {
	rootID, rootPath, err := s.resolveRootID(ctx, req.Msg.RootPath)
	if err != nil {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}

	normalizedTarget, err := capture.NormalizeCaptureTargetPath(req.Msg.TargetPath)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	result, err := capture.InsertCapture(ctx, s.Store, s.NowMs, capture.InsertCaptureRequest{
		RootID:                     rootID,
		RootPath:                   rootPath,
		SourcePath:                 req.Msg.SourcePath,
		SourceRelativePath:         req.Msg.SourcePath,
		SectionTitle:               req.Msg.SectionTitle,
		TargetRelativePath:         normalizedTarget,
		HeadingLevel:               req.Msg.HeadingLevel,
		Content:                    req.Msg.Content,
		SelectedTargetHeadingOrder: req.Msg.SelectedTargetHeadingOrder,
		SourceHeadingOrder:         req.Msg.HeadingOrder,
	}, s.backupFuncFor(rootID, normalizedTarget))
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&InsertCaptureResponse{
		CapturePath:        result.CapturePath,
		Marker:             result.Marker,
		TargetRelativePath: result.TargetRelativePath,
	}), nil
}
