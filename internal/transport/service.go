// Package transport is docindex's command surface: one connect-go unary (or
// server-streaming) handler per operation in spec.md §6, running over h2c
// exactly as internal/server/modules.go's StartHTTPServer does in the
// teacher. There is no protobuf/connect-gen service here (see DESIGN.md), so
// every handler is registered directly against connect.NewUnaryHandler with
// plain Go request/response structs and the sonic-backed codec in codec.go.
package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/hsn0918/docindex/internal/benchmark"
	"github.com/hsn0918/docindex/internal/capture"
	"github.com/hsn0918/docindex/internal/direrr"
	"github.com/hsn0918/docindex/internal/indexer"
	"github.com/hsn0918/docindex/internal/preview"
	"github.com/hsn0918/docindex/internal/queryengine"
	"github.com/hsn0918/docindex/internal/snapshot"
	"github.com/hsn0918/docindex/internal/store"
)

// Service holds every dependency a command handler needs. It is built once
// in internal/server and threaded through every registered handler, the Go
// analogue of the RagServer struct the teacher's own handlers close over.
type Service struct {
	Store    *store.Store
	Engine   *queryengine.Engine
	Indexer  *indexer.Runner
	Snapshot *snapshot.Client // nil when MinIO backup is not configured
	NowMs    func() int64
}

func (s *Service) nowMs() int64 {
	if s.NowMs != nil {
		return s.NowMs()
	}
	return time.Now().UnixMilli()
}

// resolveRootID canonicalizes path and looks up its root id, the shared
// first step of every root-scoped command.
func (s *Service) resolveRootID(ctx context.Context, path string) (int64, string, error) {
	canonical, err := indexer.CanonicalizeRoot(path)
	if err != nil {
		return 0, "", err
	}
	id, ok, err := s.Store.GetRootID(ctx, canonical)
	if err != nil {
		return 0, "", err
	}
	if !ok {
		return 0, "", fmt.Errorf("%w: %q has not been added", direrr.ErrRootNotFound, canonical)
	}
	return id, canonical, nil
}

// resolveFileAbsolutePath loads a file row and joins it against its root's
// canonical path, the same lookup get_file_preview and
// get_heading_preview_html perform in the original.
func (s *Service) resolveFileAbsolutePath(ctx context.Context, fileID int64) (store.File, string, error) {
	file, ok, err := s.Store.FileByID(ctx, fileID)
	if err != nil {
		return store.File{}, "", err
	}
	if !ok {
		return store.File{}, "", fmt.Errorf("%w: file id %d", direrr.ErrFileNotFound, fileID)
	}
	rootPath, ok, err := s.Store.RootPathByID(ctx, file.RootID)
	if err != nil {
		return store.File{}, "", err
	}
	if !ok {
		return store.File{}, "", fmt.Errorf("%w: root id %d", direrr.ErrRootNotFound, file.RootID)
	}
	return file, capture.CaptureDocxPath(rootPath, file.RelativePath), nil
}

// --- benchmark.Dependencies adapters ---
// Service satisfies benchmark.PreviewProvider and benchmark.Snapshotter
// directly, so internal/server can wire one *Service into
// benchmark.Dependencies without an extra adapter type. internal/indexer's
// Runner already satisfies benchmark.Indexer on its own.

var _ benchmark.PreviewProvider = (*Service)(nil)
var _ benchmark.Snapshotter = (*Service)(nil)

// FilePreviewHeadingCount re-extracts file_id's preview content and reports
// how many headings it produced, timing the same path get_file_preview
// serves.
func (s *Service) FilePreviewHeadingCount(ctx context.Context, fileID int64) (int, error) {
	_, absolutePath, err := s.resolveFileAbsolutePath(ctx, fileID)
	if err != nil {
		return 0, err
	}
	headings, _, err := preview.ExtractPreviewContent(absolutePath)
	if err != nil {
		return 0, err
	}
	return len(headings), nil
}

// HeadingPreviewHTML renders file_id's heading_order section as HTML,
// exactly as the get_heading_preview_html handler does.
func (s *Service) HeadingPreviewHTML(ctx context.Context, fileID int64, headingOrder int) (string, error) {
	_, absolutePath, err := s.resolveFileAbsolutePath(ctx, fileID)
	if err != nil {
		return "", err
	}
	return preview.ExtractHeadingPreviewHTML(absolutePath, headingOrder)
}

// GetIndexSnapshot builds (and discards) a folder/file snapshot for
// rootPath, so benchmark.Run can time the same tree-building work
// get_index_snapshot does without duplicating its request/response shapes.
func (s *Service) GetIndexSnapshot(ctx context.Context, rootPath string) error {
	_, _, err := s.buildIndexSnapshot(ctx, rootPath)
	return err
}
