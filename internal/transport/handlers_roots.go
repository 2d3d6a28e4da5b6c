package transport

import (
	"context"
	"path"
	"sort"
	"strings"

	"connectrpc.com/connect"

	"github.com/hsn0918/docindex/internal/indexer"
	"github.com/hsn0918/docindex/internal/store"
)

// AddRoot registers path as an indexed root, canonicalizing it first.
// Grounded on commands.rs's add_root.
func (s *Service) AddRoot(ctx context.Context, req *connect.Request[AddRootRequest]) (*connect.Response[AddRootResponse], error) {
	canonical, err := indexer.CanonicalizeRoot(req.Msg.Path)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if _, err := s.Indexer.AddOrGetRootID(ctx, canonical, s.nowMs()); err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&AddRootResponse{CanonicalPath: canonical}), nil
}

// RemoveRoot drops a previously added root. A path that no longer resolves
// (folder moved or deleted) is still removed by its last-known canonical
// form, matching remove_root's fallback in the original.
func (s *Service) RemoveRoot(ctx context.Context, req *connect.Request[RemoveRootRequest]) (*connect.Response[RemoveRootResponse], error) {
	canonical, err := indexer.CanonicalizeRoot(req.Msg.Path)
	if err != nil {
		canonical = req.Msg.Path
	}
	if err := s.Store.RemoveRoot(ctx, canonical); err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&RemoveRootResponse{}), nil
}

// ListRoots reports every indexed root with its file/heading counts.
func (s *Service) ListRoots(ctx context.Context, _ *connect.Request[ListRootsRequest]) (*connect.Response[ListRootsResponse], error) {
	roots, err := s.Store.ListRoots(ctx)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	out := make([]RootSummary, 0, len(roots))
	for _, r := range roots {
		out = append(out, RootSummary{
			Path:          r.CanonicalPath,
			AddedAtMs:     r.AddedAtMs,
			LastIndexedMs: r.LastIndexedMs,
			FileCount:     r.FileCount,
			HeadingCount:  r.HeadingCount,
		})
	}
	return connect.NewResponse(&ListRootsResponse{Roots: out}), nil
}

// IndexRoot runs one indexing pass over path and reports what changed.
func (s *Service) IndexRoot(ctx context.Context, req *connect.Request[IndexRootRequest]) (*connect.Response[IndexRootResponse], error) {
	stats, err := s.Indexer.IndexRoot(ctx, req.Msg.Path)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&IndexRootResponse{
		Scanned: stats.Scanned, Updated: stats.Updated, Skipped: stats.Skipped,
		Removed: stats.Removed, HeadingsExtracted: stats.HeadingsExtracted, ElapsedMs: stats.ElapsedMs,
	}), nil
}

// GetIndexSnapshot builds the folder/file tree for an already-indexed root.
func (s *Service) GetIndexSnapshot(ctx context.Context, req *connect.Request[GetIndexSnapshotRequest]) (*connect.Response[GetIndexSnapshotResponse], error) {
	resp, _, err := s.buildIndexSnapshot(ctx, req.Msg.Path)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(resp), nil
}

// fileNameFromRelative is file_name_from_relative in util.rs/commands.rs:
// the last path component of a root-relative, slash-separated path.
func fileNameFromRelative(relativePath string) string {
	return path.Base(relativePath)
}

// folderFromRelative is folder_from_relative: everything before the last
// slash, or "" for a file directly under the root.
func folderFromRelative(relativePath string) string {
	idx := strings.LastIndex(relativePath, "/")
	if idx < 0 {
		return ""
	}
	return relativePath[:idx]
}

// ensureFolderWithAncestors inserts folderPath and every ancestor of it into
// folders if missing, ported from commands.rs's ensure_folder_with_ancestors.
func ensureFolderWithAncestors(folders map[string]*FolderEntry, folderPath string) {
	current := folderPath
	for {
		if _, ok := folders[current]; !ok {
			var parentPath string
			name := "Root"
			depth := 0
			if current != "" {
				depth = strings.Count(current, "/") + 1
				if idx := strings.LastIndex(current, "/"); idx >= 0 {
					parentPath = current[:idx]
					name = current[idx+1:]
				} else {
					name = current
				}
			}
			folders[current] = &FolderEntry{Path: current, Name: name, ParentPath: parentPath, Depth: depth}
		}
		if current == "" {
			return
		}
		if idx := strings.LastIndex(current, "/"); idx >= 0 {
			current = current[:idx]
		} else {
			current = ""
		}
	}
}

// buildIndexSnapshot resolves path's root and walks its tracked files to
// build the folder tree and file list get_index_snapshot reports. Grounded
// on commands.rs's get_index_snapshot.
func (s *Service) buildIndexSnapshot(ctx context.Context, rawPath string) (*GetIndexSnapshotResponse, int64, error) {
	rootID, canonical, err := s.resolveRootID(ctx, rawPath)
	if err != nil {
		return nil, 0, err
	}

	var indexedAtMs int64
	roots, err := s.Store.ListRoots(ctx)
	if err != nil {
		return nil, 0, err
	}
	for _, r := range roots {
		if r.ID == rootID {
			indexedAtMs = r.LastIndexedMs
			break
		}
	}

	allFiles, err := s.Store.AllFiles(ctx)
	if err != nil {
		return nil, 0, err
	}

	folders := make(map[string]*FolderEntry)
	ensureFolderWithAncestors(folders, "")

	files := make([]IndexedFile, 0)
	rootFiles := make([]store.File, 0)
	for _, f := range allFiles {
		if f.RootID != rootID {
			continue
		}
		rootFiles = append(rootFiles, f)
	}
	sort.Slice(rootFiles, func(i, j int) bool { return rootFiles[i].RelativePath < rootFiles[j].RelativePath })

	for _, f := range rootFiles {
		folderPath := folderFromRelative(f.RelativePath)
		ensureFolderWithAncestors(folders, folderPath)

		current := folderPath
		for {
			if entry, ok := folders[current]; ok {
				entry.FileCount++
			}
			if current == "" {
				break
			}
			if idx := strings.LastIndex(current, "/"); idx >= 0 {
				current = current[:idx]
			} else {
				current = ""
			}
		}

		files = append(files, IndexedFile{
			ID:           f.ID,
			FileName:     fileNameFromRelative(f.RelativePath),
			RelativePath: f.RelativePath,
			FolderPath:   folderPath,
			ModifiedMs:   f.ModifiedMs,
			HeadingCount: f.HeadingCount,
		})
	}

	folderValues := make([]FolderEntry, 0, len(folders))
	for _, entry := range folders {
		folderValues = append(folderValues, *entry)
	}
	sort.Slice(folderValues, func(i, j int) bool {
		if folderValues[i].Depth != folderValues[j].Depth {
			return folderValues[i].Depth < folderValues[j].Depth
		}
		return folderValues[i].Path < folderValues[j].Path
	})

	return &GetIndexSnapshotResponse{
		RootPath:    canonical,
		IndexedAtMs: indexedAtMs,
		Folders:     folderValues,
		Files:       files,
	}, rootID, nil
}
