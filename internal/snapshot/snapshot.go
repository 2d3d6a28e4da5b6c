package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/hsn0918/docindex/internal/indexlog"
	"github.com/hsn0918/docindex/internal/store"
)

// metaBundle is the full relational state pushed before a destructive
// layout reset: every root, file, chunk and capture row, plus the semantic
// index's rebuild fingerprint (the "vector" tier's own recovery state --
// the embeddings themselves are cheaply reconstructed by a semantic
// rebuild, so only the fingerprint that decides whether one is due needs
// saving).
type metaBundle struct {
	TakenAtMs    int64                   `json:"taken_at_ms"`
	Reason       string                  `json:"reason"`
	Roots        []store.RootSummary     `json:"roots"`
	Files        []store.File            `json:"files"`
	Chunks       []store.Chunk           `json:"chunks"`
	Captures     []store.Capture         `json:"captures"`
	SemanticMeta store.SemanticIndexMeta `json:"semantic_meta"`
}

// SnapshotBeforeReset dumps the full metadata+vector-fingerprint state to
// MinIO under "snapshots/{taken_at_ms}/meta.json" before a layout-version
// mismatch destroys and recreates the schema. Best-effort: a failure here
// is logged, not propagated, since a blocked snapshot must never block the
// reset it is meant to insure against.
func SnapshotBeforeReset(ctx context.Context, objectStore ObjectStore, st *store.Store, reason string, nowMs int64) {
	bundle, err := buildMetaBundle(ctx, st, reason, nowMs)
	if err != nil {
		indexlog.Get().Warn("snapshot: failed to collect pre-reset metadata", zap.Error(err))
		return
	}

	payload, err := sonic.Marshal(bundle)
	if err != nil {
		indexlog.Get().Warn("snapshot: failed to marshal pre-reset metadata", zap.Error(err))
		return
	}

	key := fmt.Sprintf("snapshots/%d/meta.json", nowMs)
	if err := objectStore.UploadObject(ctx, key, bytes.NewReader(payload), int64(len(payload)), "application/json"); err != nil {
		indexlog.Get().Warn("snapshot: failed to upload pre-reset metadata", zap.Error(err))
	}
}

func buildMetaBundle(ctx context.Context, st *store.Store, reason string, nowMs int64) (metaBundle, error) {
	roots, err := st.ListRoots(ctx)
	if err != nil {
		return metaBundle{}, err
	}
	files, err := st.AllFiles(ctx)
	if err != nil {
		return metaBundle{}, err
	}
	chunks, err := st.AllChunks(ctx)
	if err != nil {
		return metaBundle{}, err
	}

	var captures []store.Capture
	for _, r := range roots {
		rootCaptures, err := st.CapturesByRoot(ctx, r.ID)
		if err != nil {
			return metaBundle{}, err
		}
		captures = append(captures, rootCaptures...)
	}

	semanticMeta, err := st.GetSemanticIndexMeta(ctx)
	if err != nil {
		return metaBundle{}, err
	}

	return metaBundle{
		TakenAtMs:    nowMs,
		Reason:       reason,
		Roots:        roots,
		Files:        files,
		Chunks:       chunks,
		Captures:     captures,
		SemanticMeta: semanticMeta,
	}, nil
}

// BackupCaptureTarget pushes the capture document's previous bytes to MinIO
// under a versioned key, before internal/capture rewrites it in place. A
// failure is returned to the caller (unlike SnapshotBeforeReset): a capture
// write the operator can't later reconstruct is the one backup that must
// actually block on success.
func BackupCaptureTarget(ctx context.Context, objectStore ObjectStore, rootID int64, targetRelativePath string, previousBytes io.Reader, size int64, nowMs int64) error {
	key := fmt.Sprintf("captures/%d/%s/%d", rootID, targetRelativePath, nowMs)
	if err := objectStore.UploadObject(ctx, key, previousBytes, size, "application/vnd.openxmlformats-officedocument.wordprocessingml.document"); err != nil {
		return fmt.Errorf("snapshot: backup capture target %q: %w", targetRelativePath, err)
	}
	return nil
}
