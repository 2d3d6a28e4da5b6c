package indexer

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/hsn0918/docindex/internal/indexlog"
	"github.com/hsn0918/docindex/internal/lexical"
	"github.com/hsn0918/docindex/internal/semantic"
	"github.com/hsn0918/docindex/internal/store"
	"github.com/hsn0918/docindex/internal/textnorm"
)

// CacheInvalidator is the subset of the query engine's cache layers this
// package needs to flush once an index commit makes cached hits stale.
// Kept as an interface so indexer never imports internal/queryengine.
type CacheInvalidator interface {
	Invalidate()
}

// RedisInvalidator mirrors CacheInvalidator for the shared Redis tier,
// whose Invalidate takes a context and can fail.
type RedisInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Runner walks one root, persists everything that changed, and rebuilds the
// lexical and (asynchronously) semantic indexes afterward. Grounded on
// commands.rs's index_root.
type Runner struct {
	Store    *store.Store
	Lexical  *lexical.Index
	Semantic *semantic.Runtime
	Cache    CacheInvalidator
	Redis    RedisInvalidator
	// NowMs lets tests fake the clock; defaults to time.Now when nil.
	NowMs func() int64
}

func (r *Runner) nowMs() int64 {
	if r.NowMs != nil {
		return r.NowMs()
	}
	return time.Now().UnixMilli()
}

// IndexRoot runs one full indexing pass over rootPath, satisfying
// internal/benchmark's Indexer interface. Progress is dropped (sink is
// nil); callers that want progress events should use Run directly.
func (r *Runner) IndexRoot(ctx context.Context, rootPath string) (Stats, error) {
	return r.Run(ctx, rootPath, nil)
}

// Run is IndexRoot with an optional progress sink.
func (r *Runner) Run(ctx context.Context, rootPath string, sink EventSink) (Stats, error) {
	startedAt := r.nowMs()

	canonicalRoot, err := canonicalizeRoot(rootPath)
	if err != nil {
		return Stats{}, err
	}

	rootID, err := r.addOrGetRootID(ctx, canonicalRoot, startedAt)
	if err != nil {
		return Stats{}, err
	}

	existing, err := r.Store.GetExistingFiles(ctx, rootID)
	if err != nil {
		return Stats{}, fmt.Errorf("indexer: load existing files: %w", err)
	}

	lastEmit := int64(0)
	emitProgress(sink, startedAt, r.nowMs, &lastEmit, Progress{
		RootPath: canonicalRoot, Phase: "discovering",
	}, true)

	scanned, skipped, candidates, seenRelativePaths, err := discoverAndClassify(
		canonicalRoot, existing, sink, startedAt, r.nowMs, &lastEmit)
	if err != nil {
		return Stats{}, err
	}

	emitProgress(sink, startedAt, r.nowMs, &lastEmit, Progress{
		RootPath: canonicalRoot, Phase: "indexing",
		Discovered: scanned, Changed: len(candidates), Skipped: skipped,
	}, true)

	parsed, err := parseCandidatesConcurrently(ctx, candidates)
	if err != nil {
		return Stats{}, fmt.Errorf("indexer: parse candidates: %w", err)
	}

	updated := 0
	headingsExtracted := 0

	err = r.Store.WithTx(ctx, func(tx pgx.Tx) error {
		for _, pf := range parsed {
			fileName := path.Base(pf.candidate.relativePath)
			headingsExtracted += len(pf.headings)

			fileID, err := store.UpsertFile(ctx, tx, rootID, pf.candidate.relativePath,
				pf.candidate.modifiedMs, pf.candidate.size, pf.candidate.fileHash, len(pf.headings))
			if err != nil {
				return fmt.Errorf("upsert file %q: %w", pf.candidate.relativePath, err)
			}

			if err := store.DeleteFileContents(ctx, tx, fileID); err != nil {
				return fmt.Errorf("clear old contents for %q: %w", pf.candidate.relativePath, err)
			}

			headingRows := make([]store.Heading, 0, len(pf.headings))
			for _, h := range pf.headings {
				headingRows = append(headingRows, store.Heading{
					HeadingOrder: h.order,
					Level:        h.level,
					Text:         h.text,
					Normalized:   textnorm.Normalize(h.text),
					FileName:     fileName,
					RelativePath: pf.candidate.relativePath,
				})
			}
			if err := store.InsertHeadings(ctx, tx, fileID, headingRows); err != nil {
				return fmt.Errorf("insert headings for %q: %w", pf.candidate.relativePath, err)
			}

			authorRows := make([]store.Author, 0, len(pf.authors))
			for _, a := range pf.authors {
				authorRows = append(authorRows, store.Author{
					AuthorOrder: a.order,
					Text:        a.text,
					Normalized:  textnorm.Normalize(a.text),
				})
			}
			if err := store.InsertAuthors(ctx, tx, fileID, authorRows); err != nil {
				return fmt.Errorf("insert authors for %q: %w", pf.candidate.relativePath, err)
			}

			chunkRows := make([]store.Chunk, 0, len(pf.chunks))
			for _, c := range pf.chunks {
				chunkRows = append(chunkRows, store.Chunk{
					ID:           fmt.Sprintf("%d:%d:%d", rootID, fileID, c.ChunkOrder),
					RootID:       rootID,
					FileID:       fileID,
					ChunkOrder:   c.ChunkOrder,
					HeadingOrder: c.HeadingOrder,
					HeadingLevel: c.HeadingLevel,
					HeadingText:  c.HeadingText,
					AuthorText:   c.AuthorText,
					ChunkText:    c.ChunkText,
					FileName:     fileName,
					RelativePath: pf.candidate.relativePath,
					AbsolutePath: pf.candidate.absolutePath,
				})
			}
			if err := store.InsertChunks(ctx, tx, chunkRows); err != nil {
				return fmt.Errorf("insert chunks for %q: %w", pf.candidate.relativePath, err)
			}

			updated++
			emitProgress(sink, startedAt, r.nowMs, &lastEmit, Progress{
				RootPath: canonicalRoot, Phase: "indexing",
				Discovered: scanned, Changed: len(candidates), Processed: updated,
				Updated: updated, Skipped: skipped, CurrentFile: pf.candidate.relativePath,
			}, false)
		}
		return nil
	})
	if err != nil {
		return Stats{}, err
	}

	emitProgress(sink, startedAt, r.nowMs, &lastEmit, Progress{
		RootPath: canonicalRoot, Phase: "cleaning",
		Discovered: scanned, Changed: len(candidates), Processed: updated, Updated: updated, Skipped: skipped,
	}, true)

	removed, err := r.Store.DeleteFilesNotIn(ctx, rootID, collectKeepPaths(seenRelativePaths))
	if err != nil {
		return Stats{}, fmt.Errorf("indexer: delete stale files: %w", err)
	}

	finishedAt := r.nowMs()
	if err := r.Store.TouchRootIndexed(ctx, rootID, finishedAt); err != nil {
		return Stats{}, fmt.Errorf("indexer: touch root timestamp: %w", err)
	}

	if err := r.rebuildLexical(ctx); err != nil {
		return Stats{}, fmt.Errorf("indexer: rebuild lexical index: %w", err)
	}
	r.invalidateCaches(ctx)

	emitProgress(sink, startedAt, r.nowMs, &lastEmit, Progress{
		RootPath: canonicalRoot, Phase: "complete",
		Discovered: scanned, Changed: len(candidates), Processed: updated,
		Updated: updated, Skipped: skipped, Removed: int(removed),
	}, true)

	if r.Semantic != nil {
		go func() {
			bgCtx := context.Background()
			if err := r.Semantic.RebuildIfNeeded(bgCtx, true); err != nil {
				indexlog.Get().Warn("semantic rebuild after index failed",
					zap.String("root_path", canonicalRoot), zap.Error(err))
			}
		}()
	}

	return Stats{
		Scanned:           scanned,
		Updated:           updated,
		Skipped:           skipped,
		Removed:           int(removed),
		HeadingsExtracted: headingsExtracted,
		ElapsedMs:         finishedAt - startedAt,
	}, nil
}

// AddOrGetRootID registers canonicalRoot as a root if it isn't one already,
// returning its id either way. Exported for the add_root command handler
// (internal/transport), which needs the same add-or-reuse semantics Run
// applies at the start of every indexing pass.
func (r *Runner) AddOrGetRootID(ctx context.Context, canonicalRoot string, nowMs int64) (int64, error) {
	return r.addOrGetRootID(ctx, canonicalRoot, nowMs)
}

func (r *Runner) addOrGetRootID(ctx context.Context, canonicalRoot string, nowMs int64) (int64, error) {
	if id, ok, err := r.Store.GetRootID(ctx, canonicalRoot); err != nil {
		return 0, err
	} else if ok {
		return id, nil
	}
	return r.Store.AddRoot(ctx, canonicalRoot, nowMs)
}

func (r *Runner) rebuildLexical(ctx context.Context) error {
	if r.Lexical == nil {
		return nil
	}
	docs, err := lexical.BuildDocsFromStore(ctx, r.Store)
	if err != nil {
		return err
	}
	r.Lexical.Replace(docs)
	return nil
}

func (r *Runner) invalidateCaches(ctx context.Context) {
	if r.Cache != nil {
		r.Cache.Invalidate()
	}
	if r.Redis != nil {
		if err := r.Redis.Invalidate(ctx); err != nil {
			indexlog.Get().Warn("redis cache invalidation failed", zap.Error(err))
		}
	}
}

func collectKeepPaths(seen map[string]struct{}) []string {
	keep := make([]string, 0, len(seen))
	for relPath := range seen {
		keep = append(keep, relPath)
	}
	return keep
}

