package indexer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hsn0918/docindex/internal/store"
)

// CanonicalizeRoot resolves path to an absolute, symlink-free directory,
// exported so command handlers (internal/transport) can canonicalize a root
// path the same way Run does before looking it up by path.
func CanonicalizeRoot(path string) (string, error) {
	return canonicalizeRoot(path)
}

// canonicalizeRoot resolves path to an absolute, symlink-free directory,
// the Go equivalent of util.rs's canonicalize_folder.
func canonicalizeRoot(path string) (string, error) {
	resolved, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("indexer: could not resolve %q: %w", path, err)
	}
	resolved, err = filepath.EvalSymlinks(resolved)
	if err != nil {
		return "", fmt.Errorf("indexer: could not access folder %q: %w", path, err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", fmt.Errorf("indexer: could not access folder %q: %w", path, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("indexer: path is not a folder: %s", path)
	}
	return resolved, nil
}

// isVisibleName reports whether a file or directory name should be walked,
// the Go equivalent of util.rs's is_visible_entry: anything dotfile-like is
// skipped, root-relative hidden directories included.
func isVisibleName(name string) bool {
	return !strings.HasPrefix(name, ".")
}

func isDocxName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".docx")
}

// relativeSlashPath turns an absolute path under root into a root-relative
// path using forward slashes, regardless of host OS separator.
func relativeSlashPath(root, absolute string) (string, error) {
	rel, err := filepath.Rel(root, absolute)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// discoverAndClassify walks root, skipping hidden entries, and splits every
// .docx file it finds into "unchanged" (recorded in scanned/skipped) or a
// parse candidate, comparing against existing: a file whose modified time
// and size match and whose stored hash is non-empty is unchanged; otherwise
// a content hash is computed and the file is unchanged only if it equals
// the stored hash. Grounded on index_root's WalkDir loop.
func discoverAndClassify(
	root string,
	existing map[string]store.ExistingFileMeta,
	sink EventSink,
	startedAt int64,
	nowMs func() int64,
	lastEmit *int64,
) (scanned int, skipped int, candidates []candidate, seenRelativePaths map[string]struct{}, err error) {
	seenRelativePaths = make(map[string]struct{})

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil // best effort, matches the original's filter_entry skip-on-error
		}
		if path != root && !isVisibleName(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !isDocxName(d.Name()) {
			return nil
		}

		scanned++
		relPath, relErr := relativeSlashPath(root, path)
		if relErr != nil {
			return relErr
		}
		seenRelativePaths[relPath] = struct{}{}

		info, statErr := d.Info()
		if statErr != nil {
			return fmt.Errorf("indexer: could not read metadata for %q: %w", path, statErr)
		}
		modifiedMs := info.ModTime().UnixMilli()
		size := info.Size()

		if prior, ok := existing[relPath]; ok {
			if prior.ModifiedMs == modifiedMs && prior.Size == size && prior.FileHash != "" {
				skipped++
			} else {
				hash, hashErr := fastFileHash(path)
				if hashErr != nil {
					return fmt.Errorf("indexer: could not hash %q: %w", path, hashErr)
				}
				if prior.FileHash == hash {
					skipped++
				} else {
					candidates = append(candidates, candidate{
						relativePath: relPath,
						absolutePath: path,
						modifiedMs:   modifiedMs,
						size:         size,
						fileHash:     hash,
					})
				}
			}
		} else {
			hash, hashErr := fastFileHash(path)
			if hashErr != nil {
				return fmt.Errorf("indexer: could not hash %q: %w", path, hashErr)
			}
			candidates = append(candidates, candidate{
				relativePath: relPath,
				absolutePath: path,
				modifiedMs:   modifiedMs,
				size:         size,
				fileHash:     hash,
			})
		}

		emitProgress(sink, startedAt, nowMs, lastEmit, Progress{
			RootPath:    root,
			Phase:       "discovering",
			Discovered:  scanned,
			Changed:     len(candidates),
			Skipped:     skipped,
			CurrentFile: relPath,
		}, false)
		return nil
	})
	if walkErr != nil {
		return 0, 0, nil, nil, walkErr
	}
	return scanned, skipped, candidates, seenRelativePaths, nil
}
