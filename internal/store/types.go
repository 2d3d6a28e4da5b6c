package store

// Root is a user-declared indexed folder.
type Root struct {
	ID             int64
	CanonicalPath  string
	AddedAtMs      int64
	LastIndexedMs  int64
}

// RootSummary adds file/heading counts for list_roots.
type RootSummary struct {
	Root
	FileCount    int64
	HeadingCount int64
}

// File is one tracked .docx under a root.
type File struct {
	ID            int64
	RootID        int64
	RelativePath  string
	ModifiedMs    int64
	Size          int64
	FileHash      string
	HeadingCount  int
}

// ExistingFileMeta is the subset of File needed by the indexer's
// change-detection comparison.
type ExistingFileMeta struct {
	ID         int64
	ModifiedMs int64
	Size       int64
	FileHash   string
}

// Heading is one extracted heading row.
type Heading struct {
	ID           int64
	FileID       int64
	HeadingOrder int
	Level        int
	Text         string
	Normalized   string
	FileName     string
	RelativePath string
}

// Author is one deduplicated author/citation line.
type Author struct {
	ID          int64
	FileID      int64
	AuthorOrder int
	Text        string
	Normalized  string
}

// Chunk is one indexing unit persisted to the metadata store.
type Chunk struct {
	ID           string // "{root}:{file}:{chunk_order}"
	RootID       int64
	FileID       int64
	ChunkOrder   int
	HeadingOrder *int
	HeadingLevel *int
	HeadingText  string
	AuthorText   string
	ChunkText    string
	FileName     string
	RelativePath string
	AbsolutePath string
}

// Capture is a logical capture-entry row; the target .docx on disk remains
// the source of truth for its content.
type Capture struct {
	ID                  int64
	RootID              int64
	SourcePath          string
	SectionTitle        string
	TargetRelativePath  string
	HeadingLevel        *int
	Content             string
	CreatedAtMs         int64
}

// DefaultCaptureTarget is the capture target used when none is specified.
const DefaultCaptureTarget = "BlockFile-Captures.docx"

// LayoutVersion is the current persisted-layout schema version; a mismatch
// against the stored manifest triggers a full layout reset.
const LayoutVersion = 2
