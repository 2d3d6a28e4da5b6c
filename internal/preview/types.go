// Package preview renders heading sections and structural summaries of a
// .docx file as sanitized HTML/plain-text fragments, for the capture UI's
// side panel. Grounded on original_source/packages/core/src/preview.rs.
package preview

// FileHeading is one top-level or nested heading found in a file, with its
// full section text flattened for one-click capture.
type FileHeading struct {
	ID       int
	Order    int
	Level    int
	Text     string
	CopyText string
}

// TaggedBlock is a run of consecutive F8-cite paragraphs, merged into one
// citation block.
type TaggedBlock struct {
	Order      int
	StyleLabel string
	Text       string
}
