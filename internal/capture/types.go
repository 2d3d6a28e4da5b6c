// Package capture implements the OOXML capture mutator: extracting a styled
// section from a source .docx, merging its style and relationship
// dependencies into a target capture document, and splicing the section's
// paragraph XML into the target at a computed offset. Grounded on
// original_source/packages/core/src/docx_capture.rs, over archive/zip and
// encoding/xml (stdlib; no OOXML/zip-manipulation third-party library exists
// anywhere in the retrieval pack — the same justification as internal/docx).
package capture

// StyledSection is a run of paragraph XML lifted from a source document,
// ready for splicing into a capture target.
type StyledSection struct {
	ParagraphXML    []string
	StyleIDs        map[string]struct{}
	RelationshipIDs map[string]struct{}
	UsedSourceXML   bool
}

// SourceStyleDefinition is one <w:style> element from a source styles.xml,
// kept alongside its basedOn/next/link dependency ids so a requested style
// can be closed transitively before merging.
type SourceStyleDefinition struct {
	XML          string
	Dependencies []string
}

// CaptureTarget summarizes one target relative path and how many capture
// entries have been recorded against it.
type CaptureTarget struct {
	RelativePath string
	CaptureCount int64
}

// CaptureHeadingPreview is one heading found in a capture target document.
type CaptureHeadingPreview struct {
	Order int
	Level int
	Text  string
}

// CaptureTargetPreview describes the current state of one capture target
// file: whether it exists yet and the headings it contains.
type CaptureTargetPreview struct {
	RelativePath string
	AbsolutePath string
	Exists       bool
	HeadingCount int
	Headings     []CaptureHeadingPreview
}

// InsertResult is returned by InsertCapture: the splice destination, a
// human-facing marker derived from the capture entry's row id, and the
// normalized target relative path actually used.
type InsertResult struct {
	CapturePath        string
	Marker             string
	TargetRelativePath string
}
