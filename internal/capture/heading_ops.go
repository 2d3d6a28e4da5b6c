package capture

import (
	"context"
	"fmt"
	"os"

	"github.com/hsn0918/docindex/internal/direrr"
	"github.com/hsn0918/docindex/internal/docx"
	"github.com/hsn0918/docindex/internal/headingrange"
)

// AppendCaptureToDocx splices section into capturePath, creating or
// repairing the target package as needed, merging any style/relationship
// dependencies the section carries from sourcePath, and resolving the
// citation-style placeholder and insertion offset before rewriting the zip.
func AppendCaptureToDocx(ctx context.Context, capturePath, sourcePath string, headingLevel, selectedTargetHeadingOrder *int, section StyledSection, backup BackupFunc) error {
	if err := EnsureValidCaptureDocx(capturePath); err != nil {
		return err
	}

	targetDocumentXML, ok, err := ReadDocxPart(capturePath, "word/document.xml")
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: missing word/document.xml in %q after initialization", direrr.ErrMissingDocumentXML, capturePath)
	}

	targetStylesXML, ok, err := ReadDocxPart(capturePath, "word/styles.xml")
	if err != nil {
		return err
	}
	if !ok {
		targetStylesXML = []byte(defaultStylesXML)
	}

	targetRelsXML, ok, err := ReadDocxPart(capturePath, "word/_rels/document.xml.rels")
	if err != nil {
		return err
	}
	if !ok {
		targetRelsXML = []byte(defaultRelsXML)
	}

	sectionParagraphXML := append([]string(nil), section.ParagraphXML...)
	destinationParagraphs, _ := parseDocxParagraphsAt(capturePath)

	if section.UsedSourceXML {
		if len(section.StyleIDs) > 0 {
			if sourceStylesXML, ok, _ := ReadDocxPart(sourcePath, "word/styles.xml"); ok {
				targetStylesXML = MergeMissingStyles(targetStylesXML, sourceStylesXML, section.StyleIDs)
			}
		}
		if len(section.RelationshipIDs) > 0 {
			if sourceRelsXML, ok, _ := ReadDocxPart(sourcePath, "word/_rels/document.xml.rels"); ok {
				merged, idRemap := MergeRelationships(targetRelsXML, sourceRelsXML, section.RelationshipIDs)
				targetRelsXML = merged
				sectionParagraphXML = RemapRelationshipIDs(sectionParagraphXML, idRemap)
			}
		}
	}

	citationStyleID, _ := resolveCitationParagraphStyleID(targetStylesXML)
	sectionParagraphXML = applyCitationStylePlaceholders(sectionParagraphXML, citationStyleID)

	var fragment string
	if !documentHasBodyContent(targetDocumentXML) {
		fragment += ParagraphXMLBold("Block File Captures")
	}
	for _, paragraph := range sectionParagraphXML {
		fragment += paragraph
	}
	fragment += "<w:p/>"

	insertAfterOrder := resolveInsertAfterOrder(destinationParagraphs, selectedTargetHeadingOrder, headingLevel)

	updatedDocumentXML, err := insertFragmentIntoDocumentXML(targetDocumentXML, fragment, insertAfterOrder)
	if err != nil {
		return err
	}

	return RewriteWithParts(ctx, capturePath, map[string][]byte{
		"word/document.xml":            updatedDocumentXML,
		"word/styles.xml":              targetStylesXML,
		"word/_rels/document.xml.rels": targetRelsXML,
	}, backup)
}

func parseDocxParagraphsAt(path string) ([]docx.Paragraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	paragraphs, _, err := docx.ParseParagraphs(f, info.Size())
	return paragraphs, err
}

// DeleteHeading excises the byte range of the heading at headingOrder from
// absolutePath's word/document.xml and rewrites the package.
func DeleteHeading(ctx context.Context, absolutePath string, headingOrder int, backup BackupFunc) error {
	if _, err := os.Stat(absolutePath); err != nil {
		return fmt.Errorf("capture: target capture file does not exist: %s", absolutePath)
	}
	if err := EnsureValidCaptureDocx(absolutePath); err != nil {
		return err
	}

	paragraphs, err := parseDocxParagraphsAt(absolutePath)
	if err != nil {
		return fmt.Errorf("%w: %v", direrr.ErrXMLParse, err)
	}
	ranges := headingrange.Build(paragraphs)
	target, ok := headingrange.FindByOrder(ranges, headingOrder)
	if !ok {
		return fmt.Errorf("%w: heading order %d not found in target document", direrr.ErrHeadingNotFound, headingOrder)
	}

	documentXML, ok, err := ReadDocxPart(absolutePath, "word/document.xml")
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: missing word/document.xml in %q", direrr.ErrMissingDocumentXML, absolutePath)
	}

	if target.StartIndex >= len(paragraphs) || target.EndIndex == 0 || target.EndIndex > len(paragraphs) {
		return fmt.Errorf("%w: heading range out of bounds in destination document", direrr.ErrHeadingOutOfBounds)
	}
	start := paragraphs[target.StartIndex].ByteStart
	end := paragraphs[target.EndIndex-1].ByteEnd
	if start >= end || end > len(documentXML) {
		return fmt.Errorf("%w: could not resolve heading XML range in destination document", direrr.ErrHeadingOutOfBounds)
	}

	updated := make([]byte, 0, len(documentXML)-(end-start))
	updated = append(updated, documentXML[:start]...)
	updated = append(updated, documentXML[end:]...)

	return RewriteWithParts(ctx, absolutePath, map[string][]byte{"word/document.xml": updated}, backup)
}

// MoveHeading relocates the heading at sourceHeadingOrder to just after
// targetHeadingOrder's range, rejecting moves into the source's own
// subtree.
func MoveHeading(ctx context.Context, absolutePath string, sourceHeadingOrder, targetHeadingOrder int, backup BackupFunc) error {
	if sourceHeadingOrder == targetHeadingOrder {
		return nil
	}
	if _, err := os.Stat(absolutePath); err != nil {
		return fmt.Errorf("capture: target capture file does not exist: %s", absolutePath)
	}
	if err := EnsureValidCaptureDocx(absolutePath); err != nil {
		return err
	}

	paragraphs, err := parseDocxParagraphsAt(absolutePath)
	if err != nil {
		return fmt.Errorf("%w: %v", direrr.ErrXMLParse, err)
	}
	ranges := headingrange.Build(paragraphs)
	sourceRange, ok := headingrange.FindByOrder(ranges, sourceHeadingOrder)
	if !ok {
		return fmt.Errorf("%w: source heading order %d not found in target document", direrr.ErrHeadingNotFound, sourceHeadingOrder)
	}
	targetRange, ok := headingrange.FindByOrder(ranges, targetHeadingOrder)
	if !ok {
		return fmt.Errorf("%w: target heading order %d not found in target document", direrr.ErrHeadingNotFound, targetHeadingOrder)
	}

	if targetRange.StartIndex >= sourceRange.StartIndex && targetRange.StartIndex < sourceRange.EndIndex {
		return fmt.Errorf("%w: cannot move a heading into its own subtree", direrr.ErrHeadingOutOfBounds)
	}

	documentXML, ok, err := ReadDocxPart(absolutePath, "word/document.xml")
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: missing word/document.xml in %q", direrr.ErrMissingDocumentXML, absolutePath)
	}

	if sourceRange.StartIndex >= len(paragraphs) || sourceRange.EndIndex == 0 || sourceRange.EndIndex > len(paragraphs) ||
		targetRange.StartIndex >= len(paragraphs) || targetRange.EndIndex == 0 || targetRange.EndIndex > len(paragraphs) {
		return fmt.Errorf("%w: heading range out of bounds in destination document", direrr.ErrHeadingOutOfBounds)
	}

	sourceStart := paragraphs[sourceRange.StartIndex].ByteStart
	sourceEnd := paragraphs[sourceRange.EndIndex-1].ByteEnd
	if sourceStart >= sourceEnd || sourceEnd > len(documentXML) {
		return fmt.Errorf("%w: could not resolve source heading XML range", direrr.ErrHeadingOutOfBounds)
	}

	movedFragment := string(documentXML[sourceStart:sourceEnd])
	withoutSource := make([]byte, 0, len(documentXML)-(sourceEnd-sourceStart))
	withoutSource = append(withoutSource, documentXML[:sourceStart]...)
	withoutSource = append(withoutSource, documentXML[sourceEnd:]...)

	sourceLen := sourceRange.EndIndex - sourceRange.StartIndex
	insertionParagraphCount := targetRange.EndIndex
	if sourceRange.StartIndex < targetRange.EndIndex {
		insertionParagraphCount -= sourceLen
		if insertionParagraphCount < 0 {
			insertionParagraphCount = 0
		}
	}

	insertionIndex, ok := insertionIndexAfterParagraphCount(withoutSource, insertionParagraphCount)
	if !ok {
		fallback, err := fallbackBodyInsertionIndex(withoutSource)
		if err != nil {
			return err
		}
		insertionIndex = fallback
	}

	updated := make([]byte, 0, len(withoutSource)+len(movedFragment))
	updated = append(updated, withoutSource[:insertionIndex]...)
	updated = append(updated, movedFragment...)
	updated = append(updated, withoutSource[insertionIndex:]...)

	return RewriteWithParts(ctx, absolutePath, map[string][]byte{"word/document.xml": updated}, backup)
}

// AddHeading synthesizes a heading paragraph at level and splices it via
// the normal insertion path.
func AddHeading(ctx context.Context, absolutePath string, level int, text string, selectedTargetHeadingOrder *int, backup BackupFunc) error {
	section := StyledSection{
		ParagraphXML:    []string{ParagraphXMLHeading(level, text)},
		StyleIDs:        map[string]struct{}{},
		RelationshipIDs: map[string]struct{}{},
		UsedSourceXML:   false,
	}
	return AppendCaptureToDocx(ctx, absolutePath, absolutePath, &level, selectedTargetHeadingOrder, section, backup)
}
