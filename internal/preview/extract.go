package preview

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hsn0918/docindex/internal/direrr"
	"github.com/hsn0918/docindex/internal/docx"
	"github.com/hsn0918/docindex/internal/headingrange"
)

// readDocumentXML reads word/document.xml out of the .docx zip at path.
func readDocumentXML(path string) ([]byte, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", direrr.ErrNotDocx, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", direrr.ErrXMLParse, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%w: missing word/document.xml in %q", direrr.ErrNotDocx, path)
}

func parseDocxParagraphs(path string) ([]docx.Paragraph, error) {
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

// ExtractHeadingPreviewHTML renders the section starting at headingOrder as
// an HTML fragment, returning an empty string if the file has no heading at
// that order.
func ExtractHeadingPreviewHTML(filePath string, headingOrder int) (string, error) {
	paragraphs, err := parseDocxParagraphs(filePath)
	if err != nil {
		return "", err
	}

	ranges := headingrange.Build(paragraphs)
	targetRange, found := headingrange.FindByOrder(ranges, headingOrder)
	if !found {
		return "", nil
	}

	documentXML, err := readDocumentXML(filePath)
	if err != nil {
		return "", err
	}
	root, err := parseNodeTree(documentXML)
	if err != nil {
		return "", fmt.Errorf("%w: %v", direrr.ErrXMLParse, err)
	}

	var paragraphNodes []*node
	root.descendants(func(n *node) {
		if n.tag == "p" {
			paragraphNodes = append(paragraphNodes, n)
		}
	})

	start := targetRange.StartIndex
	end := targetRange.EndIndex
	if end > len(paragraphNodes) {
		end = len(paragraphNodes)
	}
	if end > len(paragraphs) {
		end = len(paragraphs)
	}
	if start >= end {
		return "", nil
	}

	var html strings.Builder
	for index := start; index < end; index++ {
		paragraphMeta := paragraphs[index]
		html.WriteString(renderPreviewParagraph(paragraphNodes[index], paragraphMeta.HeadingLevel, paragraphMeta.Text))
	}
	return html.String(), nil
}

// ExtractPreviewContent builds the full structural summary of a file: every
// heading section's flattened copy text, and every run of consecutive
// F8-cite paragraphs merged into one tagged block.
func ExtractPreviewContent(filePath string) ([]FileHeading, []TaggedBlock, error) {
	paragraphs, err := parseDocxParagraphs(filePath)
	if err != nil {
		return nil, nil, err
	}

	ranges := headingrange.Build(paragraphs)
	headings := make([]FileHeading, 0, len(ranges))
	for _, r := range ranges {
		if r.StartIndex < 0 || r.StartIndex >= len(paragraphs) {
			continue
		}
		start := r.StartIndex
		end := r.EndIndex
		if end > len(paragraphs) {
			end = len(paragraphs)
		}
		lines := make([]string, 0, end-start)
		for _, p := range paragraphs[start:end] {
			lines = append(lines, p.Text)
		}
		headings = append(headings, FileHeading{
			ID:       paragraphs[start].Order,
			Order:    r.Order,
			Level:    r.Level,
			Text:     paragraphs[start].Text,
			CopyText: strings.Join(lines, "\n"),
		})
	}

	var blocks []TaggedBlock
	cursor := 0
	for cursor < len(paragraphs) {
		if !paragraphs[cursor].IsF8Cite {
			cursor++
			continue
		}

		startOrder := paragraphs[cursor].Order
		styleLabel := paragraphs[cursor].StyleLabel
		if styleLabel == "" {
			styleLabel = "F8 Cite"
		}

		lines := []string{paragraphs[cursor].Text}
		cursor++
		for cursor < len(paragraphs) && paragraphs[cursor].IsF8Cite {
			lines = append(lines, paragraphs[cursor].Text)
			cursor++
		}

		text := strings.Join(lines, "\n")
		if strings.TrimSpace(text) == "" {
			continue
		}

		blocks = append(blocks, TaggedBlock{
			Order:      startOrder,
			StyleLabel: styleLabel,
			Text:       text,
		})
	}

	return headings, blocks, nil
}
