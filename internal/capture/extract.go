package capture

import (
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"strings"

	"github.com/hsn0918/docindex/internal/docx"
	"github.com/hsn0918/docindex/internal/headingrange"
)

const fragmentNamespaces = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`

// ExtractStyledSection lifts the paragraph range under headingOrder out of
// sourcePath's word/document.xml, along with the style and relationship ids
// its paragraphs reference. It falls back to a plain per-line rendering of
// fallbackContent whenever the source can't be parsed or the heading can't
// be resolved, mirroring docx_capture.rs's defensive fallback chain.
func ExtractStyledSection(sourcePath string, headingOrder *int, fallbackContent string) StyledSection {
	if headingOrder == nil {
		return FallbackStyledSection(fallbackContent)
	}

	f, err := os.Open(sourcePath)
	if err != nil {
		return FallbackStyledSection(fallbackContent)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return FallbackStyledSection(fallbackContent)
	}

	paragraphs, _, err := docx.ParseParagraphs(f, info.Size())
	if err != nil {
		return FallbackStyledSection(fallbackContent)
	}

	ranges := headingrange.Build(paragraphs)
	r, ok := headingrange.FindByOrder(ranges, *headingOrder)
	if !ok || r.StartIndex >= r.EndIndex {
		return FallbackStyledSection(fallbackContent)
	}

	var paragraphXML []string
	for i := r.StartIndex; i < r.EndIndex && i < len(paragraphs); i++ {
		raw := paragraphs[i].RawXML
		if len(bytes.TrimSpace(raw)) == 0 {
			continue
		}
		paragraphXML = append(paragraphXML, string(raw))
	}
	if len(paragraphXML) == 0 {
		return FallbackStyledSection(fallbackContent)
	}

	styleIDs, relationshipIDs := scanDependencies(paragraphXML)

	return StyledSection{
		ParagraphXML:    paragraphXML,
		StyleIDs:        styleIDs,
		RelationshipIDs: relationshipIDs,
		UsedSourceXML:   true,
	}
}

// scanDependencies wraps the extracted paragraph fragments in a namespaced
// root and walks every element looking for pStyle/rStyle style references
// and hyperlink/blip relationship references.
func scanDependencies(paragraphXML []string) (styleIDs, relationshipIDs map[string]struct{}) {
	styleIDs = map[string]struct{}{}
	relationshipIDs = map[string]struct{}{}

	wrapped := "<w:root " + fragmentNamespaces + ">" + strings.Join(paragraphXML, "") + "</w:root>"
	dec := xml.NewDecoder(strings.NewReader(wrapped))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return styleIDs, relationshipIDs
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "pStyle", "rStyle":
			if v := xmlAttr(se, "val"); v != "" {
				styleIDs[v] = struct{}{}
			}
		case "hyperlink":
			if v := xmlAttr(se, "id"); v != "" {
				relationshipIDs[v] = struct{}{}
			}
		case "blip":
			if v := xmlAttr(se, "embed"); v != "" {
				relationshipIDs[v] = struct{}{}
			}
			if v := xmlAttr(se, "link"); v != "" {
				relationshipIDs[v] = struct{}{}
			}
		}
	}
	return styleIDs, relationshipIDs
}

func xmlAttr(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
