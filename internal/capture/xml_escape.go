package capture

import (
	"fmt"
	"strings"
)

const citationStylePlaceholder = "__BF_CITATION_STYLE__"

// EscapeText escapes the three characters unsafe in XML text content.
func EscapeText(value string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(value)
}

// EscapeAttr escapes text content plus the two quote characters, for use
// inside a double- or single-quoted XML attribute value.
func EscapeAttr(value string) string {
	r := strings.NewReplacer(`"`, "&quot;", "'", "&apos;")
	return r.Replace(EscapeText(value))
}

// ParagraphXMLPlain renders one plain-text paragraph, or a self-closed
// empty paragraph for empty text.
func ParagraphXMLPlain(text string) string {
	if text == "" {
		return "<w:p/>"
	}
	return fmt.Sprintf(`<w:p><w:r><w:t xml:space="preserve">%s</w:t></w:r></w:p>`, EscapeText(text))
}

// ParagraphXMLBold renders one bold-run paragraph.
func ParagraphXMLBold(text string) string {
	return fmt.Sprintf(`<w:p><w:r><w:rPr><w:b/></w:rPr><w:t xml:space="preserve">%s</w:t></w:r></w:p>`, EscapeText(text))
}

// ParagraphXMLHeading renders one heading paragraph styled "Heading{level}".
func ParagraphXMLHeading(level int, text string) string {
	styleID := fmt.Sprintf("Heading%d", level)
	return fmt.Sprintf(`<w:p><w:pPr><w:pStyle w:val="%s"/></w:pPr><w:r><w:t xml:space="preserve">%s</w:t></w:r></w:p>`,
		EscapeAttr(styleID), EscapeText(text))
}

// FallbackStyledSection builds a plain-paragraph-per-line section when
// extraction from the source document fails or was never attempted.
func FallbackStyledSection(content string) StyledSection {
	lines := strings.Split(content, "\n")
	paragraphXML := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		paragraphXML = append(paragraphXML, ParagraphXMLPlain(line))
	}
	if len(paragraphXML) == 0 {
		paragraphXML = append(paragraphXML, "<w:p/>")
	}
	return StyledSection{
		ParagraphXML:    paragraphXML,
		StyleIDs:        map[string]struct{}{},
		RelationshipIDs: map[string]struct{}{},
		UsedSourceXML:   false,
	}
}
