package capture

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

// citationStyleScore ranks a paragraph style as a citation-block candidate:
// an F8-branded citation/cite style wins outright, a plain "citation" or
// "cite" style scores next, a "quote" style is a weak fallback, and the
// builtin "Normal" style is actively penalized.
func citationStyleScore(styleID, styleName string) int {
	combined := strings.ToLower(styleID + " " + styleName)
	hasF8 := strings.Contains(combined, "f8")
	hasCitation := strings.Contains(combined, "citation")
	hasCite := strings.Contains(combined, "cite")
	hasQuote := strings.Contains(combined, "quote")

	switch {
	case hasF8 && (hasCite || hasCitation):
		return 600
	case hasCitation:
		return 520
	case hasCite:
		return 430
	case hasQuote:
		return 280
	case strings.EqualFold(strings.TrimSpace(styleName), "normal"):
		return -100
	default:
		return 0
	}
}

// resolveCitationParagraphStyleID scans a target styles.xml for the best
// citation-block paragraph style: the highest-scoring style wins, falling
// back to any style literally named/id'd "quote" or "intense quote".
func resolveCitationParagraphStyleID(stylesXML []byte) (string, bool) {
	dec := xml.NewDecoder(bytes.NewReader(stylesXML))

	bestScore := 0
	bestID := ""
	quoteID := ""

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "style" {
			continue
		}
		styleType := xmlAttr(se, "type")
		if !strings.EqualFold(styleType, "paragraph") {
			continue
		}
		styleID := strings.TrimSpace(xmlAttr(se, "styleId"))
		if styleID == "" {
			continue
		}

		styleName := ""
		depth := 1
		for depth > 0 {
			t, err := dec.Token()
			if err != nil {
				break
			}
			switch e := t.(type) {
			case xml.StartElement:
				if e.Name.Local == "style" {
					depth++
				}
				if depth == 2 && e.Name.Local == "name" {
					styleName = strings.TrimSpace(xmlAttr(e, "val"))
				}
			case xml.EndElement:
				if e.Name.Local == "style" {
					depth--
				}
			}
		}

		score := citationStyleScore(styleID, styleName)
		if score > 0 && score > bestScore {
			bestScore = score
			bestID = styleID
		}

		lowerID := strings.ToLower(styleID)
		lowerName := strings.ToLower(styleName)
		if quoteID == "" && (lowerID == "quote" || lowerName == "quote" || lowerName == "intense quote") {
			quoteID = styleID
		}
	}

	if bestID != "" {
		return bestID, true
	}
	if quoteID != "" {
		return quoteID, true
	}
	return "", false
}

// applyCitationStylePlaceholders substitutes the resolved citation style id
// (or "Quote" if none was resolved) into every occurrence of the
// __BF_CITATION_STYLE__ placeholder.
func applyCitationStylePlaceholders(paragraphXML []string, citationStyleID string) []string {
	if citationStyleID == "" {
		citationStyleID = "Quote"
	}
	escaped := EscapeAttr(citationStyleID)
	out := make([]string, len(paragraphXML))
	for i, paragraph := range paragraphXML {
		out[i] = strings.ReplaceAll(paragraph, citationStylePlaceholder, escaped)
	}
	return out
}
