package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hsn0918/docindex/internal/author"
	"github.com/hsn0918/docindex/internal/direrr"
	"github.com/hsn0918/docindex/internal/textnorm"
)

// ParseParagraphs opens a .docx zip package from ra and returns its ordered
// paragraphs plus the parsed style map. word/document.xml is required;
// word/styles.xml is optional (an empty StyleMap is returned if absent).
func ParseParagraphs(ra io.ReaderAt, size int64) ([]Paragraph, StyleMap, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", direrr.ErrNotDocx, err)
	}

	docBytes, ok := readZipPart(zr, "word/document.xml")
	if !ok {
		return nil, nil, direrr.ErrMissingDocumentXML
	}

	styles := StyleMap{}
	if stylesBytes, ok := readZipPart(zr, "word/styles.xml"); ok {
		styles, err = ParseStylesXML(stylesBytes)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: styles.xml: %v", direrr.ErrXMLParse, err)
		}
	}

	paras, err := ParseDocumentXML(docBytes, styles)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: document.xml: %v", direrr.ErrXMLParse, err)
	}
	return paras, styles, nil
}

func readZipPart(zr *zip.Reader, name string) ([]byte, bool) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, false
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, false
		}
		return data, true
	}
	return nil, false
}

// ParseStylesXML builds a StyleMap from word/styles.xml bytes.
func ParseStylesXML(data []byte) (StyleMap, error) {
	var doc wStyles
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	out := make(StyleMap, len(doc.Styles))
	for _, s := range doc.Styles {
		out[s.StyleID] = StyleDef{
			ID:      s.StyleID,
			Name:    s.Name.Val,
			BasedOn: s.BasedOn.Val,
			Next:    s.Next.Val,
			Link:    s.Link.Val,
		}
	}
	return out, nil
}

// headingStyleDigit extracts a trailing heading level from a style id/name,
// trying "h{n}" first, then the digit suffix of "...heading{n}".
func headingStyleDigit(styleID, styleName string) (int, bool) {
	lowerID := strings.ToLower(styleID)
	if strings.HasPrefix(lowerID, "h") {
		if n, ok := trailingDigits(lowerID[1:]); ok {
			return n, true
		}
	}
	lowerName := strings.ToLower(styleName)
	if idx := strings.Index(lowerName, "heading"); idx >= 0 {
		rest := lowerName[idx+len("heading"):]
		if n, ok := trailingDigits(rest); ok {
			return n, true
		}
	}
	if idx := strings.Index(lowerID, "heading"); idx >= 0 {
		rest := lowerID[idx+len("heading"):]
		if n, ok := trailingDigits(rest); ok {
			return n, true
		}
	}
	return 0, false
}

func trailingDigits(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func clampLevel(n int) int {
	if n < 1 {
		return 1
	}
	if n > 9 {
		return 9
	}
	return n
}

// ParseDocumentXML walks all <w:p> elements in word/document.xml and builds
// the ordered paragraph slice, resolving heading levels/style labels against
// styles and clearing heading levels on author/citation-like or F8-cite
// paragraphs.
func ParseDocumentXML(data []byte, styles StyleMap) ([]Paragraph, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var out []Paragraph
	order := 0

	for {
		startOffset := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "p" {
			continue
		}
		order++
		p, endOffset, err := decodeParagraph(dec, se)
		if err != nil {
			return nil, err
		}
		p.Order = order
		p.ByteStart = int(startOffset)
		p.ByteEnd = int(endOffset)
		if p.ByteEnd <= len(data) && p.ByteStart >= 0 && p.ByteStart <= p.ByteEnd {
			p.RawXML = append([]byte(nil), data[p.ByteStart:p.ByteEnd]...)
		}
		resolveHeadingAndStyle(&p, styles)
		out = append(out, p)
	}
	return out, nil
}

// decodeParagraph consumes tokens until the matching </w:p>, accumulating
// text and paragraph-property state, and returns the byte offset just past
// the closing tag.
func decodeParagraph(dec *xml.Decoder, start xml.StartElement) (Paragraph, int64, error) {
	var p Paragraph
	var text strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return p, 0, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				depth++
			case "pStyle":
				p.StyleID = attrVal(t)
			case "outlineLvl":
				if v := attrVal(t); v != "" {
					if n, err := strconv.Atoi(v); err == nil {
						lvl := clampLevel(n + 1)
						p.HeadingLevel = &lvl
					}
				}
			case "tab":
				text.WriteByte('\t')
			case "br", "cr":
				text.WriteByte('\n')
			}
		case xml.EndElement:
			if t.Name.Local == "p" {
				depth--
			}
		case xml.CharData:
			text.Write(t)
		}
	}
	p.Text = text.String()
	return p, dec.InputOffset(), nil
}

func attrVal(se xml.StartElement) string {
	for _, a := range se.Attr {
		if a.Name.Local == "val" {
			return a.Value
		}
	}
	return ""
}

func resolveHeadingAndStyle(p *Paragraph, styles StyleMap) {
	if p.HeadingLevel == nil && p.StyleID != "" {
		if def, ok := styles[p.StyleID]; ok {
			if n, ok := headingStyleDigit(def.ID, def.Name); ok {
				lvl := clampLevel(n)
				p.HeadingLevel = &lvl
			}
			p.StyleLabel = fmt.Sprintf("%s (%s)", def.Name, def.ID)
		} else {
			if n, ok := headingStyleDigit(p.StyleID, ""); ok {
				lvl := clampLevel(n)
				p.HeadingLevel = &lvl
			}
			p.StyleLabel = fmt.Sprintf("%s (%s)", p.StyleID, p.StyleID)
		}
	} else if p.StyleID != "" {
		if def, ok := styles[p.StyleID]; ok {
			p.StyleLabel = fmt.Sprintf("%s (%s)", def.Name, def.ID)
		}
	}

	normalizedLabel := textnorm.Normalize(p.StyleLabel)
	p.IsF8Cite = strings.Contains(normalizedLabel, "f8 cite") || strings.Contains(normalizedLabel, "f8cite")

	normalizedText := textnorm.Normalize(p.Text)
	looksLikeAuthor := author.Looks(p.Text, normalizedText)
	if looksLikeAuthor || p.IsF8Cite {
		p.HeadingLevel = nil
	}
}

// ParseRelationshipsXML builds the relationship id -> definition map from
// word/_rels/document.xml.rels.
func ParseRelationshipsXML(data []byte) (map[string]RelationshipDef, error) {
	var doc wRelationships
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	out := make(map[string]RelationshipDef, len(doc.Relationships))
	for _, r := range doc.Relationships {
		out[r.ID] = RelationshipDef{ID: r.ID, Type: r.Type, Target: r.Target, Mode: r.Mode}
	}
	return out, nil
}

// RelationshipDef is one <Relationship> entry from a .rels part.
type RelationshipDef struct {
	ID     string
	Type   string
	Target string
	Mode   string
}
