package capture

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/hsn0918/docindex/internal/docx"
	"github.com/hsn0918/docindex/internal/headingrange"
)

// bodyBounds locates the byte offsets just inside <w:body ...> and just
// before </w:body> in documentXML.
func bodyBounds(documentXML []byte) (openEnd, closeStart int, err error) {
	bodyOpen := bytes.Index(documentXML, []byte("<w:body"))
	if bodyOpen < 0 {
		return 0, 0, fmt.Errorf("capture: could not find <w:body> in destination document.xml")
	}
	gtOffset := bytes.IndexByte(documentXML[bodyOpen:], '>')
	if gtOffset < 0 {
		return 0, 0, fmt.Errorf("capture: could not parse <w:body> opening tag")
	}
	bodyOpenEnd := bodyOpen + gtOffset + 1

	bodyClose := bytes.LastIndex(documentXML, []byte("</w:body>"))
	if bodyClose < 0 {
		return 0, 0, fmt.Errorf("capture: could not find </w:body> in destination document.xml")
	}
	return bodyOpenEnd, bodyClose, nil
}

// fallbackBodyInsertionIndex returns the byte offset just before the body's
// trailing <w:sectPr>, or the body close if none is present.
func fallbackBodyInsertionIndex(documentXML []byte) (int, error) {
	bodyOpenEnd, bodyClose, err := bodyBounds(documentXML)
	if err != nil {
		return 0, err
	}
	bodySlice := documentXML[bodyOpenEnd:bodyClose]
	if idx := bytes.LastIndex(bodySlice, []byte("<w:sectPr")); idx >= 0 {
		return bodyOpenEnd + idx, nil
	}
	return bodyClose, nil
}

// paragraphByteRanges returns the [start,end) byte range of every <w:p>
// element in documentXML, in document order.
func paragraphByteRanges(documentXML []byte) ([][2]int, error) {
	dec := xml.NewDecoder(bytes.NewReader(documentXML))
	var ranges [][2]int
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
		depth := 1
		for depth > 0 {
			t, err := dec.Token()
			if err != nil {
				return nil, err
			}
			switch e := t.(type) {
			case xml.StartElement:
				if e.Name.Local == "p" {
					depth++
				}
			case xml.EndElement:
				if e.Name.Local == "p" {
					depth--
				}
			}
		}
		endOffset := dec.InputOffset()
		ranges = append(ranges, [2]int{int(startOffset), int(endOffset)})
	}
	return ranges, nil
}

// insertionIndexAfterParagraphCount returns the byte offset just past the
// Nth paragraph (1-based paragraphCount), or the body's opening offset if
// paragraphCount is zero. ok is false if paragraphCount can't be resolved.
func insertionIndexAfterParagraphCount(documentXML []byte, paragraphCount int) (int, bool) {
	if paragraphCount <= 0 {
		bodyOpenEnd, _, err := bodyBounds(documentXML)
		if err != nil {
			return 0, false
		}
		return bodyOpenEnd, true
	}

	ranges, err := paragraphByteRanges(documentXML)
	if err != nil {
		return 0, false
	}
	idx := paragraphCount - 1
	if idx < 0 || idx >= len(ranges) {
		return 0, false
	}
	end := ranges[idx][1]
	if end > len(documentXML) {
		return 0, false
	}
	return end, true
}

// insertFragmentIntoDocumentXML splices fragment into documentXML just past
// the afterParagraphCount-th paragraph, falling back to just before the
// body's trailing sectPr (or the body close) when that can't be resolved.
func insertFragmentIntoDocumentXML(documentXML []byte, fragment string, afterParagraphCount *int) ([]byte, error) {
	fallbackIndex, err := fallbackBodyInsertionIndex(documentXML)
	if err != nil {
		return nil, err
	}

	insertionIndex := fallbackIndex
	if afterParagraphCount != nil {
		if idx, ok := insertionIndexAfterParagraphCount(documentXML, *afterParagraphCount); ok {
			insertionIndex = idx
		}
	}

	out := make([]byte, 0, len(documentXML)+len(fragment))
	out = append(out, documentXML[:insertionIndex]...)
	out = append(out, fragment...)
	out = append(out, documentXML[insertionIndex:]...)
	return out, nil
}

// documentHasBodyContent reports whether <w:body> has any direct child
// element other than <w:sectPr>.
func documentHasBodyContent(documentXML []byte) bool {
	bodyOpenEnd, bodyClose, err := bodyBounds(documentXML)
	if err != nil || bodyOpenEnd >= bodyClose {
		return bytes.Contains(documentXML, []byte("<w:p")) || bytes.Contains(documentXML, []byte("<w:tbl"))
	}

	dec := xml.NewDecoder(bytes.NewReader(documentXML[bodyOpenEnd:bodyClose]))
	depth := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return bytes.Contains(documentXML, []byte("<w:p")) || bytes.Contains(documentXML, []byte("<w:tbl"))
		}
		switch e := tok.(type) {
		case xml.StartElement:
			if depth == 0 && e.Name.Local != "sectPr" {
				return true
			}
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return false
}

// resolveInsertAfterOrder computes the 1-based paragraph count to splice a
// new section after, given the destination's parsed paragraphs and the
// caller's (optional) selected heading and incoming heading level. Grounded
// on docx_parse.rs's resolve_insert_after_order.
func resolveInsertAfterOrder(paragraphs []docx.Paragraph, selectedOrder, incomingLevel *int) *int {
	ranges := headingrange.Build(paragraphs)
	if len(ranges) == 0 {
		return nil
	}

	endOrder := func(r headingrange.Range) *int {
		idx := r.EndIndex - 1
		if idx < 0 || idx >= len(paragraphs) {
			return nil
		}
		order := paragraphs[idx].Order
		return &order
	}

	if selectedOrder != nil {
		if selectedRange, ok := headingrange.FindByOrder(ranges, *selectedOrder); ok {
			if incomingLevel != nil && *incomingLevel < selectedRange.Level {
				var ancestor *headingrange.Range
				for i := range ranges {
					candidate := ranges[i]
					if candidate.StartIndex >= selectedRange.StartIndex {
						break
					}
					if candidate.Level < *incomingLevel && candidate.EndIndex > selectedRange.StartIndex {
						ancestor = &ranges[i]
					}
				}
				if ancestor != nil {
					return endOrder(*ancestor)
				}

				for i := len(ranges) - 1; i >= 0; i-- {
					if ranges[i].Level <= *incomingLevel {
						return endOrder(ranges[i])
					}
				}
			}
			return endOrder(selectedRange)
		}
	}

	if incomingLevel != nil {
		for i := len(ranges) - 1; i >= 0; i-- {
			if ranges[i].Level == *incomingLevel {
				return endOrder(ranges[i])
			}
		}
		for i := len(ranges) - 1; i >= 0; i-- {
			if ranges[i].Level < *incomingLevel {
				return endOrder(ranges[i])
			}
		}
	}

	return endOrder(ranges[len(ranges)-1])
}
