package capture

import (
	"bytes"
	"encoding/xml"
	"io"
)

// parseSourceStyleDefinitions walks a styles.xml part and returns each
// <w:style>, keyed by its styleId, alongside the exact XML bytes of that
// element and the style ids it transitively depends on via
// basedOn/next/link.
func parseSourceStyleDefinitions(stylesXML []byte) map[string]SourceStyleDefinition {
	out := make(map[string]SourceStyleDefinition)
	dec := xml.NewDecoder(bytes.NewReader(stylesXML))

	for {
		startOffset := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return out
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "style" {
			continue
		}

		styleID := xmlAttr(se, "styleId")
		var deps []string
		depth := 1
		for depth > 0 {
			t, err := dec.Token()
			if err != nil {
				return out
			}
			switch e := t.(type) {
			case xml.StartElement:
				if e.Name.Local == "style" {
					depth++
				}
				if depth == 2 && (e.Name.Local == "basedOn" || e.Name.Local == "next" || e.Name.Local == "link") {
					if v := xmlAttr(e, "val"); v != "" {
						deps = append(deps, v)
					}
				}
			case xml.EndElement:
				if e.Name.Local == "style" {
					depth--
				}
			}
		}
		endOffset := dec.InputOffset()

		if styleID == "" || endOffset > int64(len(stylesXML)) || startOffset >= endOffset {
			continue
		}
		out[styleID] = SourceStyleDefinition{
			XML:          string(stylesXML[startOffset:endOffset]),
			Dependencies: deps,
		}
	}
	return out
}

func parseStyleIDs(stylesXML []byte) map[string]struct{} {
	out := make(map[string]struct{})
	dec := xml.NewDecoder(bytes.NewReader(stylesXML))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return out
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "style" {
			continue
		}
		if id := xmlAttr(se, "styleId"); id != "" {
			out[id] = struct{}{}
		}
	}
	return out
}

// collectRequiredStyleIDs closes requestedIDs transitively over definitions'
// basedOn/next/link dependencies, returning them in dependency-first order
// so a later style never references one appended after it.
func collectRequiredStyleIDs(requestedIDs map[string]struct{}, definitions map[string]SourceStyleDefinition) []string {
	seen := map[string]struct{}{}
	var ordered []string

	var visit func(styleID string)
	visit = func(styleID string) {
		if _, ok := seen[styleID]; ok {
			return
		}
		seen[styleID] = struct{}{}
		def, ok := definitions[styleID]
		if !ok {
			return
		}
		for _, dep := range def.Dependencies {
			visit(dep)
		}
		ordered = append(ordered, styleID)
	}

	for styleID := range requestedIDs {
		visit(styleID)
	}
	return ordered
}

// MergeMissingStyles appends any style (and its transitive dependencies)
// referenced by requestedStyleIDs but absent from targetStylesXML, pulling
// the definitions from sourceStylesXML.
func MergeMissingStyles(targetStylesXML, sourceStylesXML []byte, requestedStyleIDs map[string]struct{}) []byte {
	if len(requestedStyleIDs) == 0 {
		return targetStylesXML
	}

	definitions := parseSourceStyleDefinitions(sourceStylesXML)
	if len(definitions) == 0 {
		return targetStylesXML
	}

	requiredIDs := collectRequiredStyleIDs(requestedStyleIDs, definitions)
	if len(requiredIDs) == 0 {
		return targetStylesXML
	}

	existingIDs := parseStyleIDs(targetStylesXML)
	var toAppend []string
	for _, styleID := range requiredIDs {
		if _, ok := existingIDs[styleID]; ok {
			continue
		}
		if def, ok := definitions[styleID]; ok {
			toAppend = append(toAppend, def.XML)
			existingIDs[styleID] = struct{}{}
		}
	}
	if len(toAppend) == 0 {
		return targetStylesXML
	}

	closeIdx := bytes.LastIndex(targetStylesXML, []byte("</w:styles>"))
	if closeIdx < 0 {
		var buf bytes.Buffer
		buf.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?><w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">`)
		for _, snippet := range toAppend {
			buf.WriteString(snippet)
		}
		buf.WriteString("</w:styles>")
		return buf.Bytes()
	}

	var buf bytes.Buffer
	buf.Write(targetStylesXML[:closeIdx])
	for _, snippet := range toAppend {
		buf.WriteString(snippet)
	}
	buf.Write(targetStylesXML[closeIdx:])
	return buf.Bytes()
}
