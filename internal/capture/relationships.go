package capture

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/hsn0918/docindex/internal/docx"
)

// nextRelationshipID allocates the lowest unused "rId{N}" above every
// numeric rId already present in existingIDs.
func nextRelationshipID(existingIDs map[string]struct{}) string {
	var maxNumeric int64
	for id := range existingIDs {
		raw, ok := strings.CutPrefix(id, "rId")
		if !ok {
			continue
		}
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > maxNumeric {
			maxNumeric = n
		}
	}
	for next := maxNumeric + 1; ; next++ {
		candidate := fmt.Sprintf("rId%d", next)
		if _, taken := existingIDs[candidate]; !taken {
			return candidate
		}
	}
}

// sameRelationshipDef compares type/target/mode only; the Id field is the
// map key and varies independently of the definition's identity.
func sameRelationshipDef(a, b docx.RelationshipDef) bool {
	return a.Type == b.Type && a.Target == b.Target && a.Mode == b.Mode
}

func relationshipXML(id string, def docx.RelationshipDef) string {
	xmlStr := fmt.Sprintf(`<Relationship Id="%s" Type="%s" Target="%s"`,
		EscapeAttr(id), EscapeAttr(def.Type), EscapeAttr(def.Target))
	if def.Mode != "" {
		xmlStr += fmt.Sprintf(` TargetMode="%s"`, EscapeAttr(def.Mode))
	}
	return xmlStr + "/>"
}

// MergeRelationships reconciles requestedRelationshipIDs (drawn from the
// source document) into targetRelationshipsXML: a requested id that is free
// in the target is appended under that same id; when the id is taken, an
// identical existing entry is kept as-is, an equivalent entry under a
// different id is reused, and otherwise the relationship is appended under
// a freshly allocated rId. The returned map
// carries old-id -> new-id for every relationship that was reassigned so
// callers can fix up r:id/r:embed/r:link references.
func MergeRelationships(targetRelationshipsXML, sourceRelationshipsXML []byte, requestedRelationshipIDs map[string]struct{}) ([]byte, map[string]string) {
	if len(requestedRelationshipIDs) == 0 {
		return targetRelationshipsXML, nil
	}

	sourceRelationships, err := docx.ParseRelationshipsXML(sourceRelationshipsXML)
	if err != nil || len(sourceRelationships) == 0 {
		return targetRelationshipsXML, nil
	}

	targetRelationships, err := docx.ParseRelationshipsXML(targetRelationshipsXML)
	if err != nil {
		targetRelationships = map[string]docx.RelationshipDef{}
	}

	existingIDs := make(map[string]struct{}, len(targetRelationships))
	for id := range targetRelationships {
		existingIDs[id] = struct{}{}
	}

	idRemap := map[string]string{}
	var appendedXML []string

	for requestedID := range requestedRelationshipIDs {
		sourceDef, ok := sourceRelationships[requestedID]
		if !ok {
			continue
		}

		if existingDef, ok := targetRelationships[requestedID]; ok {
			if sameRelationshipDef(existingDef, sourceDef) {
				continue
			}
		} else {
			targetRelationships[requestedID] = sourceDef
			existingIDs[requestedID] = struct{}{}
			appendedXML = append(appendedXML, relationshipXML(requestedID, sourceDef))
			continue
		}

		matched := ""
		for id, def := range targetRelationships {
			if sameRelationshipDef(def, sourceDef) {
				matched = id
				break
			}
		}
		if matched != "" {
			idRemap[requestedID] = matched
			continue
		}

		newID := nextRelationshipID(existingIDs)
		existingIDs[newID] = struct{}{}
		targetRelationships[newID] = sourceDef
		idRemap[requestedID] = newID
		appendedXML = append(appendedXML, relationshipXML(newID, sourceDef))
	}

	if len(appendedXML) == 0 {
		return targetRelationshipsXML, idRemap
	}

	closeIdx := bytes.LastIndex(targetRelationshipsXML, []byte("</Relationships>"))
	if closeIdx < 0 {
		var buf bytes.Buffer
		buf.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
		for _, snippet := range appendedXML {
			buf.WriteString(snippet)
		}
		buf.WriteString("</Relationships>")
		return buf.Bytes(), idRemap
	}

	var buf bytes.Buffer
	buf.Write(targetRelationshipsXML[:closeIdx])
	for _, snippet := range appendedXML {
		buf.WriteString(snippet)
	}
	buf.Write(targetRelationshipsXML[closeIdx:])
	return buf.Bytes(), idRemap
}

// RemapRelationshipIDs rewrites r:id|r:embed|r:link="oldId" references (in
// either quote style) across paragraphXML according to idRemap.
func RemapRelationshipIDs(paragraphXML []string, idRemap map[string]string) []string {
	if len(idRemap) == 0 {
		return paragraphXML
	}
	out := make([]string, len(paragraphXML))
	for i, paragraph := range paragraphXML {
		updated := paragraph
		for from, to := range idRemap {
			for _, attr := range []string{"r:id", "r:embed", "r:link"} {
				updated = strings.ReplaceAll(updated, fmt.Sprintf(`%s="%s"`, attr, from), fmt.Sprintf(`%s="%s"`, attr, to))
				updated = strings.ReplaceAll(updated, fmt.Sprintf(`%s='%s'`, attr, from), fmt.Sprintf(`%s='%s'`, attr, to))
			}
		}
		out[i] = updated
	}
	return out
}
