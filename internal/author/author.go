// Package author implements the probable-author/citation-line heuristic
// used both to keep citation rows out of the heading hierarchy and to
// populate a section's author_text during chunking.
package author

import (
	"strings"

	"github.com/hsn0918/docindex/internal/textnorm"
	"github.com/hsn0918/docindex/internal/utils"
)

// citationMarkers are substrings whose presence, combined with enough commas
// or a year, marks a line as a probable author/citation row.
var citationMarkers = []string{
	"journal", "university", "postdoctoral", "vol ", "edition", "press",
	"retrieved", "archive",
}

// MaxPerFile caps how many distinct authors are kept per file (spec 4.0 data
// model: "Deduplicated by normalized text within a file; capped at 120 per
// file").
const MaxPerFile = 120

// Looks reports whether the given already-normalized line looks like a
// probable author/citation line:
//   - word count in [3, 90]
//   - contains a 4-digit year token in [1900, 2099]
//   - word count >= 5 AND (>=2 commas OR a citation marker OR "http"/"doi")
//
// raw is the pre-normalization text, needed only to test for commas (the
// normalizer strips punctuation).
func Looks(raw, normalized string) bool {
	words := strings.Fields(normalized)
	n := len(words)
	if n < 3 || n > 90 {
		return false
	}
	if !hasYear(words) {
		return false
	}
	if n < 5 {
		return false
	}
	if strings.Count(raw, ",") >= 2 {
		return true
	}
	for _, marker := range citationMarkers {
		if strings.Contains(normalized, marker) {
			return true
		}
	}
	return strings.Contains(normalized, "http") || strings.Contains(normalized, "doi")
}

func hasYear(words []string) bool {
	for _, w := range words {
		if len(w) != 4 {
			continue
		}
		year := 0
		ok := true
		for _, c := range w {
			if c < '0' || c > '9' {
				ok = false
				break
			}
			year = year*10 + int(c-'0')
		}
		if ok && year >= 1900 && year <= 2099 {
			return true
		}
	}
	return false
}

// LooksRaw normalizes raw first; convenience for callers that have not
// already normalized the line (the parser keeps both forms around, so most
// callers should prefer Looks).
func LooksRaw(raw string) bool {
	return Looks(raw, textnorm.Normalize(raw))
}

// Keywords extracts a small set of fallback keywords from an author/citation
// line for use as supplemental lexical fields. This is additive — it does
// not feed back into the Looks heuristic or any spec-mandated invariant.
func Keywords(raw string) []string {
	return utils.ExtractBasicKeywords(raw)
}
