// Package queryengine is the retrieval pipeline: query cleanup, mode
// dispatch (lexical/semantic/hybrid), reciprocal-rank fusion, and the
// two-tier query cache. Grounded on
// original_source/packages/core/src/query_engine.rs.
package queryengine

import (
	"fmt"

	"github.com/hsn0918/docindex/internal/lexical"
	"github.com/hsn0918/docindex/internal/semantic"
)

// Hit is one fused or per-tier search result, the common shape returned to
// transport handlers regardless of mode.
type Hit struct {
	Source       string // "lexical" | "semantic" | "hybrid"
	Kind         string // "file" | "heading" | "author"
	FileID       int64
	FileName     string
	RelativePath string
	AbsolutePath string
	HeadingLevel *int
	HeadingText  string
	HeadingOrder *int
	Score        float64
}

func fromLexical(h lexical.Hit) Hit {
	return Hit{
		Source:       "lexical",
		Kind:         h.Kind,
		FileID:       h.FileID,
		FileName:     h.FileName,
		RelativePath: h.RelativePath,
		AbsolutePath: h.AbsolutePath,
		HeadingLevel: h.HeadingLevel,
		HeadingText:  h.HeadingText,
		HeadingOrder: h.HeadingOrder,
		Score:        h.Score,
	}
}

func fromSemantic(h semantic.Hit) Hit {
	headingText := ""
	if h.HeadingText != nil {
		headingText = *h.HeadingText
	}
	return Hit{
		Source:       "semantic",
		Kind:         h.Kind,
		FileID:       h.FileID,
		FileName:     h.FileName,
		RelativePath: h.RelativePath,
		AbsolutePath: h.AbsolutePath,
		HeadingLevel: h.HeadingLevel,
		HeadingText:  headingText,
		HeadingOrder: h.HeadingOrder,
		Score:        h.Score,
	}
}

func dedupeKey(h Hit) string {
	order := 0
	if h.HeadingOrder != nil {
		order = *h.HeadingOrder
	}
	return fmt.Sprintf("%s:%d:%d:%s:%s", h.Kind, h.FileID, order, h.HeadingText, h.RelativePath)
}
