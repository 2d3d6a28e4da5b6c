// Package headingrange computes [start,end) paragraph-index ranges per
// heading, honoring level nesting and skipping paragraphs that look like
// misclassified author/citation lines.
package headingrange

import (
	"github.com/hsn0918/docindex/internal/author"
	"github.com/hsn0918/docindex/internal/docx"
)

// Range is one heading's half-open paragraph-index range, with start/end
// expressed as 0-based indices into the paragraph slice that produced it.
type Range struct {
	Order      int
	Level      int
	StartIndex int
	EndIndex   int
}

// Build collects every heading paragraph in paras and computes its range.
// For a heading at index i with level L, the range ends at the next heading
// paragraph whose level <= L; if none is found, the range runs to the end of
// paras. Later headings whose text looks like an author/citation line are
// not treated as boundaries.
func Build(paras []docx.Paragraph) []Range {
	var headingIdx []int
	for i, p := range paras {
		if p.HeadingLevel != nil {
			headingIdx = append(headingIdx, i)
		}
	}

	ranges := make([]Range, 0, len(headingIdx))
	for hi, idx := range headingIdx {
		level := *paras[idx].HeadingLevel
		end := len(paras)
		for _, idx2 := range headingIdx[hi+1:] {
			if author.LooksRaw(paras[idx2].Text) {
				continue
			}
			if *paras[idx2].HeadingLevel <= level {
				end = idx2
				break
			}
		}
		ranges = append(ranges, Range{
			Order:      paras[idx].Order,
			Level:      level,
			StartIndex: idx,
			EndIndex:   end,
		})
	}
	return ranges
}

// FindByOrder returns the range whose Order matches heading order, and
// whether it was found.
func FindByOrder(ranges []Range, order int) (Range, bool) {
	for _, r := range ranges {
		if r.Order == order {
			return r, true
		}
	}
	return Range{}, false
}
