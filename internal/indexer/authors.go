package indexer

import (
	"github.com/hsn0918/docindex/internal/author"
	"github.com/hsn0918/docindex/internal/docx"
	"github.com/hsn0918/docindex/internal/textnorm"
)

// extractAuthorCandidates scans a file's paragraphs for probable author or
// citation lines, deduplicating by normalized text and capping at
// author.MaxPerFile. Grounded on util.rs's extract_author_candidates; lives
// here rather than in internal/author because internal/docx already
// imports internal/author to clear heading levels on author-like lines,
// and author candidates need the paragraph order docx.Paragraph carries.
func extractAuthorCandidates(paragraphs []docx.Paragraph) []authorCandidate {
	seen := make(map[string]struct{})
	var candidates []authorCandidate

	for _, p := range paragraphs {
		normalized := textnorm.Normalize(p.Text)
		if !author.Looks(p.Text, normalized) {
			continue
		}
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		candidates = append(candidates, authorCandidate{order: p.Order, text: p.Text})
		if len(candidates) >= author.MaxPerFile {
			break
		}
	}
	return candidates
}
