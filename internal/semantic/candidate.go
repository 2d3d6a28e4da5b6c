// Package semantic is the dense-vector retrieval tier: candidate
// composition, batched embedding, ANN search, and stale-fingerprint
// rebuild coordination. Grounded on
// original_source/packages/core/src/semantic.rs, with the original's local
// tokenizer+ONNX session replaced by a call to internal/clients/embedding
// against a remote embedding service (see DESIGN.md) and the original's
// LanceDB table replaced by internal/vectorindex's pgvector column.
package semantic

import (
	"context"
	"sort"
	"strings"

	"github.com/hsn0918/docindex/internal/store"
	"github.com/hsn0918/docindex/internal/textnorm"
)

const (
	// MaxCandidateDocuments mirrors spec 4.9's chunk-candidate query cap.
	MaxCandidateDocuments = 2_000_000
	// TruncateCodepoints mirrors spec 4.9's composed-text truncation.
	TruncateCodepoints = 720
)

// Candidate is one item queued for embedding: a chunk, or (fallback, when no
// chunks exist yet) a bare file identity.
type Candidate struct {
	RootID       int64
	Kind         string // "file" | "heading" | "author"
	FileID       int64
	FileName     string
	RelativePath string
	AbsolutePath string
	HeadingLevel *int
	HeadingText  *string
	HeadingOrder *int
	Text         string
}

func composeChunkText(headingText, authorText, chunkText, relativePath, fileName string) string {
	var sb strings.Builder
	sb.WriteString("heading: ")
	sb.WriteString(headingText)
	sb.WriteString("\nauthor: ")
	sb.WriteString(authorText)
	sb.WriteString("\nchunk: ")
	sb.WriteString(chunkText)
	sb.WriteString("\npath: ")
	sb.WriteString(relativePath)
	sb.WriteString("\nfile: ")
	sb.WriteString(fileName)
	return textnorm.TruncateRunes(strings.TrimSpace(sb.String()), TruncateCodepoints)
}

func composeFileIdentityText(fileName, relativePath string) string {
	text := "file: " + fileName + "\npath: " + relativePath
	return textnorm.TruncateRunes(strings.TrimSpace(text), TruncateCodepoints)
}

// LoadCandidates queries chunks (up to MaxCandidateDocuments) and composes
// their embedding text; when the corpus has no chunk rows yet (a root
// indexed before chunking landed content), it falls back to bare file
// identity ordered by modified_ms desc, id desc.
func LoadCandidates(ctx context.Context, st *store.Store) ([]Candidate, error) {
	chunks, err := st.AllChunks(ctx)
	if err != nil {
		return nil, err
	}

	var out []Candidate
	for _, c := range chunks {
		if len(out) >= MaxCandidateDocuments {
			break
		}
		trimmedChunk := strings.TrimSpace(c.ChunkText)
		if trimmedChunk == "" {
			continue
		}
		kind := "file"
		if c.AuthorText != "" {
			kind = "author"
		} else if c.HeadingText != "" {
			kind = "heading"
		}
		out = append(out, Candidate{
			RootID:       c.RootID,
			Kind:         kind,
			FileID:       c.FileID,
			FileName:     c.FileName,
			RelativePath: c.RelativePath,
			AbsolutePath: c.AbsolutePath,
			HeadingLevel: c.HeadingLevel,
			HeadingText:  nonEmptyPtr(c.HeadingText),
			HeadingOrder: c.HeadingOrder,
			Text:         composeChunkText(c.HeadingText, c.AuthorText, trimmedChunk, c.RelativePath, c.FileName),
		})
	}
	if len(out) > 0 {
		return out, nil
	}

	files, err := st.AllFiles(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(files, func(i, j int) bool {
		if files[i].ModifiedMs != files[j].ModifiedMs {
			return files[i].ModifiedMs > files[j].ModifiedMs
		}
		return files[i].ID > files[j].ID
	})
	for _, f := range files {
		if len(out) >= MaxCandidateDocuments {
			break
		}
		name := fileNameFromRelative(f.RelativePath)
		out = append(out, Candidate{
			RootID:       f.RootID,
			Kind:         "file",
			FileID:       f.ID,
			FileName:     name,
			RelativePath: f.RelativePath,
			Text:         composeFileIdentityText(name, f.RelativePath),
		})
	}
	return out, nil
}

func nonEmptyPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func fileNameFromRelative(relativePath string) string {
	if i := strings.LastIndexByte(relativePath, '/'); i >= 0 {
		return relativePath[i+1:]
	}
	return relativePath
}
