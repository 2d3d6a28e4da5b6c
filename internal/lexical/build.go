package lexical

import (
	"context"
	"path"

	"github.com/hsn0918/docindex/internal/store"
)

// fileNameFromRelative mirrors the original's util::file_name_from_relative:
// the last path segment of a relative path.
func fileNameFromRelative(relativePath string) string {
	return path.Base(relativePath)
}

// BuildDocsFromStore assembles the full corpus of file/heading/author/chunk
// documents from the metadata store, the Go equivalent of
// replace_all_documents_from_connection's four SQL scans.
func BuildDocsFromStore(ctx context.Context, st *store.Store) ([]Doc, error) {
	var docs []Doc

	files, err := st.AllFiles(ctx)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		docs = append(docs, Doc{
			Kind:         "file",
			RootID:       f.RootID,
			FileID:       f.ID,
			FileName:     fileNameFromRelative(f.RelativePath),
			RelativePath: f.RelativePath,
		})
	}

	headings, err := st.AllHeadingsJoined(ctx)
	if err != nil {
		return nil, err
	}
	for _, h := range headings {
		level := h.Level
		order := h.HeadingOrder
		docs = append(docs, Doc{
			Kind:         "heading",
			RootID:       h.RootID,
			FileID:       h.FileID,
			FileName:     fileNameFromRelative(h.RelativePath),
			RelativePath: h.RelativePath,
			HeadingLevel: &level,
			HeadingText:  h.Text,
			HeadingOrder: &order,
		})
	}

	authors, err := st.AllAuthorsJoined(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range authors {
		order := a.AuthorOrder
		docs = append(docs, Doc{
			Kind:         "author",
			RootID:       a.RootID,
			FileID:       a.FileID,
			FileName:     fileNameFromRelative(a.RelativePath),
			RelativePath: a.RelativePath,
			HeadingText:  a.Text,
			HeadingOrder: &order,
			AuthorText:   a.Text,
		})
	}

	chunks, err := st.AllChunks(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range chunks {
		docs = append(docs, Doc{
			Kind:         "chunk",
			RootID:       c.RootID,
			FileID:       c.FileID,
			FileName:     c.FileName,
			RelativePath: c.RelativePath,
			AbsolutePath: c.AbsolutePath,
			HeadingLevel: c.HeadingLevel,
			HeadingText:  c.HeadingText,
			HeadingOrder: c.HeadingOrder,
			AuthorText:   c.AuthorText,
			ChunkText:    c.ChunkText,
		})
	}

	return docs, nil
}
