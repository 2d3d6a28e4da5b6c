package chunking

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"
)

// ExportChunkMarkdown renders a chunk's heading (as a "#"-prefixed Markdown
// heading matching its level) plus its body text as Markdown, then parses
// the result with goldmark purely to validate it is well-formed before
// returning it. This is a supplemental export path — it does not feed back
// into indexing or search.
func ExportChunkMarkdown(c Chunk) (string, error) {
	var b strings.Builder
	if c.HeadingLevel != nil && c.HeadingText != "" {
		level := *c.HeadingLevel
		if level < 1 {
			level = 1
		}
		if level > 6 {
			level = 6
		}
		b.WriteString(strings.Repeat("#", level))
		b.WriteString(" ")
		b.WriteString(c.HeadingText)
		b.WriteString("\n\n")
	}
	if c.AuthorText != "" {
		b.WriteString("> ")
		b.WriteString(c.AuthorText)
		b.WriteString("\n\n")
	}
	b.WriteString(c.ChunkText)

	md := b.String()
	if err := validateMarkdown(md); err != nil {
		return "", fmt.Errorf("export chunk %d: %w", c.ChunkOrder, err)
	}
	return md, nil
}

func validateMarkdown(md string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("markdown parse panic: %v", r)
		}
	}()
	gm := goldmark.New()
	source := []byte(md)
	reader := text.NewReader(source)
	doc := gm.Parser().Parse(reader)
	if doc == nil {
		return fmt.Errorf("markdown parser returned no document")
	}
	return nil
}
