package indexer

import (
	"context"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hsn0918/docindex/internal/chunking"
	"github.com/hsn0918/docindex/internal/docx"
)

// parsedFile is one file's worth of extracted metadata, ready for the
// per-file transactional write. Mirrors commands.rs's ParsedIndexCandidate.
type parsedFile struct {
	candidate candidate
	headings  []parsedHeading
	authors   []authorCandidate
	chunks    []chunking.Chunk
}

type parsedHeading struct {
	order int
	level int
	text  string
}

// suggestedParseChunkSize mirrors util.rs's suggested_parse_chunk_size: half
// the available parallelism, clamped to [2, 12], used here as the parallel
// parse phase's concurrency limit rather than a batch size, since Go's
// errgroup does not need rayon's chunked par_iter shape to bound fan-out.
func suggestedParseChunkSize() int {
	n := runtime.GOMAXPROCS(0) / 2
	if n < 2 {
		n = 2
	}
	if n > 12 {
		n = 12
	}
	return n
}

// parseOneCandidate opens and parses one .docx file, extracting its
// headings, probable author lines, and chunks. A file that fails to parse
// yields a zero-value parsedFile (empty headings/authors/chunks) rather
// than failing the whole run, matching parse_docx_paragraphs's
// unwrap_or_default fallback in the original.
func parseOneCandidate(c candidate) parsedFile {
	f, err := os.Open(c.absolutePath)
	if err != nil {
		return parsedFile{candidate: c}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return parsedFile{candidate: c}
	}

	paragraphs, _, err := docx.ParseParagraphs(f, info.Size())
	if err != nil {
		return parsedFile{candidate: c}
	}

	var headings []parsedHeading
	for _, p := range paragraphs {
		if p.HeadingLevel == nil {
			continue
		}
		headings = append(headings, parsedHeading{order: p.Order, level: *p.HeadingLevel, text: p.Text})
	}

	return parsedFile{
		candidate: c,
		headings:  headings,
		authors:   extractAuthorCandidates(paragraphs),
		chunks:    chunking.BuildChunks(paragraphs),
	}
}

// parseCandidatesConcurrently parses every candidate, bounded to
// suggestedParseChunkSize concurrent parses, preserving input order in the
// result so later phases can report progress deterministically.
func parseCandidatesConcurrently(ctx context.Context, candidates []candidate) ([]parsedFile, error) {
	results := make([]parsedFile, len(candidates))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(suggestedParseChunkSize())

	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			results[i] = parseOneCandidate(c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
