package lexical

import "testing"

func newTestIndex() *Index {
	ix := New()
	h1 := 1
	o1 := 1
	ix.Replace([]Doc{
		{Kind: "file", RootID: 1, FileID: 1, FileName: "report.docx", RelativePath: "report.docx"},
		{Kind: "heading", RootID: 1, FileID: 1, FileName: "report.docx", RelativePath: "report.docx",
			HeadingLevel: &h1, HeadingOrder: &o1, HeadingText: "Quarterly Revenue Summary"},
		{Kind: "chunk", RootID: 1, FileID: 1, FileName: "report.docx", RelativePath: "report.docx",
			HeadingText: "Quarterly Revenue Summary", ChunkText: "Revenue grew substantially across every region this quarter."},
		{Kind: "author", RootID: 1, FileID: 1, FileName: "report.docx", RelativePath: "report.docx",
			AuthorText: "Smith, J. (2020). Annual report series.", HeadingOrder: &o1},
	})
	return ix
}

func TestSearchWordTier(t *testing.T) {
	ix := newTestIndex()
	hits := ix.Search("revenue", nil, 10, false)
	if len(hits) == 0 {
		t.Fatal("expected at least one hit for 'revenue'")
	}
}

func TestSearchFileNameOnlyRestriction(t *testing.T) {
	ix := newTestIndex()
	hits := ix.Search("report", nil, 10, true)
	for _, h := range hits {
		if h.Kind != "file" {
			t.Fatalf("file_name_only search returned non-file kind %q", h.Kind)
		}
	}
}

func TestSearchRootFilterExcludesOtherRoots(t *testing.T) {
	ix := newTestIndex()
	other := int64(99)
	hits := ix.Search("revenue", &other, 10, false)
	if len(hits) != 0 {
		t.Fatalf("expected no hits for unrelated root, got %d", len(hits))
	}
}

func TestFetchDepthClamp(t *testing.T) {
	if d := FetchDepth(5); d != minFetchFloor {
		t.Errorf("expected floor %d, got %d", minFetchFloor, d)
	}
	if d := FetchDepth(1000); d != maxFetchLimit {
		t.Errorf("expected ceiling %d, got %d", maxFetchLimit, d)
	}
}

func TestNgramsForQueryShortVsLong(t *testing.T) {
	short := ngramsForQuery("ab cd")
	if len(short) != 1 || short[0] != "ab cd" {
		t.Fatalf("expected literal short query passthrough, got %v", short)
	}
	long := ngramsForQuery("revenue summary")
	if len(long) == 0 {
		t.Fatal("expected ngrams for a longer query")
	}
}
