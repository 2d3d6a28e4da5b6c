package preview

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hsn0918/docindex/internal/capture"
)

func buildSampleDocx(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Sample.docx")

	if err := capture.AddHeading(context.Background(), path, 1, "Overview", nil, nil); err != nil {
		t.Fatalf("adding first heading: %v", err)
	}
	if err := capture.AddHeading(context.Background(), path, 2, "Details", nil, nil); err != nil {
		t.Fatalf("adding second heading: %v", err)
	}
	return path
}

func TestExtractPreviewContentFindsHeadings(t *testing.T) {
	path := buildSampleDocx(t)

	headings, _, err := ExtractPreviewContent(path)
	if err != nil {
		t.Fatalf("ExtractPreviewContent: %v", err)
	}
	if len(headings) != 2 {
		t.Fatalf("expected 2 headings, got %d: %+v", len(headings), headings)
	}
	if headings[0].Text != "Overview" || headings[0].Level != 1 {
		t.Fatalf("unexpected first heading: %+v", headings[0])
	}
	if headings[1].Text != "Details" || headings[1].Level != 2 {
		t.Fatalf("unexpected second heading: %+v", headings[1])
	}
}

func TestExtractHeadingPreviewHTMLRendersParagraph(t *testing.T) {
	path := buildSampleDocx(t)

	headings, _, err := ExtractPreviewContent(path)
	if err != nil {
		t.Fatalf("ExtractPreviewContent: %v", err)
	}
	if len(headings) == 0 {
		t.Fatal("expected at least one heading to preview")
	}

	html, err := ExtractHeadingPreviewHTML(path, headings[0].Order)
	if err != nil {
		t.Fatalf("ExtractHeadingPreviewHTML: %v", err)
	}
	if !strings.Contains(html, "bf-preview-h1") {
		t.Fatalf("expected heading-1 paragraph class in output, got %q", html)
	}
	if !strings.Contains(html, "Overview") {
		t.Fatalf("expected heading text in rendered output, got %q", html)
	}
}

func TestExtractHeadingPreviewHTMLUnknownOrderIsEmpty(t *testing.T) {
	path := buildSampleDocx(t)

	html, err := ExtractHeadingPreviewHTML(path, 9999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != "" {
		t.Fatalf("expected empty html for unknown heading order, got %q", html)
	}
}

func TestHtmlEscapeAllFiveEntities(t *testing.T) {
	got := htmlEscape(`& < > " '`)
	want := `&amp; &lt; &gt; &quot; &#39;`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRunHighlightClassBucketing(t *testing.T) {
	xml := `<r><rPr><highlight val="darkYellow"/></rPr><t>hi</t></r>`
	root, err := parseNodeTree([]byte(xml))
	if err != nil {
		t.Fatalf("parseNodeTree: %v", err)
	}
	class, ok := runHighlightClass(root)
	if !ok || class != "yellow" {
		t.Fatalf("got (%q, %v), want (\"yellow\", true)", class, ok)
	}
}

func TestRunHasActiveUnderlineDefaultsTrueWithoutVal(t *testing.T) {
	xml := `<r><rPr><u/></rPr><t>hi</t></r>`
	root, err := parseNodeTree([]byte(xml))
	if err != nil {
		t.Fatalf("parseNodeTree: %v", err)
	}
	if !runHasActiveUnderline(root) {
		t.Fatal("expected underline without val to be active")
	}
}

func TestRunHasActiveUnderlineNoneIsFalse(t *testing.T) {
	xml := `<r><rPr><u val="none"/></rPr><t>hi</t></r>`
	root, err := parseNodeTree([]byte(xml))
	if err != nil {
		t.Fatalf("parseNodeTree: %v", err)
	}
	if runHasActiveUnderline(root) {
		t.Fatal("expected u val=none to be inactive")
	}
}

func TestRenderPreviewRunBoldClass(t *testing.T) {
	xml := `<r><rPr><b/></rPr><t>hello</t></r>`
	root, err := parseNodeTree([]byte(xml))
	if err != nil {
		t.Fatalf("parseNodeTree: %v", err)
	}
	got := renderPreviewRun(root)
	if !strings.Contains(got, "bf-run-bold") || !strings.Contains(got, "hello") {
		t.Fatalf("unexpected render: %q", got)
	}
}
