package preview

import (
	"strings"
)

// htmlEscape escapes the five characters unsafe in HTML text/attribute
// content. Grounded on docx_parse.rs's html_escape.
func htmlEscape(value string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	return r.Replace(value)
}

// pushEscapedTextWithBreaks appends text to target, escaped, turning every
// embedded newline into a <br/>.
func pushEscapedTextWithBreaks(target *strings.Builder, text string) {
	segments := strings.Split(text, "\n")
	for i, segment := range segments {
		if i > 0 {
			target.WriteString("<br/>")
		}
		target.WriteString(htmlEscape(segment))
	}
}

func runPropertiesNode(run *node) *node {
	return run.firstChild("rPr")
}

func runHasProperty(run *node, propertyTag string) bool {
	props := runPropertiesNode(run)
	if props == nil {
		return false
	}
	return props.firstChild(propertyTag) != nil
}

// runHasActiveUnderline reports whether run carries a <w:u> whose val isn't
// an explicit "none"/"false"/"0" (an absent val defaults to active).
func runHasActiveUnderline(run *node) bool {
	props := runPropertiesNode(run)
	if props == nil {
		return false
	}
	underline := props.firstChild("u")
	if underline == nil {
		return false
	}
	val, ok := underline.attr("val")
	if !ok {
		return true
	}
	lowered := strings.ToLower(val)
	return lowered != "none" && lowered != "false" && lowered != "0"
}

// runHighlightClass maps a <w:highlight w:val="..."/> to one of the preview
// renderer's fixed highlight color classes.
func runHighlightClass(run *node) (string, bool) {
	props := runPropertiesNode(run)
	if props == nil {
		return "", false
	}
	highlight := props.firstChild("highlight")
	if highlight == nil {
		return "", false
	}
	val, ok := highlight.attr("val")
	if !ok {
		return "", false
	}
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "yellow", "darkyellow":
		return "yellow", true
	case "green", "darkgreen":
		return "green", true
	case "cyan", "darkcyan", "turquoise":
		return "cyan", true
	case "magenta", "darkmagenta", "pink":
		return "magenta", true
	case "blue", "darkblue":
		return "blue", true
	case "gray", "grey", "lightgray", "darkgray", "gray25", "gray50":
		return "gray", true
	default:
		return "", false
	}
}

// renderPreviewRun renders one <w:r> as a classed <span>, or "" if it
// carries no visible text.
func renderPreviewRun(run *node) string {
	var body strings.Builder
	run.descendants(func(n *node) {
		switch n.tag {
		case "t":
			pushEscapedTextWithBreaks(&body, n.text)
		case "tab":
			body.WriteByte('\t')
		case "br", "cr":
			body.WriteString("<br/>")
		}
	})
	if body.Len() == 0 {
		return ""
	}

	classes := []string{"bf-run"}
	if runHasProperty(run, "b") {
		classes = append(classes, "bf-run-bold")
	}
	if runHasProperty(run, "i") {
		classes = append(classes, "bf-run-italic")
	}
	if runHasActiveUnderline(run) {
		classes = append(classes, "bf-run-underline")
	}
	if runHasProperty(run, "smallCaps") || runHasProperty(run, "caps") {
		classes = append(classes, "bf-run-smallcaps")
	}
	if highlightClass, ok := runHighlightClass(run); ok {
		classes = append(classes, "bf-run-highlight", "bf-hl-"+highlightClass)
	}

	return `<span class="` + strings.Join(classes, " ") + `">` + body.String() + `</span>`
}

// renderPreviewInlineNodes appends n's rendered inline HTML to output,
// recursing into unrecognized wrapper elements (e.g. <w:smartTag>) to find
// the runs/text nested inside.
func renderPreviewInlineNodes(n *node, output *strings.Builder) {
	switch n.tag {
	case "hyperlink":
		var linkBody strings.Builder
		for _, child := range n.children {
			renderPreviewInlineNodes(child, &linkBody)
		}
		if linkBody.Len() > 0 {
			output.WriteString(`<a class="bf-preview-link">`)
			output.WriteString(linkBody.String())
			output.WriteString("</a>")
		}
		return
	case "r":
		output.WriteString(renderPreviewRun(n))
		return
	case "t":
		pushEscapedTextWithBreaks(output, n.text)
		return
	case "tab":
		output.WriteByte('\t')
		return
	case "br", "cr":
		output.WriteString("<br/>")
		return
	}

	for _, child := range n.children {
		renderPreviewInlineNodes(child, output)
	}
}

// previewParagraphClass maps a paragraph's heading level to its preview CSS
// class, defaulting to the plain-paragraph class.
func previewParagraphClass(headingLevel *int) string {
	if headingLevel != nil {
		switch *headingLevel {
		case 1:
			return "bf-preview-h1"
		case 2:
			return "bf-preview-h2"
		case 3:
			return "bf-preview-h3"
		case 4:
			return "bf-preview-h4"
		}
	}
	return "bf-preview-p"
}

// renderPreviewParagraph renders one <w:p> as a classed <p>, falling back
// to fallbackText (plain, escaped) when the paragraph's inline rendering
// yields nothing visible, and to a non-breaking space if even that is
// blank.
func renderPreviewParagraph(paragraphNode *node, headingLevel *int, fallbackText string) string {
	var body strings.Builder
	for _, child := range paragraphNode.children {
		renderPreviewInlineNodes(child, &body)
	}

	rendered := body.String()
	if strings.TrimSpace(rendered) == "" && strings.TrimSpace(fallbackText) != "" {
		var fallback strings.Builder
		pushEscapedTextWithBreaks(&fallback, fallbackText)
		rendered = fallback.String()
	}
	if strings.TrimSpace(rendered) == "" {
		rendered = "&nbsp;"
	}

	return `<p class="` + previewParagraphClass(headingLevel) + `">` + rendered + `</p>`
}
