package pipeline

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	xhtml "golang.org/x/net/html"
)

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block before </head>, falling back to the
// start of <body> and then to the front of the document.
// A cancelled context leaves the content untouched.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}
	block := "<style>" + sanitizeCSS(cssContent) + "</style>"
	if idx := strings.Index(strings.ToLower(htmlContent), "</head>"); idx != -1 {
		return htmlContent[:idx] + block + htmlContent[idx:]
	}
	return insertAtBodyStart(htmlContent, block)
}

// sanitizeCSS keeps stylesheet text from closing its <style> element.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// insertAtBodyStart places fragment right after the opening <body> tag, or
// in front of the content when there is none.
func insertAtBodyStart(htmlContent, fragment string) string {
	idx := strings.Index(strings.ToLower(htmlContent), "<body")
	if idx == -1 {
		return fragment + htmlContent
	}
	end := strings.IndexByte(htmlContent[idx:], '>')
	if end == -1 {
		return fragment + htmlContent
	}
	pos := idx + end + 1
	return htmlContent[:pos] + fragment + htmlContent[pos:]
}

// TOCData holds TOC configuration for injection.
type TOCData struct {
	Title    string
	MinDepth int // 0 means 1, which lists the per-document file headings
	MaxDepth int // 0 means 3
}

// TOCInjector defines the contract for TOC injection into HTML.
type TOCInjector interface {
	InjectTOC(ctx context.Context, htmlContent string, data *TOCData) (string, error)
}

// headingInfo is one heading found in rendered HTML.
type headingInfo struct {
	Level int
	ID    string
	Text  string // plain text, entities decoded
}

// headingLevel returns 1-6 for h1-h6 tag names and 0 otherwise.
func headingLevel(tag []byte) int {
	if len(tag) != 2 || tag[0] != 'h' || tag[1] < '1' || tag[1] > '6' {
		return 0
	}
	return int(tag[1] - '0')
}

// extractHeadings walks the HTML token stream and returns headings with an
// id whose level lies in [minDepth, maxDepth]. Inline markup inside a
// heading contributes only its text.
func extractHeadings(htmlContent string, minDepth, maxDepth int) []headingInfo {
	z := xhtml.NewTokenizer(strings.NewReader(htmlContent))

	var (
		headings []headingInfo
		current  *headingInfo
		text     strings.Builder
	)
	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			return headings

		case xhtml.StartTagToken:
			name, hasAttr := z.TagName()
			level := headingLevel(name)
			if level == 0 || current != nil {
				continue
			}
			var id string
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if string(key) == "id" {
					id = string(val)
				}
			}
			if id == "" || level < minDepth || level > maxDepth {
				continue
			}
			current = &headingInfo{Level: level, ID: id}
			text.Reset()

		case xhtml.TextToken:
			if current != nil {
				text.Write(z.Text())
			}

		case xhtml.EndTagToken:
			name, _ := z.TagName()
			if current != nil && headingLevel(name) != 0 {
				current.Text = strings.TrimSpace(text.String())
				headings = append(headings, *current)
				current = nil
			}
		}
	}
}

// numberingState assigns hierarchical numbers ("1.", "1.2.") to TOC entries.
// The first heading seen defines depth 1, and a jump of several levels nests
// only one level deeper than the previous entry.
type numberingState struct {
	counters [6]int
	base     int // level of the first heading, 0 until set
	last     int // depth of the previous entry
}

// next returns the number and nesting depth for a heading of the given level.
func (n *numberingState) next(level int) (string, int) {
	if n.base == 0 {
		n.base = level
	}
	depth := max(level-n.base+1, 1)
	if n.last > 0 && depth > n.last+1 {
		depth = n.last + 1
	}

	n.counters[depth-1]++
	clear(n.counters[depth:])
	n.last = depth

	var b strings.Builder
	for _, c := range n.counters[:depth] {
		b.WriteString(strconv.Itoa(c))
		b.WriteByte('.')
	}
	return b.String(), depth
}

// renderTOC builds the numbered table of contents as nested <div> rows,
// indented 1.5em per depth level. Returns "" without headings.
func renderTOC(headings []headingInfo, title string) string {
	if len(headings) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(`<nav class="toc">`)
	if title != "" {
		fmt.Fprintf(&b, `<h2 class="toc-title">%s</h2>`, html.EscapeString(title))
	}
	b.WriteString(`<div class="toc-list">`)

	var numbering numberingState
	for _, h := range headings {
		num, depth := numbering.next(h.Level)
		b.WriteString(`<div class="toc-item"`)
		if depth > 1 {
			fmt.Fprintf(&b, ` style="padding-left:%.1fem"`, float64(depth-1)*1.5)
		}
		fmt.Fprintf(&b, `><a href="#%s">%s %s</a></div>`, html.EscapeString(h.ID), num, html.EscapeString(h.Text))
	}

	b.WriteString(`</div></nav>`)
	return b.String()
}

// TOCInjection implements TOCInjector.
type TOCInjection struct{}

// NewTOCInjection creates a new TOC injector.
func NewTOCInjection() *TOCInjection {
	return &TOCInjection{}
}

// InjectTOC places a numbered TOC at the start of <body>.
// Content is returned unchanged when data is nil or no heading is in range.
func (t *TOCInjection) InjectTOC(ctx context.Context, htmlContent string, data *TOCData) (string, error) {
	if data == nil {
		return htmlContent, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	minDepth, maxDepth := data.MinDepth, data.MaxDepth
	if minDepth == 0 {
		minDepth = 1
	}
	if maxDepth == 0 {
		maxDepth = 3
	}

	headings := extractHeadings(htmlContent, minDepth, maxDepth)
	if len(headings) == 0 {
		return htmlContent, nil
	}
	return insertAtBodyStart(htmlContent, renderTOC(headings, data.Title)), nil
}
