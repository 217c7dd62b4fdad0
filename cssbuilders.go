package ragdoc

import (
	"fmt"
	"html"
	"strings"
)

// defaultFontFamily is the standard font stack for PDF footers.
const defaultFontFamily = "sans-serif"

// printCSS keeps headings with their content and table rows whole across
// page breaks. Always prepended so user styles can override it.
const printCSS = `
/* Print: keep headings with the following block */
h1, h2, h3, h4, h5, h6 {
  break-after: avoid;
  page-break-after: avoid;
  break-inside: avoid;
  page-break-inside: avoid;
}

/* Print: orphan/widow control */
p, li, dd, dt, blockquote {
  orphans: 2;
  widows: 2;
}

/* Print: repeat table headers and keep rows whole */
thead {
  display: table-header-group;
}
tr, img {
  break-inside: avoid;
  page-break-inside: avoid;
}
`

// buildCSS assembles the stylesheet for a document.
// Order matters: print rules first, converter style next, extra CSS last.
func buildCSS(style, extra string) string {
	var b strings.Builder
	b.WriteString(printCSS)
	if style != "" {
		b.WriteString("\n")
		b.WriteString(style)
	}
	if extra != "" {
		b.WriteString("\n")
		b.WriteString(extra)
	}
	return b.String()
}

// buildFooterTemplate generates an HTML template for Chrome's native footer.
// Page numbers use Chrome's pageNumber and totalPages placeholder classes.
func buildFooterTemplate(f *Footer) string {
	if f == nil {
		return "<span></span>"
	}

	var parts []string
	if f.Text != "" {
		parts = append(parts, html.EscapeString(f.Text))
	}
	if f.ShowPageNumber {
		parts = append(parts, `<span class="pageNumber"></span>/<span class="totalPages"></span>`)
	}
	if len(parts) == 0 {
		return "<span></span>"
	}

	textAlign := "right"
	switch strings.ToLower(f.Position) {
	case "left":
		textAlign = "left"
	case "center":
		textAlign = "center"
	}

	return fmt.Sprintf(`<div style="font-size: 10px; font-family: %s; color: #aaa; width: 100%%; text-align: %s; padding: 0 0.5in;">%s</div>`,
		defaultFontFamily, textAlign, strings.Join(parts, " - "))
}
