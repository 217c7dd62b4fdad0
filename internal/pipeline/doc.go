// Package pipeline implements the text transformations that turn ingested
// files into styled HTML ready for printing.
//
// The stages are:
//   - CSV payloads to GitHub-flavored Markdown tables (CSVToMarkdown)
//   - Filename headings with Markdown escaping (EscapeMarkdown, Heading)
//   - Markdown preprocessing (line normalization, highlight syntax)
//   - Markdown to HTML conversion via Goldmark
//   - HTML sanitization via bluemonday
//   - CSS injection and numbered table of contents generation
//
// PDF generation is handled separately by the root ragdoc package using
// headless Chrome (go-rod). This package never touches the browser.
package pipeline
