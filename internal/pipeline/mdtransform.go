package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Highlight placeholders use Unicode Private Use Area characters.
// They pass through Goldmark and the sanitizer unchanged and are
// converted to <mark> tags after sanitization.
const (
	MarkStartPlaceholder = "\uE000" // U+E000: Private Use Area start
	MarkEndPlaceholder   = "\uE001" // U+E001: Private Use Area end
)

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Compress multiple blank lines to max 2
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)

	// Highlight syntax ==text==: single line, no surrounding spaces inside
	// the markers, never across a table cell boundary.
	highlightPattern = regexp.MustCompile(`==([^=\s|](?:[^=\n|]*[^=\s|])?)==`)
)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// CommonMarkPreprocessor applies transformations before CommonMark conversion.
type CommonMarkPreprocessor struct{}

// PreprocessMarkdown applies all transformations to prepare Markdown for conversion.
func (p *CommonMarkPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = NormalizeLineEndings(content)
	content = convertHighlights(content)
	content = compressBlankLines(content)
	return content
}

// NormalizeLineEndings converts \r\n and \r to \n.
func NormalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// compressBlankLines limits consecutive blank lines to 2 maximum.
func compressBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// convertHighlights transforms ==text== to placeholder markers outside
// fenced code blocks and inline code spans.
func convertHighlights(content string) string {
	if !strings.Contains(content, "==") {
		return content
	}

	lines := strings.Split(content, "\n")
	var fence string
	for i, line := range lines {
		run := fenceRun(line)
		switch {
		case fence != "":
			if closesFence(line, run, fence) {
				fence = ""
			}
		case run != "":
			fence = run
		default:
			lines[i] = highlightOutsideCodeSpans(line)
		}
	}
	return strings.Join(lines, "\n")
}

func highlightText(s string) string {
	return highlightPattern.ReplaceAllString(s, MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
}

// fenceRun returns the opening backtick or tilde run of a code fence line
// (three or more, indented at most three spaces), or "". A backtick info
// string may not contain backticks.
func fenceRun(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 || len(trimmed) < 3 {
		return ""
	}
	c := trimmed[0]
	if c != '`' && c != '~' {
		return ""
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == c {
		n++
	}
	if n < 3 || (c == '`' && strings.Contains(trimmed[n:], "`")) {
		return ""
	}
	return trimmed[:n]
}

// closesFence reports whether line ends the block opened by fence: same
// character, at least as long, nothing else on the line.
func closesFence(line, run, fence string) bool {
	if run == "" || run[0] != fence[0] || len(run) < len(fence) {
		return false
	}
	rest := strings.TrimLeft(line, " ")[len(run):]
	return strings.TrimSpace(rest) == ""
}

// highlightOutsideCodeSpans applies highlights to a line, leaving backtick
// code spans untouched. An unmatched backtick run is plain text.
func highlightOutsideCodeSpans(line string) string {
	var b strings.Builder
	for {
		start := strings.IndexByte(line, '`')
		if start == -1 {
			b.WriteString(highlightText(line))
			return b.String()
		}
		n := backtickRun(line[start:])
		end := closingBacktickRun(line[start+n:], n)
		if end == -1 {
			b.WriteString(highlightText(line[:start+n]))
			line = line[start+n:]
			continue
		}
		stop := start + n + end + n
		b.WriteString(highlightText(line[:start]))
		b.WriteString(line[start:stop])
		line = line[stop:]
	}
}

// backtickRun returns the length of the backtick run at the start of s.
func backtickRun(s string) int {
	n := 0
	for n < len(s) && s[n] == '`' {
		n++
	}
	return n
}

// closingBacktickRun returns the index in s of the first backtick run of
// exactly n characters, or -1.
func closingBacktickRun(s string, n int) int {
	for i := 0; i < len(s); {
		if s[i] != '`' {
			i++
			continue
		}
		run := backtickRun(s[i:])
		if run == n {
			return i
		}
		i += run
	}
	return -1
}

// ConvertMarkPlaceholders converts placeholder markers to <mark> tags.
// Must run after sanitization, otherwise the sanitizer would see the
// tags as user input.
func ConvertMarkPlaceholders(content string) string {
	return strings.ReplaceAll(
		strings.ReplaceAll(content, MarkStartPlaceholder, "<mark>"),
		MarkEndPlaceholder, "</mark>",
	)
}
