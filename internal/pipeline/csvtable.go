package pipeline

import (
	"regexp"
	"strings"
)

// csvFieldPattern matches one field: either a double-quoted value with ""
// escapes, or a run of non-comma characters. Each field after the first is
// introduced by its comma.
var csvFieldPattern = regexp.MustCompile(`(?:^|,)("(?:[^"]|"")*"|[^,]*)`)

// CSVToMarkdown converts CSV text to a GitHub-flavored Markdown table.
//
// Lines are tokenized independently, so quoted fields cannot span lines.
// Blank lines are skipped and the first remaining line is the header row.
// Rows shorter than the widest row are padded with empty cells. Pipes in
// cell values are escaped. Input with no non-blank line yields "".
func CSVToMarkdown(text string) string {
	var rows [][]string
	width := 0
	for _, line := range strings.Split(NormalizeLineEndings(text), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		row := tokenizeCSVLine(line)
		if len(row) > width {
			width = len(row)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return ""
	}

	var b strings.Builder
	writeTableRow(&b, rows[0], width)
	b.WriteByte('\n')
	b.WriteByte('|')
	for i := 0; i < width; i++ {
		b.WriteString(" --- |")
	}
	for _, row := range rows[1:] {
		b.WriteByte('\n')
		writeTableRow(&b, row, width)
	}
	return b.String()
}

// tokenizeCSVLine splits one line into cleaned field values.
func tokenizeCSVLine(line string) []string {
	// An empty match at position 0 would swallow a leading comma,
	// so leading empty fields are counted before matching.
	var fields []string
	for strings.HasPrefix(line, ",") {
		fields = append(fields, "")
		line = line[1:]
	}

	for _, m := range csvFieldPattern.FindAllStringSubmatch(line, -1) {
		fields = append(fields, cleanCSVField(m[1]))
	}
	return fields
}

// cleanCSVField trims whitespace, strips surrounding quotes, and
// collapses doubled quotes.
func cleanCSVField(field string) string {
	field = strings.TrimSpace(field)
	if len(field) >= 2 && field[0] == '"' && field[len(field)-1] == '"' {
		field = strings.ReplaceAll(field[1:len(field)-1], `""`, `"`)
		field = strings.TrimSpace(field)
	}
	return field
}

// writeTableRow writes "| a | b |" padded to width cells.
func writeTableRow(b *strings.Builder, row []string, width int) {
	b.WriteByte('|')
	for i := 0; i < width; i++ {
		cell := ""
		if i < len(row) {
			cell = strings.ReplaceAll(row[i], "|", `\|`)
		}
		b.WriteByte(' ')
		b.WriteString(cell)
		b.WriteString(" |")
	}
}
