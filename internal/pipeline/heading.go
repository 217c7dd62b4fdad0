package pipeline

import "regexp"

// markdownSpecial matches characters with meaning in Markdown inline or
// block syntax.
var markdownSpecial = regexp.MustCompile("[\\\\`*_{}\\[\\]()#+\\-.!|<>~]")

// EscapeMarkdown backslash-escapes Markdown special characters so the
// text renders literally.
func EscapeMarkdown(s string) string {
	return markdownSpecial.ReplaceAllString(s, `\$0`)
}

// Heading returns a level-one Markdown heading for a file name, followed
// by a blank line.
func Heading(name string) string {
	return "# " + EscapeMarkdown(name) + "\n\n"
}
