package ragdoc

import (
	"github.com/google/uuid"

	"github.com/alnah/go-ragdoc/internal/pipeline"
)

// Document is a normalized Markdown document ready for rendering.
type Document struct {
	ID      uuid.UUID
	Name    string // source file name or archive member path
	Content string // Markdown
}

// NewDocument returns a Document with a fresh ID. An empty name becomes "document".
func NewDocument(name, content string) Document {
	if name == "" {
		name = "document"
	}
	return Document{ID: uuid.New(), Name: name, Content: content}
}

// NormalizeOptions configures Normalize.
type NormalizeOptions struct {
	Headings bool // prefix each document with "# <file name>"
}

// DefaultNormalizeOptions returns options with headings enabled.
func DefaultNormalizeOptions() NormalizeOptions {
	return NormalizeOptions{Headings: true}
}

// Normalize turns decoded files into Markdown documents in the same order.
// CSV files become Markdown tables; Markdown and text pass through.
func Normalize(files []File, opts NormalizeOptions) []Document {
	docs := make([]Document, 0, len(files))
	for _, f := range files {
		content := f.Text
		if f.Kind == KindCSV {
			content = pipeline.CSVToMarkdown(f.Text)
		}
		doc := NewDocument(f.Name, content)
		if opts.Headings {
			doc.Content = pipeline.Heading(doc.Name) + doc.Content
		}
		docs = append(docs, doc)
	}
	return docs
}

// CSVToMarkdown converts CSV text to a GitHub-flavored Markdown table.
// The first non-blank row is the header. Empty input yields "".
func CSVToMarkdown(text string) string {
	return pipeline.CSVToMarkdown(text)
}

// EscapeMarkdown backslash-escapes Markdown special characters.
func EscapeMarkdown(s string) string {
	return pipeline.EscapeMarkdown(s)
}
