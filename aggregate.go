package ragdoc

import "strings"

// DefaultCombinedName names the merged document in combine mode.
const DefaultCombinedName = "combined"

// Separator joins documents in combine mode (a Markdown horizontal rule).
const Separator = "\n\n---\n\n"

// Combine merges documents into one, in order, joined by Separator.
// An empty name becomes DefaultCombinedName.
func Combine(docs []Document, name string) Document {
	if name == "" {
		name = DefaultCombinedName
	}
	parts := make([]string, len(docs))
	for i, d := range docs {
		parts[i] = d.Content
	}
	return NewDocument(name, strings.Join(parts, Separator))
}

// Aggregate returns the documents to render: one merged document in combine
// mode, otherwise the input unchanged.
func Aggregate(docs []Document, combine bool, name string) []Document {
	if !combine || len(docs) == 0 {
		return docs
	}
	return []Document{Combine(docs, name)}
}
