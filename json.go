package ragdoc

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/alnah/go-ragdoc/internal/fileutil"
)

// jsonDocument is the wire shape of one document.
type jsonDocument struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// EncodeJSON serializes documents as an indented JSON array of
// {"name", "content"} objects. HTML characters are not escaped.
func EncodeJSON(docs []Document) ([]byte, error) {
	out := make([]jsonDocument, len(docs))
	for i, d := range docs {
		out[i] = jsonDocument{Name: d.Name, Content: d.Content}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrJSONEncode, err)
	}
	return buf.Bytes(), nil
}

// RenderJSON produces JSON artifacts, one "<base>.json" per document, each
// holding a one-element array. In combine mode the documents are merged
// first, as for PDF and HTML, so a single "<name>.json" (default
// "combined.json") holds the merged document.
func RenderJSON(docs []Document, combine bool, name string) ([]Artifact, error) {
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}

	artifacts := make([]Artifact, 0, len(docs))
	for _, d := range Aggregate(docs, combine, name) {
		data, err := EncodeJSON([]Document{d})
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, Artifact{
			Name:       fileutil.OutputName(d.Name, "json"),
			Data:       data,
			DocumentID: d.ID,
		})
	}
	return artifacts, nil
}
