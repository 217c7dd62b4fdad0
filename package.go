package ragdoc

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path"
	"strings"
	"time"
)

// DefaultBundleName names the archive produced for several artifacts.
const DefaultBundleName = "ragdoc-output.zip"

// Package returns a single artifact unchanged, or zips several into one
// bundle named bundleName (DefaultBundleName when empty). Colliding entry
// names get a short document-id suffix, then a counter.
func Package(artifacts []Artifact, bundleName string) (Artifact, error) {
	switch len(artifacts) {
	case 0:
		return Artifact{}, ErrNoArtifacts
	case 1:
		return artifacts[0], nil
	}

	if bundleName == "" {
		bundleName = DefaultBundleName
	}
	if !strings.EqualFold(path.Ext(bundleName), ".zip") {
		bundleName += ".zip"
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	now := time.Now()

	for _, a := range UniqueNames(artifacts) {
		name := a.Name
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: now,
		})
		if err != nil {
			return Artifact{}, fmt.Errorf("%w: %s: %v", ErrBundle, name, err)
		}
		if _, err := w.Write(a.Data); err != nil {
			return Artifact{}, fmt.Errorf("%w: %s: %v", ErrBundle, name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return Artifact{}, fmt.Errorf("%w: %v", ErrBundle, err)
	}

	return Artifact{Name: bundleName, Data: buf.Bytes()}, nil
}

// UniqueNames returns a copy of artifacts with distinct names, compared
// case-insensitively. Colliding names get a short document-id suffix, then a
// counter. The first occurrence keeps its name.
func UniqueNames(artifacts []Artifact) []Artifact {
	seen := make(map[string]bool, len(artifacts))
	out := make([]Artifact, len(artifacts))
	for i, a := range artifacts {
		a.Name = uniqueEntryName(a, seen)
		out[i] = a
	}
	return out
}

// uniqueEntryName returns a name not yet in seen and records it.
func uniqueEntryName(a Artifact, seen map[string]bool) string {
	name := a.Name
	if name == "" {
		name = "document"
	}
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	taken := func(n string) bool { return seen[strings.ToLower(n)] }
	if taken(name) {
		name = stem + "-" + a.DocumentID.String()[:8] + ext
	}
	for i := 2; taken(name); i++ {
		name = fmt.Sprintf("%s-%d%s", stem, i, ext)
	}
	seen[strings.ToLower(name)] = true
	return name
}
