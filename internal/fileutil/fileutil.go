// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
)

// WriteTempFile creates a temporary file with the given content and extension.
// Returns the file path and a cleanup function to remove the file.
func WriteTempFile(content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	tmpFile, err := os.CreateTemp("", "ragdoc-*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, writeErr := tmpFile.WriteString(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", closeErr)
	}

	return path, cleanup, nil
}

// ValidateExtension checks that the extension is safe for use in temp file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "default" -> false (name)
//   - "./custom.css" -> true (relative path)
//   - "/absolute/path.css" -> true (absolute)
//   - "C:\windows\path.css" -> true (Windows)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsCSS returns true if the string looks like inline CSS rather than a name or path.
func IsCSS(s string) bool {
	return strings.Contains(s, "{")
}

// Ext returns the lowercased extension of name including the dot.
// Both slash styles are treated as separators since archive members
// created on Windows may use backslashes.
func Ext(name string) string {
	return strings.ToLower(path.Ext(slashed(name)))
}

// Stem returns the base name of name without directory or extension.
func Stem(name string) string {
	base := path.Base(slashed(name))
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// OutputName derives a flat, filesystem-safe file name from a document name
// and a new extension (without dot). Directory components become dashes so
// that "docs/a.md" and "notes/a.md" stay distinct.
func OutputName(name, extension string) string {
	clean := strings.Trim(path.Clean(slashed(name)), "/.")
	clean = strings.TrimSuffix(clean, path.Ext(clean))
	var b strings.Builder
	for _, r := range clean {
		switch {
		case r == '/':
			b.WriteRune('-')
		case r < 0x20, strings.ContainsRune(`<>:"|?*\`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	base := b.String()
	if base == "" {
		base = "document"
	}
	return base + "." + extension
}

func slashed(name string) string {
	return strings.ReplaceAll(name, "\\", "/")
}
