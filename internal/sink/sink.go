package sink

import (
	"context"
	"errors"
	"path"
	"strings"
)

// Sentinel errors for sink operations.
var (
	ErrInvalidS3URL = errors.New("invalid s3 URL")
	ErrInvalidName  = errors.New("invalid artifact name")
	ErrWrite        = errors.New("failed to write artifact")
	ErrUpload       = errors.New("failed to upload artifact")
)

// Sink stores a named artifact and returns where it ended up
// (a file path or an s3:// URL).
type Sink interface {
	Write(ctx context.Context, name string, data []byte) (string, error)
}

// S3Options configures the S3 client for s3:// outputs.
type S3Options struct {
	Region       string
	Endpoint     string
	UsePathStyle bool
}

// IsS3URL reports whether output names an S3 destination.
func IsS3URL(output string) bool {
	return strings.HasPrefix(strings.ToLower(output), "s3://")
}

// New returns an S3 sink for s3:// outputs and a filesystem sink otherwise.
// An empty output means the current directory.
func New(ctx context.Context, output string, opts S3Options) (Sink, error) {
	if IsS3URL(output) {
		return NewS3(ctx, output, opts)
	}
	if output == "" {
		output = "."
	}
	return NewFilesystem(output)
}

// validateName rejects names that could escape the destination.
func validateName(name string) error {
	if name == "" || strings.ContainsAny(name, "/\\\x00") || name == "." || name == ".." {
		return ErrInvalidName
	}
	return nil
}

// contentTypes maps artifact extensions to MIME types.
var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".json": "application/json",
	".zip":  "application/zip",
	".html": "text/html; charset=utf-8",
}

// contentType returns the MIME type for name, defaulting to octet-stream.
func contentType(name string) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}
