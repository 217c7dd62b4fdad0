package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Filesystem writes artifacts into a local directory.
type Filesystem struct {
	dir string
}

// NewFilesystem creates the directory if needed and returns a sink for it.
func NewFilesystem(dir string) (*Filesystem, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("%w: creating output directory: %v", ErrWrite, err)
	}
	return &Filesystem{dir: dir}, nil
}

// Dir returns the destination directory.
func (f *Filesystem) Dir() string {
	return f.dir
}

// Write stores data as {dir}/{name}, replacing any existing file.
func (f *Filesystem) Write(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := validateName(name); err != nil {
		return "", fmt.Errorf("%w: %q", err, name)
	}

	dest := filepath.Join(f.dir, name)
	if err := os.WriteFile(dest, data, 0o644); err != nil { // #nosec G306 -- output files are meant to be shared
		return "", fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return dest, nil
}

var _ Sink = (*Filesystem)(nil)
