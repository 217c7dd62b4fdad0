package ragdoc

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/alnah/go-ragdoc/internal/textutil"
)

// Reasons recorded for skipped archive members.
const (
	reasonMetadata    = "macOS metadata"
	reasonHidden      = "hidden file"
	reasonNested      = "nested archive"
	reasonUnsupported = "unsupported extension"
	reasonUnsafePath  = "unsafe path"
	reasonTooLarge    = "exceeds file size limit"
	reasonCompression = "unsupported compression method"
)

// ExpandArchive extracts accepted text members from a ZIP archive in archive
// order. Members that cannot be used are skipped and reported; directories
// are ignored. The archive itself and the total uncompressed size of accepted
// members are both bounded by limits.MaxArchiveSize.
func ExpandArchive(ctx context.Context, name string, data []byte, limits Limits) ([]File, []Skipped, error) {
	limits = limits.withDefaults()

	if int64(len(data)) > limits.MaxArchiveSize {
		return nil, nil, fmt.Errorf("%w: %s is larger than %s", ErrArchiveTooLarge, name, humanize.IBytes(uint64(limits.MaxArchiveSize)))
	}

	// Insecure member names are skipped below, not fatal.
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil && !(errors.Is(err, zip.ErrInsecurePath) && zr != nil) {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrInvalidArchive, name, err)
	}

	var (
		files   []File
		skipped []Skipped
		total   int64
	)
	skip := func(member, reason string) {
		skipped = append(skipped, Skipped{Name: member, Archive: name, Reason: reason})
	}

	for _, zf := range zr.File {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		member := strings.ReplaceAll(zf.Name, "\\", "/")
		if zf.FileInfo().IsDir() || strings.HasSuffix(member, "/") {
			continue
		}

		kind, reason := classifyMember(member)
		if reason != "" {
			skip(member, reason)
			continue
		}
		if zf.UncompressedSize64 > uint64(limits.MaxFileSize) {
			skip(member, fmt.Sprintf("%s (%s)", reasonTooLarge, humanize.IBytes(zf.UncompressedSize64)))
			continue
		}

		raw, err := readMember(zf, limits.MaxFileSize)
		if errors.Is(err, zip.ErrAlgorithm) {
			skip(member, reasonCompression)
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s: %s: %v", ErrInvalidArchive, name, member, err)
		}
		// Headers can understate the real size.
		if int64(len(raw)) > limits.MaxFileSize {
			skip(member, reasonTooLarge)
			continue
		}

		total += int64(len(raw))
		if total > limits.MaxArchiveSize {
			return nil, nil, fmt.Errorf("%w: %s expands beyond %s", ErrArchiveTooLarge, name, humanize.IBytes(uint64(limits.MaxArchiveSize)))
		}

		files = append(files, File{
			Name:    member,
			Archive: name,
			Kind:    kind,
			Text:    textutil.Decode(raw),
			Size:    int64(len(raw)),
		})
	}
	return files, skipped, nil
}

// classifyMember returns the member kind, or a non-empty skip reason.
func classifyMember(member string) (Kind, string) {
	if path.IsAbs(member) {
		return 0, reasonUnsafePath
	}
	parts := strings.Split(member, "/")
	for _, p := range parts {
		if p == ".." {
			return 0, reasonUnsafePath
		}
	}
	if parts[0] == "__MACOSX" {
		return 0, reasonMetadata
	}
	for _, p := range parts {
		if p != "." && strings.HasPrefix(p, ".") {
			return 0, reasonHidden
		}
	}
	if strings.EqualFold(path.Ext(member), ".zip") {
		return 0, reasonNested
	}
	kind, ok := KindOf(member)
	if !ok {
		return 0, reasonUnsupported
	}
	return kind, ""
}

// readMember decompresses at most limit+1 bytes of a member.
func readMember(zf *zip.File, limit int64) ([]byte, error) {
	rc, err := zf.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(io.LimitReader(rc, limit+1))
}
