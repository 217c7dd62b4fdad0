package ragdoc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-ragdoc/internal/textutil"
)

// Kind classifies an accepted text file.
type Kind int

// Accepted file kinds.
const (
	KindMarkdown Kind = iota + 1
	KindCSV
	KindText
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindMarkdown:
		return "markdown"
	case KindCSV:
		return "csv"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// kindByExt maps lowercase extensions to kinds.
var kindByExt = map[string]Kind{
	".md":       KindMarkdown,
	".markdown": KindMarkdown,
	".csv":      KindCSV,
	".txt":      KindText,
}

// KindOf returns the kind for a file name by its extension, case-insensitively.
func KindOf(name string) (Kind, bool) {
	k, ok := kindByExt[strings.ToLower(path.Ext(filepath.ToSlash(name)))]
	return k, ok
}

// SupportedExtensions lists the accepted text extensions plus ".zip".
func SupportedExtensions() []string {
	return []string{".md", ".markdown", ".csv", ".txt", ".zip"}
}

// Size limit defaults.
const (
	DefaultMaxFileSize    int64 = 10 << 20 // 10 MiB
	DefaultMaxArchiveSize int64 = 50 << 20 // 50 MiB
)

// maxIngestWorkers bounds concurrent source reads.
const maxIngestWorkers = 8

// Limits bounds input sizes. Zero or negative fields mean the default.
type Limits struct {
	MaxFileSize    int64 // per text file, plain or inside an archive
	MaxArchiveSize int64 // per archive, compressed and total uncompressed
}

func (l Limits) withDefaults() Limits {
	if l.MaxFileSize <= 0 {
		l.MaxFileSize = DefaultMaxFileSize
	}
	if l.MaxArchiveSize <= 0 {
		l.MaxArchiveSize = DefaultMaxArchiveSize
	}
	return l
}

// Source is one input: an in-memory upload (Name and Data) or a file on
// disk (Path, with Name defaulting to the base name).
type Source struct {
	Name string
	Path string
	Data []byte
}

func (s Source) name() string {
	if s.Name != "" {
		return s.Name
	}
	return filepath.Base(s.Path)
}

// File is one decoded text file.
type File struct {
	Name    string // file name, or member path inside the archive
	Archive string // containing archive name, "" for plain files
	Kind    Kind
	Text    string // decoded UTF-8, NFC, "\n" line endings
	Size    int64  // raw size in bytes
}

// Skipped records an archive member that was left out of the run.
type Skipped struct {
	Name    string
	Archive string
	Reason  string
}

// IngestResult holds the accepted files in input order and the skipped members.
type IngestResult struct {
	Files   []File
	Skipped []Skipped
}

// zipMagic is the local file header signature.
var zipMagic = []byte("PK\x03\x04")

// isArchive reports whether a source is a ZIP by extension or magic bytes.
func isArchive(name string, data []byte) bool {
	return strings.EqualFold(path.Ext(filepath.ToSlash(name)), ".zip") || bytes.HasPrefix(data, zipMagic)
}

// Ingest reads, filters, and decodes sources concurrently. The result keeps
// source order, with archive members in archive order. A run that yields no
// files fails with ErrNoDocuments.
func Ingest(ctx context.Context, sources []Source, limits Limits) (*IngestResult, error) {
	limits = limits.withDefaults()

	type slot struct {
		files   []File
		skipped []Skipped
	}
	slots := make([]slot, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxIngestWorkers)
	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			files, skipped, err := ingestSource(gctx, src, limits)
			if err != nil {
				return err
			}
			slots[i] = slot{files: files, skipped: skipped}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &IngestResult{}
	for _, s := range slots {
		res.Files = append(res.Files, s.files...)
		res.Skipped = append(res.Skipped, s.skipped...)
	}
	if len(res.Files) == 0 {
		return nil, ErrNoDocuments
	}
	return res, nil
}

// ingestSource handles one source, expanding archives.
func ingestSource(ctx context.Context, src Source, limits Limits) ([]File, []Skipped, error) {
	name := src.name()
	if name == "" || name == "." {
		return nil, nil, fmt.Errorf("%w: source has neither name nor path", ErrReadSource)
	}

	data := src.Data
	if data == nil && src.Path != "" {
		// Read enough to tell a too-large file from one at the limit.
		ceiling := max(limits.MaxFileSize, limits.MaxArchiveSize)
		var err error
		data, err = readBounded(src.Path, ceiling)
		if err != nil {
			return nil, nil, err
		}
	}

	if isArchive(name, data) {
		return ExpandArchive(ctx, name, data, limits)
	}

	kind, ok := KindOf(name)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s (accepted: %s)", ErrUnsupportedFile, name, strings.Join(SupportedExtensions(), ", "))
	}
	if int64(len(data)) > limits.MaxFileSize {
		return nil, nil, fmt.Errorf("%w: %s is larger than %s", ErrFileTooLarge, name, humanize.IBytes(uint64(limits.MaxFileSize)))
	}

	return []File{{
		Name: name,
		Kind: kind,
		Text: textutil.Decode(data),
		Size: int64(len(data)),
	}}, nil, nil
}

// readBounded reads at most limit+1 bytes from path.
func readBounded(p string, limit int64) ([]byte, error) {
	f, err := os.Open(p) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadSource, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadSource, p, err)
	}
	return data, nil
}
