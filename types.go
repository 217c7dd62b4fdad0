package ragdoc

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// paperDimensions holds portrait width and height in inches.
var paperDimensions = map[string][2]float64{
	PageSizeLetter: {8.5, 11},
	PageSizeA4:     {8.27, 11.69},
	PageSizeLegal:  {8.5, 14},
}

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
// Does not mutate - uses case-insensitive comparison.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if _, ok := paperDimensions[strings.ToLower(p.Size)]; !ok {
		return fmt.Errorf("%w: %q (must be letter, a4, or legal)", ErrInvalidPageSize, p.Size)
	}

	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q (must be portrait or landscape)", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// paperSize returns width and height in inches, honoring orientation.
// Nil settings yield US Letter portrait.
func (p *PageSettings) paperSize() (width, height float64) {
	if p == nil {
		d := paperDimensions[PageSizeLetter]
		return d[0], d[1]
	}
	d, ok := paperDimensions[strings.ToLower(p.Size)]
	if !ok {
		d = paperDimensions[PageSizeLetter]
	}
	if strings.EqualFold(p.Orientation, OrientationLandscape) {
		return d[1], d[0]
	}
	return d[0], d[1]
}

// margin returns the configured margin, or the default for nil settings.
func (p *PageSettings) margin() float64 {
	if p == nil || p.Margin == 0 {
		return DefaultMargin
	}
	return p.Margin
}

// Footer configures the PDF footer.
type Footer struct {
	Position       string // "left", "center", "right" (default: "right")
	ShowPageNumber bool
	Text           string
}

// Validate checks that footer settings are valid.
// Returns nil if f is nil (nil means no footer).
func (f *Footer) Validate() error {
	if f == nil {
		return nil
	}
	switch strings.ToLower(f.Position) {
	case "", "left", "center", "right":
		return nil
	default:
		return fmt.Errorf("%w: %q (must be left, center, or right)", ErrInvalidFooterPosition, f.Position)
	}
}

// TOC depth defaults. Level 1 is included so filename headings appear.
const (
	DefaultTOCMinDepth = 1
	DefaultTOCMaxDepth = 3
)

// TOC configures the numbered table of contents.
type TOC struct {
	Title    string // Empty = no title above the list
	MinDepth int    // 1-6, 0 = DefaultTOCMinDepth
	MaxDepth int    // 1-6, 0 = DefaultTOCMaxDepth
}

// Validate checks depth bounds. Returns nil if t is nil (nil means no TOC).
func (t *TOC) Validate() error {
	if t == nil {
		return nil
	}
	if t.MinDepth != 0 && (t.MinDepth < 1 || t.MinDepth > 6) {
		return fmt.Errorf("%w: minDepth %d (must be between 1 and 6)", ErrInvalidTOCDepth, t.MinDepth)
	}
	if t.MaxDepth != 0 && (t.MaxDepth < 1 || t.MaxDepth > 6) {
		return fmt.Errorf("%w: maxDepth %d (must be between 1 and 6)", ErrInvalidTOCDepth, t.MaxDepth)
	}
	minDepth, maxDepth := t.depths()
	if minDepth > maxDepth {
		return fmt.Errorf("%w: minDepth %d exceeds maxDepth %d", ErrInvalidTOCDepth, minDepth, maxDepth)
	}
	return nil
}

// depths returns the effective depth range with defaults applied.
func (t *TOC) depths() (minDepth, maxDepth int) {
	minDepth, maxDepth = t.MinDepth, t.MaxDepth
	if minDepth == 0 {
		minDepth = DefaultTOCMinDepth
	}
	if maxDepth == 0 {
		maxDepth = DefaultTOCMaxDepth
	}
	return minDepth, maxDepth
}

// Input contains conversion parameters.
type Input struct {
	Markdown string        // Markdown content (required)
	Title    string        // HTML document title (optional)
	CSS      string        // Extra CSS appended after the converter style (optional)
	Page     *PageSettings // Page settings (optional, nil = defaults)
	Footer   *Footer       // Footer config (optional)
	TOC      *TOC          // Table of contents (optional)
	HTMLOnly bool          // Skip PDF generation
}

// ConvertResult holds the output of a conversion.
type ConvertResult struct {
	HTML []byte
	PDF  []byte // nil when Input.HTMLOnly is set
}

// Format selects the artifact type produced for each document.
type Format string

// Supported output formats.
const (
	FormatPDF  Format = "pdf"
	FormatJSON Format = "json"
	FormatHTML Format = "html" // styled HTML, the PDF input without printing
)

// ParseFormat parses a format name case-insensitively. Empty means PDF.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatPDF:
		return FormatPDF, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatHTML:
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("%w: %q (must be pdf, json, or html)", ErrInvalidFormat, s)
	}
}

// Extension returns the file extension for artifacts of this format, without dot.
func (f Format) Extension() string {
	if f == "" {
		return string(FormatPDF)
	}
	return string(f)
}

// RenderOptions configures RenderDocument.
type RenderOptions struct {
	Format Format        // FormatPDF (default) or FormatHTML
	CSS    string        // Extra CSS (optional)
	Page   *PageSettings // Page settings (optional)
	Footer *Footer       // Footer (optional)
	TOC    *TOC          // Table of contents (optional)
}

// Artifact is a finished output file.
type Artifact struct {
	Name       string    // File name including extension
	Data       []byte    // File content
	DocumentID uuid.UUID // Source document, uuid.Nil for bundles and JSON collections
}
