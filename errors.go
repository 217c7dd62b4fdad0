package ragdoc

import "errors"

// Sentinel errors for library operations.
var (
	// Ingestion errors.
	ErrFileTooLarge    = errors.New("file exceeds size limit")
	ErrArchiveTooLarge = errors.New("archive exceeds size limit")
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrInvalidArchive  = errors.New("invalid archive")
	ErrReadSource      = errors.New("failed to read source")
	ErrNoDocuments     = errors.New("no supported documents found")

	// Rendering errors.
	ErrEmptyMarkdown  = errors.New("markdown content cannot be empty")
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrJSONEncode     = errors.New("JSON encoding failed")
	ErrInvalidFormat  = errors.New("invalid output format")

	// Pool errors.
	ErrPoolClosed = errors.New("converter pool is closed")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Footer and TOC validation errors.
	ErrInvalidFooterPosition = errors.New("invalid footer position")
	ErrInvalidTOCDepth       = errors.New("invalid TOC depth")

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")

	// Packaging errors.
	ErrNoArtifacts = errors.New("no artifacts to package")
	ErrBundle      = errors.New("failed to build bundle")
)
