package main

import (
	"errors"
	"os"

	"github.com/alnah/go-ragdoc"
	"github.com/alnah/go-ragdoc/internal/config"
	"github.com/alnah/go-ragdoc/internal/sink"
)

// Exit codes for the ragdoc CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // Unreadable input, size limits, write or upload failures
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, ragdoc.ErrBrowserConnect) ||
		errors.Is(err, ragdoc.ErrPageCreate) ||
		errors.Is(err, ragdoc.ErrPageLoad) ||
		errors.Is(err, ragdoc.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O and size limit errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ragdoc.ErrReadSource) ||
		errors.Is(err, ragdoc.ErrFileTooLarge) ||
		errors.Is(err, ragdoc.ErrArchiveTooLarge) ||
		errors.Is(err, ragdoc.ErrInvalidArchive) ||
		errors.Is(err, ragdoc.ErrNoDocuments) ||
		errors.Is(err, ragdoc.ErrBundle) ||
		errors.Is(err, sink.ErrWrite) ||
		errors.Is(err, sink.ErrUpload) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, ragdoc.ErrUnsupportedFile) ||
		errors.Is(err, ragdoc.ErrEmptyMarkdown) ||
		errors.Is(err, ragdoc.ErrInvalidFormat) ||
		errors.Is(err, ragdoc.ErrInvalidPageSize) ||
		errors.Is(err, ragdoc.ErrInvalidOrientation) ||
		errors.Is(err, ragdoc.ErrInvalidMargin) ||
		errors.Is(err, ragdoc.ErrInvalidFooterPosition) ||
		errors.Is(err, ragdoc.ErrInvalidTOCDepth) ||
		errors.Is(err, ragdoc.ErrStyleNotFound) ||
		errors.Is(err, ragdoc.ErrInvalidAssetPath) ||
		errors.Is(err, sink.ErrInvalidS3URL) ||
		errors.Is(err, sink.ErrInvalidName) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, ErrUsage) {
		return ExitUsage
	}

	return ExitGeneral
}
