package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/alnah/go-ragdoc/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength        = 4096 // Directory or asset path
	MaxNameLength        = 255  // File name on most filesystems
	MaxTextLength        = 500  // Footer free-form text
	MaxPageSizeLength    = 10   // "letter", "a4", "legal"
	MaxOrientationLength = 10   // "portrait", "landscape"
	MaxStyleLength       = 64   // Style name
	MaxTOCTitleLength    = 100  // TOC title
	MaxRegionLength      = 32   // "eu-west-3"
	MaxSizeLength        = 20   // "10MB", "1.5 GiB"
	MaxEndpointLength    = 2048 // S3-compatible endpoint URL
)

// Config holds all configuration for a conversion run.
type Config struct {
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`
	Limits LimitsConfig `yaml:"limits"`
	Style  string       `yaml:"style"` // Style name or .css path (empty = built-in default)
	Assets AssetsConfig `yaml:"assets"`
	Page   PageConfig   `yaml:"page"`
	Footer FooterConfig `yaml:"footer"`
	TOC    TOCConfig    `yaml:"toc"`
	S3     S3Config     `yaml:"s3"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination and shape.
type OutputConfig struct {
	Dir        string `yaml:"dir"`        // Directory or s3://bucket/prefix (empty = current dir)
	Format     string `yaml:"format"`     // "pdf", "json", "html" (default: "pdf")
	Combine    bool   `yaml:"combine"`    // Merge all documents into one
	Name       string `yaml:"name"`       // Combined document name (default: "combined")
	BundleName string `yaml:"bundleName"` // ZIP name for multiple outputs
	Headings   *bool  `yaml:"headings"`   // Filename heading per document (default: true)
}

// HeadingsEnabled reports whether filename headings are on. Unset means on.
func (o OutputConfig) HeadingsEnabled() bool {
	return o.Headings == nil || *o.Headings
}

// LimitsConfig holds human-readable size ceilings ("10MB", "50 MiB").
type LimitsConfig struct {
	MaxFileSize    string `yaml:"maxFileSize"`
	MaxArchiveSize string `yaml:"maxArchiveSize"`
}

// FileSizeBytes parses MaxFileSize. Empty returns 0 (use default).
func (l LimitsConfig) FileSizeBytes() (int64, error) {
	return ParseSize(l.MaxFileSize)
}

// ArchiveSizeBytes parses MaxArchiveSize. Empty returns 0 (use default).
func (l LimitsConfig) ArchiveSizeBytes() (int64, error) {
	return ParseSize(l.MaxArchiveSize)
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "letter", "a4", "legal" (default: "letter")
	Orientation string  `yaml:"orientation"` // "portrait", "landscape" (default: "portrait")
	Margin      float64 `yaml:"margin"`      // inches (default: 0.5)
}

// FooterConfig defines page footer options.
type FooterConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Position       string `yaml:"position"` // "left", "center", "right" (default: "right")
	ShowPageNumber bool   `yaml:"showPageNumber"`
	Text           string `yaml:"text"`
}

// TOCConfig defines table of contents options.
type TOCConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Title    string `yaml:"title"`    // Empty = no title above TOC
	MinDepth int    `yaml:"minDepth"` // 1-6, default 1 (filename headings included)
	MaxDepth int    `yaml:"maxDepth"` // 1-6, default 3
}

// S3Config defines options for s3:// outputs.
type S3Config struct {
	Region       string `yaml:"region"`
	Endpoint     string `yaml:"endpoint"`     // S3-compatible endpoint (empty = AWS)
	UsePathStyle bool   `yaml:"usePathStyle"` // Required by most S3-compatible stores
}

// ParseSize parses a human-readable size such as "10MB" or "50 MiB".
// Empty input returns 0.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("%w: size %q: %v", ErrInvalidValue, s, err)
	}
	if n > 1<<62 {
		return 0, fmt.Errorf("%w: size %q is too large", ErrInvalidValue, s)
	}
	return int64(n), nil
}

// Validate checks field lengths and enum values.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("input.defaultDir", c.Input.DefaultDir, MaxPathLength); err != nil {
		return err
	}

	// Output
	if err := validateFieldLength("output.dir", c.Output.Dir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.name", c.Output.Name, MaxNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.bundleName", c.Output.BundleName, MaxNameLength); err != nil {
		return err
	}
	if c.Output.Format != "" {
		switch strings.ToLower(c.Output.Format) {
		case "pdf", "json", "html":
			// valid
		default:
			return fmt.Errorf("%w: output.format %q (must be pdf, json, or html)", ErrInvalidValue, c.Output.Format)
		}
	}

	// Limits
	if err := validateFieldLength("limits.maxFileSize", c.Limits.MaxFileSize, MaxSizeLength); err != nil {
		return err
	}
	if err := validateFieldLength("limits.maxArchiveSize", c.Limits.MaxArchiveSize, MaxSizeLength); err != nil {
		return err
	}
	if _, err := c.Limits.FileSizeBytes(); err != nil {
		return fmt.Errorf("limits.maxFileSize: %w", err)
	}
	if _, err := c.Limits.ArchiveSizeBytes(); err != nil {
		return fmt.Errorf("limits.maxArchiveSize: %w", err)
	}

	// Style and assets
	if err := validateFieldLength("style", c.Style, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}

	// Page
	if err := validateFieldLength("page.size", c.Page.Size, MaxPageSizeLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.orientation", c.Page.Orientation, MaxOrientationLength); err != nil {
		return err
	}
	if c.Page.Margin < 0 {
		return fmt.Errorf("%w: page.margin must not be negative, got %.2f", ErrInvalidValue, c.Page.Margin)
	}

	// Footer
	if err := validateFieldLength("footer.text", c.Footer.Text, MaxTextLength); err != nil {
		return err
	}
	if c.Footer.Position != "" {
		switch strings.ToLower(c.Footer.Position) {
		case "left", "center", "right":
			// valid
		default:
			return fmt.Errorf("%w: footer.position %q (must be left, center, or right)", ErrInvalidValue, c.Footer.Position)
		}
	}

	// TOC
	if err := validateFieldLength("toc.title", c.TOC.Title, MaxTOCTitleLength); err != nil {
		return err
	}
	if c.TOC.MinDepth != 0 && (c.TOC.MinDepth < 1 || c.TOC.MinDepth > 6) {
		return fmt.Errorf("%w: toc.minDepth must be between 1 and 6, got %d", ErrInvalidValue, c.TOC.MinDepth)
	}
	if c.TOC.MaxDepth != 0 && (c.TOC.MaxDepth < 1 || c.TOC.MaxDepth > 6) {
		return fmt.Errorf("%w: toc.maxDepth must be between 1 and 6, got %d", ErrInvalidValue, c.TOC.MaxDepth)
	}
	if c.TOC.MinDepth != 0 && c.TOC.MaxDepth != 0 && c.TOC.MinDepth > c.TOC.MaxDepth {
		return fmt.Errorf("%w: toc.minDepth (%d) exceeds toc.maxDepth (%d)", ErrInvalidValue, c.TOC.MinDepth, c.TOC.MaxDepth)
	}

	// S3
	if err := validateFieldLength("s3.region", c.S3.Region, MaxRegionLength); err != nil {
		return err
	}
	if err := validateFieldLength("s3.endpoint", c.S3.Endpoint, MaxEndpointLength); err != nil {
		return err
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a neutral configuration: PDF output, headings on,
// default limits, no footer or TOC.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{Format: "pdf"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/ragdoc/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "ragdoc", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
