package main

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-ragdoc"
	"github.com/alnah/go-ragdoc/internal/config"
	"github.com/alnah/go-ragdoc/internal/sink"
)

// conversionParams groups parameters shared across the pipeline stages.
type conversionParams struct {
	limits     ragdoc.Limits
	normalize  ragdoc.NormalizeOptions
	render     ragdoc.RenderOptions
	combine    bool
	name       string
	bundleName string
	noBundle   bool // Write each artifact separately
	noStyle    bool // Render without a stylesheet
	s3         sink.S3Options
}

// buildParams creates conversion parameters from the merged config.
func buildParams(cfg *config.Config) (*conversionParams, error) {
	limits, err := buildLimits(cfg)
	if err != nil {
		return nil, err
	}

	format, err := ragdoc.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}

	page, err := buildPageSettings(cfg)
	if err != nil {
		return nil, err
	}

	return &conversionParams{
		limits:    limits,
		normalize: ragdoc.NormalizeOptions{Headings: cfg.Output.HeadingsEnabled()},
		render: ragdoc.RenderOptions{
			Format: format,
			Page:   page,
			Footer: buildFooterData(cfg),
			TOC:    buildTOCData(cfg),
		},
		combine:    cfg.Output.Combine,
		name:       cfg.Output.Name,
		bundleName: cfg.Output.BundleName,
		s3: sink.S3Options{
			Region:       cfg.S3.Region,
			Endpoint:     cfg.S3.Endpoint,
			UsePathStyle: cfg.S3.UsePathStyle,
		},
	}, nil
}

// buildLimits parses the human-readable size ceilings.
// Empty values leave the library defaults in place.
func buildLimits(cfg *config.Config) (ragdoc.Limits, error) {
	fileSize, err := cfg.Limits.FileSizeBytes()
	if err != nil {
		return ragdoc.Limits{}, fmt.Errorf("limits.maxFileSize: %w", err)
	}
	archiveSize, err := cfg.Limits.ArchiveSizeBytes()
	if err != nil {
		return ragdoc.Limits{}, fmt.Errorf("limits.maxArchiveSize: %w", err)
	}
	return ragdoc.Limits{MaxFileSize: fileSize, MaxArchiveSize: archiveSize}, nil
}

// buildFooterData creates ragdoc.Footer from config.
func buildFooterData(cfg *config.Config) *ragdoc.Footer {
	if !cfg.Footer.Enabled {
		return nil
	}
	return &ragdoc.Footer{
		Position:       cfg.Footer.Position,
		ShowPageNumber: cfg.Footer.ShowPageNumber,
		Text:           cfg.Footer.Text,
	}
}

// buildPageSettings creates ragdoc.PageSettings from config.
// Flags are merged into config by mergeFlags before this is called.
func buildPageSettings(cfg *config.Config) (*ragdoc.PageSettings, error) {
	hasConfig := cfg.Page.Size != "" || cfg.Page.Orientation != "" || cfg.Page.Margin > 0
	if !hasConfig {
		return nil, nil
	}

	ps := &ragdoc.PageSettings{
		Size:        cfg.Page.Size,
		Orientation: cfg.Page.Orientation,
		Margin:      cfg.Page.Margin,
	}

	// Apply defaults
	if ps.Size == "" {
		ps.Size = ragdoc.PageSizeLetter
	}
	if ps.Orientation == "" {
		ps.Orientation = ragdoc.OrientationPortrait
	}
	if ps.Margin == 0 {
		ps.Margin = ragdoc.DefaultMargin
	}

	if err := ps.Validate(); err != nil {
		return nil, err
	}
	return ps, nil
}

// buildTOCData creates ragdoc.TOC from config.
func buildTOCData(cfg *config.Config) *ragdoc.TOC {
	if !cfg.TOC.Enabled {
		return nil
	}
	return &ragdoc.TOC{
		Title:    cfg.TOC.Title,
		MinDepth: cfg.TOC.MinDepth,
		MaxDepth: cfg.TOC.MaxDepth,
	}
}

// buildConverterOptions maps config onto converter options for each pool member.
func buildConverterOptions(cfg *config.Config, params *conversionParams, timeout time.Duration, logger *zap.Logger) []ragdoc.Option {
	opts := []ragdoc.Option{ragdoc.WithLogger(logger)}
	if timeout > 0 {
		opts = append(opts, ragdoc.WithTimeout(timeout))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, ragdoc.WithAssetPath(cfg.Assets.BasePath))
	}
	switch {
	case params.noStyle:
		opts = append(opts, ragdoc.WithoutStyle())
	case cfg.Style != "":
		opts = append(opts, ragdoc.WithStyle(cfg.Style))
	}
	return opts
}
