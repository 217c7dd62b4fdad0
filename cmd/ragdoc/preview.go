package main

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/alnah/go-ragdoc"
)

// themeAuto picks a dark or light theme from the terminal background.
const themeAuto = "auto"

// previewThemes lists the accepted --theme values.
var previewThemes = []string{themeAuto, "dark", "light", "notty", "ascii", "dracula", "pink", "tokyo-night"}

// MarkdownRenderer renders Markdown for terminal display.
type MarkdownRenderer interface {
	Render(markdown string) (string, error)
}

// Compile-time interface implementation check.
var _ MarkdownRenderer = (*glamour.TermRenderer)(nil)

// newGlamourRenderer builds a glamour renderer for the given theme and width.
func newGlamourRenderer(theme string, width int) (MarkdownRenderer, error) {
	if !slices.Contains(previewThemes, theme) {
		return nil, fmt.Errorf("%w: theme %q (must be one of %s)", ErrUsage, theme, strings.Join(previewThemes, ", "))
	}
	if width < 1 {
		return nil, fmt.Errorf("%w: width %d (must be positive)", ErrUsage, width)
	}

	styleOpt := glamour.WithStandardStyle(theme)
	if theme == themeAuto {
		styleOpt = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return nil, fmt.Errorf("creating terminal renderer: %w", err)
	}
	return r, nil
}

// runPreview ingests and normalizes the inputs like convert does, then prints
// each document rendered for the terminal.
func runPreview(ctx context.Context, args []string, flags *previewFlags, env *Environment) error {
	renderer, err := env.Renderer(flags.theme, flags.width)
	if err != nil {
		return err
	}

	envCfg := loadEnvConfig(env.Logger)
	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeInputFlags(flags.input, cfg)
	if flags.combine {
		cfg.Output.Combine = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	limits, err := buildLimits(cfg)
	if err != nil {
		return err
	}
	params := &conversionParams{
		limits:    limits,
		normalize: ragdoc.NormalizeOptions{Headings: cfg.Output.HeadingsEnabled()},
	}

	docs, err := loadDocuments(ctx, args, cfg, params, env.Logger)
	if err != nil {
		return err
	}
	docs = ragdoc.Aggregate(docs, cfg.Output.Combine, cfg.Output.Name)

	for i, doc := range docs {
		out, err := renderer.Render(doc.Content)
		if err != nil {
			return fmt.Errorf("%s: rendering preview: %w", doc.Name, err)
		}
		if i > 0 {
			fmt.Fprintln(env.Stdout)
		}
		fmt.Fprint(env.Stdout, out)
	}
	return nil
}
