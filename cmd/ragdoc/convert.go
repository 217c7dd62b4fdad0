package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-ragdoc"
	"github.com/alnah/go-ragdoc/internal/config"
	"github.com/alnah/go-ragdoc/internal/sink"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrUsage              = errors.New("invalid usage")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidTimeout     = errors.New("invalid timeout")
	ErrRender             = errors.New("rendering failed")
)

// runConvert runs the full pipeline: discover, ingest, normalize, aggregate,
// render, package, and store.
func runConvert(ctx context.Context, args []string, flags *convertFlags, env *Environment) error {
	logger := env.Logger
	start := env.Now()

	envCfg := loadEnvConfig(logger)
	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return err
	}
	timeout, err := resolveTimeoutWithEnv(flags.timeout, envCfg.Timeout)
	if err != nil {
		return err
	}

	params, err := buildParams(cfg)
	if err != nil {
		return err
	}
	params.noBundle = flags.output.noBundle
	params.noStyle = flags.assets.noStyle

	docs, err := loadDocuments(ctx, args, cfg, params, logger)
	if err != nil {
		return err
	}

	var artifacts []ragdoc.Artifact
	switch params.render.Format {
	case ragdoc.FormatJSON:
		artifacts, err = ragdoc.RenderJSON(docs, params.combine, params.name)
	default:
		docs = ragdoc.Aggregate(docs, params.combine, params.name)
		artifacts, err = renderBatch(ctx, docs, params, buildConverterOptions(cfg, params, timeout, logger), workers, env)
	}
	if err != nil {
		return err
	}

	out, err := env.NewSink(ctx, cfg.Output.Dir, params.s3)
	if err != nil {
		return err
	}

	locations, err := storeArtifacts(ctx, out, artifacts, params)
	if err != nil {
		return err
	}

	if !flags.common.quiet {
		for _, loc := range locations {
			fmt.Fprintf(env.Stdout, "Created %s\n", loc)
		}
	}
	logger.Debug("conversion finished",
		zap.Int("documents", len(docs)),
		zap.Int("artifacts", len(artifacts)),
		zap.Duration("elapsed", env.Now().Sub(start).Round(time.Millisecond)),
	)
	return nil
}

// loadDocuments discovers inputs, ingests them, and normalizes the result.
// Skipped archive members and documents with no content are logged as
// warnings.
func loadDocuments(ctx context.Context, args []string, cfg *config.Config, params *conversionParams, logger *zap.Logger) ([]ragdoc.Document, error) {
	inputs, err := resolveInputs(args, cfg)
	if err != nil {
		return nil, err
	}

	sources, err := discoverSources(inputs)
	if err != nil {
		return nil, err
	}
	logger.Debug("discovered sources", zap.Int("count", len(sources)))

	res, err := ragdoc.Ingest(ctx, sources, params.limits)
	if err != nil {
		return nil, err
	}
	for _, s := range res.Skipped {
		logger.Warn("skipped archive member",
			zap.String("archive", s.Archive),
			zap.String("member", s.Name),
			zap.String("reason", s.Reason),
		)
	}

	docs := ragdoc.Normalize(res.Files, params.normalize)
	kept := docs[:0]
	for _, d := range docs {
		if strings.TrimSpace(d.Content) == "" {
			logger.Warn("skipped empty document", zap.String("name", d.Name))
			continue
		}
		kept = append(kept, d)
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("%w: every input is empty", ragdoc.ErrNoDocuments)
	}
	return kept, nil
}

// loadConfig loads the config named by the flag, then the environment,
// falling back to defaults when neither is set.
func loadConfig(flagConfig string, env *envConfig) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = env.ConfigPath
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	// Output
	if flags.output.dest != "" {
		cfg.Output.Dir = flags.output.dest
	}
	if flags.output.format != "" {
		cfg.Output.Format = flags.output.format
	}
	if flags.output.combine {
		cfg.Output.Combine = true
	}
	if flags.output.name != "" {
		cfg.Output.Name = flags.output.name
	}
	if flags.output.bundle != "" {
		cfg.Output.BundleName = flags.output.bundle
	}
	if flags.output.s3Region != "" {
		cfg.S3.Region = flags.output.s3Region
	}

	mergeInputFlags(flags.input, cfg)

	// Style
	if flags.assets.style != "" {
		cfg.Style = flags.assets.style
	}
	if flags.assets.assetPath != "" {
		cfg.Assets.BasePath = flags.assets.assetPath
	}

	// Page
	if flags.page.size != "" {
		cfg.Page.Size = flags.page.size
	}
	if flags.page.orientation != "" {
		cfg.Page.Orientation = flags.page.orientation
	}
	if flags.page.margin != 0 {
		cfg.Page.Margin = flags.page.margin
	}

	// Footer: any footer flag enables it, --no-footer wins
	if flags.footer.position != "" {
		cfg.Footer.Position = flags.footer.position
		cfg.Footer.Enabled = true
	}
	if flags.footer.text != "" {
		cfg.Footer.Text = flags.footer.text
		cfg.Footer.Enabled = true
	}
	if flags.footer.pageNumber {
		cfg.Footer.ShowPageNumber = true
		cfg.Footer.Enabled = true
	}
	if flags.footer.disabled {
		cfg.Footer.Enabled = false
	}

	// TOC: --no-toc wins
	if flags.toc.enabled || flags.toc.title != "" {
		cfg.TOC.Enabled = true
	}
	if flags.toc.title != "" {
		cfg.TOC.Title = flags.toc.title
	}
	if flags.toc.minDepth != 0 {
		cfg.TOC.MinDepth = flags.toc.minDepth
	}
	if flags.toc.maxDepth != 0 {
		cfg.TOC.MaxDepth = flags.toc.maxDepth
	}
	if flags.toc.disabled {
		cfg.TOC.Enabled = false
	}
}

// mergeInputFlags merges ingestion flags into config.
func mergeInputFlags(f inputFlags, cfg *config.Config) {
	if f.maxFileSize != "" {
		cfg.Limits.MaxFileSize = f.maxFileSize
	}
	if f.maxArchiveSize != "" {
		cfg.Limits.MaxArchiveSize = f.maxArchiveSize
	}
	if f.noHeadings {
		off := false
		cfg.Output.Headings = &off
	}
}

// resolveTimeoutWithEnv picks the timeout: flag > env > library default (0).
func resolveTimeoutWithEnv(flagValue string, envValue time.Duration) (time.Duration, error) {
	if flagValue != "" {
		d, err := time.ParseDuration(flagValue)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimeout, flagValue, err)
		}
		if d <= 0 {
			return 0, fmt.Errorf("%w: %q (must be positive)", ErrInvalidTimeout, flagValue)
		}
		return d, nil
	}
	return envValue, nil
}

// storeArtifacts writes artifacts to the sink, bundling several into one ZIP
// unless bundling is disabled. Unbundled names are made unique so no write
// replaces another. Returns the written locations in order.
func storeArtifacts(ctx context.Context, out sink.Sink, artifacts []ragdoc.Artifact, params *conversionParams) ([]string, error) {
	toWrite := ragdoc.UniqueNames(artifacts)
	if !params.noBundle {
		bundle, err := ragdoc.Package(artifacts, params.bundleName)
		if err != nil {
			return nil, err
		}
		toWrite = []ragdoc.Artifact{bundle}
	}

	locations := make([]string, 0, len(toWrite))
	for _, a := range toWrite {
		loc, err := out.Write(ctx, a.Name, a.Data)
		if err != nil {
			return locations, fmt.Errorf("writing %s: %w", a.Name, err)
		}
		locations = append(locations, loc)
	}
	return locations, nil
}
