package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// inputFlags holds ingestion and normalization flags.
type inputFlags struct {
	maxFileSize    string
	maxArchiveSize string
	noHeadings     bool
}

// outputFlags holds output and packaging flags.
type outputFlags struct {
	dest     string // directory or s3://bucket/prefix
	format   string
	combine  bool
	name     string
	bundle   string
	noBundle bool
	s3Region string
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// footerFlags holds footer-related flags.
type footerFlags struct {
	position   string
	text       string
	pageNumber bool
	disabled   bool
}

// tocFlags holds table of contents flags.
type tocFlags struct {
	enabled  bool
	title    string
	minDepth int
	maxDepth int
	disabled bool
}

// assetFlags holds asset-related flags.
type assetFlags struct {
	style     string // Name, path, or raw CSS
	assetPath string // Override asset directory
	noStyle   bool   // Disable CSS styling
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common  commonFlags
	input   inputFlags
	output  outputFlags
	workers int
	timeout string
	page    pageFlags
	footer  footerFlags
	toc     tocFlags
	assets  assetFlags
}

// previewFlags holds flags for the preview command.
type previewFlags struct {
	common  commonFlags
	input   inputFlags
	combine bool
	theme   string
	width   int
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addInputFlags adds ingestion flags to a FlagSet.
func addInputFlags(fs *flag.FlagSet, f *inputFlags) {
	fs.StringVar(&f.maxFileSize, "max-file-size", "", "per-file size ceiling (e.g. 10MB)")
	fs.StringVar(&f.maxArchiveSize, "max-archive-size", "", "per-archive size ceiling (e.g. 50MB)")
	fs.BoolVar(&f.noHeadings, "no-headings", false, "do not prefix documents with their file name")
}

// addOutputFlags adds output flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.dest, "output", "o", "", "output directory or s3://bucket/prefix")
	fs.StringVarP(&f.format, "format", "f", "", "output format: pdf, json, html")
	fs.BoolVar(&f.combine, "combine", false, "merge all documents into one")
	fs.StringVar(&f.name, "name", "", "name of the combined document")
	fs.StringVar(&f.bundle, "bundle", "", "ZIP name when several files are produced")
	fs.BoolVar(&f.noBundle, "no-bundle", false, "write each file separately instead of a ZIP")
	fs.StringVar(&f.s3Region, "s3-region", "", "AWS region for s3:// outputs")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
}

// addFooterFlags adds footer flags to a FlagSet.
func addFooterFlags(fs *flag.FlagSet, f *footerFlags) {
	fs.StringVar(&f.position, "footer-position", "", "footer position: left, center, right")
	fs.StringVar(&f.text, "footer-text", "", "custom footer text")
	fs.BoolVar(&f.pageNumber, "page-numbers", false, "show page numbers in footer")
	fs.BoolVar(&f.disabled, "no-footer", false, "disable footer")
}

// addTOCFlags adds TOC flags to a FlagSet.
func addTOCFlags(fs *flag.FlagSet, f *tocFlags) {
	fs.BoolVar(&f.enabled, "toc", false, "add a numbered table of contents")
	fs.StringVar(&f.title, "toc-title", "", "table of contents heading")
	fs.IntVar(&f.minDepth, "toc-min-depth", 0, "min heading depth for TOC (1-6, default: 1)")
	fs.IntVar(&f.maxDepth, "toc-max-depth", 0, "max heading depth for TOC (1-6, default: 3)")
	fs.BoolVar(&f.disabled, "no-toc", false, "disable table of contents")
}

// addAssetFlags adds asset-related flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.BoolVar(&f.noStyle, "no-style", false, "disable CSS styling")
}

// registerConvertFlags registers every convert flag on fs.
// Shared by parsing and shell completion.
func registerConvertFlags(fs *flag.FlagSet, f *convertFlags) {
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel PDF workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-document PDF timeout (e.g., 30s, 2m)")

	addCommonFlags(fs, &f.common)
	addInputFlags(fs, &f.input)
	addOutputFlags(fs, &f.output)
	addPageFlags(fs, &f.page)
	addFooterFlags(fs, &f.footer)
	addTOCFlags(fs, &f.toc)
	addAssetFlags(fs, &f.assets)
}

// registerPreviewFlags registers every preview flag on fs.
func registerPreviewFlags(fs *flag.FlagSet, f *previewFlags) {
	addCommonFlags(fs, &f.common)
	addInputFlags(fs, &f.input)
	fs.BoolVar(&f.combine, "combine", false, "merge all documents into one")
	fs.StringVar(&f.theme, "theme", themeAuto, "terminal theme: auto, dark, light, notty, ascii")
	fs.IntVar(&f.width, "width", 100, "word wrap width")
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, usageOut io.Writer) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet(cmdConvert, flag.ContinueOnError)
	fs.SetOutput(usageOut)
	f := &convertFlags{}
	registerConvertFlags(fs, f)
	fs.Usage = func() { printConvertUsage(usageOut) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parsePreviewFlags parses preview command flags and returns positional args.
func parsePreviewFlags(args []string, usageOut io.Writer) (*previewFlags, []string, error) {
	fs := flag.NewFlagSet(cmdPreview, flag.ContinueOnError)
	fs.SetOutput(usageOut)
	f := &previewFlags{}
	registerPreviewFlags(fs, f)
	fs.Usage = func() { printPreviewUsage(usageOut) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
