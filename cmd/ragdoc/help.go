package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ragdoc <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert Markdown, CSV, text and ZIP files to PDF, JSON or HTML")
	fmt.Fprintln(w, "  preview    Render the normalized Markdown in the terminal")
	fmt.Fprintln(w, "  doctor     Check browser and environment for PDF rendering")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The convert command is implied when the first argument is a file or directory.")
	fmt.Fprintln(w, "Run 'ragdoc help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ragdoc convert [inputs...] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert documents for RAG ingestion.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  inputs   Files (.md .markdown .csv .txt .zip) or directories")
	fmt.Fprintln(w, "           (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input:")
	fmt.Fprintln(w, "      --max-file-size <s>    Per-file ceiling (default 10MiB)")
	fmt.Fprintln(w, "      --max-archive-size <s> Per-archive ceiling (default 50MiB)")
	fmt.Fprintln(w, "      --no-headings          Do not prefix documents with their file name")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>        Output directory or s3://bucket/prefix")
	fmt.Fprintln(w, "  -f, --format <s>           Format: pdf, json, html (default pdf)")
	fmt.Fprintln(w, "      --combine              Merge all documents into one")
	fmt.Fprintln(w, "      --name <s>             Combined document name (default combined)")
	fmt.Fprintln(w, "      --bundle <s>           ZIP name for several outputs (default ragdoc-output.zip)")
	fmt.Fprintln(w, "      --no-bundle            Write each output separately")
	fmt.Fprintln(w, "      --s3-region <s>        AWS region for s3:// outputs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -c, --config <name>        Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>          Parallel PDF workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>          Per-document PDF timeout (e.g. 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-size <s>        Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --orientation <s>      Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>           Margin in inches (0.25-3.0)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Footer:")
	fmt.Fprintln(w, "      --footer-position <s>  Position: left, center, right")
	fmt.Fprintln(w, "      --footer-text <s>      Custom footer text")
	fmt.Fprintln(w, "      --page-numbers         Show page numbers")
	fmt.Fprintln(w, "      --no-footer            Disable footer")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Table of Contents:")
	fmt.Fprintln(w, "      --toc                  Add a numbered table of contents")
	fmt.Fprintln(w, "      --toc-title <s>        TOC heading text")
	fmt.Fprintln(w, "      --toc-min-depth <n>    Min heading depth (1-6)")
	fmt.Fprintln(w, "      --toc-max-depth <n>    Max heading depth (1-6)")
	fmt.Fprintln(w, "      --no-toc               Disable table of contents")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <s>            Style name, CSS file path, or raw CSS")
	fmt.Fprintln(w, "      --asset-path <dir>     Custom asset directory")
	fmt.Fprintln(w, "      --no-style             Disable CSS styling")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                Only show errors")
	fmt.Fprintln(w, "  -v, --verbose              Show debug logs and timing")
}

// printPreviewUsage prints usage for the preview command.
func printPreviewUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ragdoc preview [inputs...] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render the normalized Markdown in the terminal.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --combine              Merge all documents into one")
	fmt.Fprintln(w, "      --theme <s>            Theme: auto, dark, light, notty, ascii")
	fmt.Fprintln(w, "      --width <n>            Word wrap width (default 100)")
	fmt.Fprintln(w, "      --no-headings          Do not prefix documents with their file name")
	fmt.Fprintln(w, "      --max-file-size <s>    Per-file ceiling")
	fmt.Fprintln(w, "      --max-archive-size <s> Per-archive ceiling")
	fmt.Fprintln(w, "  -c, --config <name>        Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet                Only show errors")
	fmt.Fprintln(w, "  -v, --verbose              Show debug logs")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ragdoc doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check system configuration for PDF generation.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                 Output in JSON format")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case cmdConvert:
		printConvertUsage(env.Stdout)
	case cmdPreview:
		printPreviewUsage(env.Stdout)
	case cmdDoctor:
		printDoctorUsage(env.Stdout)
	case cmdVersion:
		fmt.Fprintln(env.Stdout, "Usage: ragdoc version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case cmdHelp:
		fmt.Fprintln(env.Stdout, "Usage: ragdoc help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	case cmdCompletion:
		printCompletionUsage(env.Stdout)
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
