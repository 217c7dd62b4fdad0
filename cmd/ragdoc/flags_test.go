package main

// Notes:
// - parseConvertFlags/parsePreviewFlags: we test short and long forms, flag
//   groups, positional args interleaved with flags, and parse errors.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	flag "github.com/spf13/pflag"
)

// ---------------------------------------------------------------------------
// TestParseConvertFlags - Convert command flags
// ---------------------------------------------------------------------------

func TestParseConvertFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		wantArgs []string
		check    func(t *testing.T, f *convertFlags)
	}{
		{
			name:     "positional only",
			args:     []string{"a.md", "docs/"},
			wantArgs: []string{"a.md", "docs/"},
			check: func(t *testing.T, f *convertFlags) {
				if f.output.format != "" || f.workers != 0 {
					t.Errorf("defaults changed: %+v", f)
				}
			},
		},
		{
			name:     "short flags",
			args:     []string{"-o", "out", "-f", "json", "-w", "3", "-t", "1m", "-c", "work", "-q", "-v", "-p", "a4", "in.zip"},
			wantArgs: []string{"in.zip"},
			check: func(t *testing.T, f *convertFlags) {
				if f.output.dest != "out" || f.output.format != "json" {
					t.Errorf("output = %+v", f.output)
				}
				if f.workers != 3 || f.timeout != "1m" {
					t.Errorf("workers = %d, timeout = %q", f.workers, f.timeout)
				}
				if f.common.config != "work" || !f.common.quiet || !f.common.verbose {
					t.Errorf("common = %+v", f.common)
				}
				if f.page.size != "a4" {
					t.Errorf("page = %+v", f.page)
				}
			},
		},
		{
			name: "long flags across groups",
			args: []string{
				"--combine", "--name", "kb", "--bundle", "all.zip", "--no-bundle", "--s3-region", "eu-west-3",
				"--max-file-size", "1MB", "--max-archive-size", "9MB", "--no-headings",
				"--toc", "--toc-title", "Contents", "--toc-min-depth", "2", "--toc-max-depth", "4",
				"--footer-text", "Draft", "--footer-position", "left", "--page-numbers",
				"--style", "compact", "--asset-path", "/assets", "--no-style",
				"--orientation", "landscape", "--margin", "1.5",
			},
			check: func(t *testing.T, f *convertFlags) {
				want := outputFlags{combine: true, name: "kb", bundle: "all.zip", noBundle: true, s3Region: "eu-west-3"}
				if f.output != want {
					t.Errorf("output = %+v, want %+v", f.output, want)
				}
				if f.input != (inputFlags{maxFileSize: "1MB", maxArchiveSize: "9MB", noHeadings: true}) {
					t.Errorf("input = %+v", f.input)
				}
				if f.toc != (tocFlags{enabled: true, title: "Contents", minDepth: 2, maxDepth: 4}) {
					t.Errorf("toc = %+v", f.toc)
				}
				if f.footer != (footerFlags{text: "Draft", position: "left", pageNumber: true}) {
					t.Errorf("footer = %+v", f.footer)
				}
				if f.assets != (assetFlags{style: "compact", assetPath: "/assets", noStyle: true}) {
					t.Errorf("assets = %+v", f.assets)
				}
				if f.page != (pageFlags{orientation: "landscape", margin: 1.5}) {
					t.Errorf("page = %+v", f.page)
				}
			},
		},
		{
			name:     "interleaved positional args",
			args:     []string{"a.md", "--combine", "b.csv"},
			wantArgs: []string{"a.md", "b.csv"},
			check: func(t *testing.T, f *convertFlags) {
				if !f.output.combine {
					t.Error("combine should be set")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, args, err := parseConvertFlags(tt.args, &bytes.Buffer{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.wantArgs, args, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("args mismatch (-want +got):\n%s", diff)
			}
			tt.check(t, f)
		})
	}
}

func TestParseConvertFlags_Errors(t *testing.T) {
	t.Parallel()

	t.Run("unknown flag", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		if _, _, err := parseConvertFlags([]string{"--bogus"}, &out); err == nil {
			t.Fatal("expected error for unknown flag")
		}
		if !strings.Contains(out.String(), "Usage: ragdoc convert") {
			t.Errorf("usage should be printed, got %q", out.String())
		}
	})

	t.Run("bad int", func(t *testing.T) {
		t.Parallel()

		if _, _, err := parseConvertFlags([]string{"-w", "many"}, &bytes.Buffer{}); err == nil {
			t.Fatal("expected error for non-numeric workers")
		}
	})

	t.Run("help", func(t *testing.T) {
		t.Parallel()

		_, _, err := parseConvertFlags([]string{"--help"}, &bytes.Buffer{})
		if !errors.Is(err, flag.ErrHelp) {
			t.Errorf("error = %v, want flag.ErrHelp", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestParsePreviewFlags - Preview command flags
// ---------------------------------------------------------------------------

func TestParsePreviewFlags(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		f, args, err := parsePreviewFlags([]string{"a.md"}, &bytes.Buffer{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.theme != "auto" || f.width != 100 || f.combine {
			t.Errorf("flags = %+v", f)
		}
		if diff := cmp.Diff([]string{"a.md"}, args); diff != "" {
			t.Errorf("args mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		t.Parallel()

		f, _, err := parsePreviewFlags([]string{"--theme", "notty", "--width", "60", "--combine", "--no-headings", "-c", "work"}, &bytes.Buffer{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.theme != "notty" || f.width != 60 || !f.combine || !f.input.noHeadings || f.common.config != "work" {
			t.Errorf("flags = %+v", f)
		}
	})

	t.Run("convert-only flag is rejected", func(t *testing.T) {
		t.Parallel()

		if _, _, err := parsePreviewFlags([]string{"--format", "pdf"}, &bytes.Buffer{}); err == nil {
			t.Fatal("expected error for --format on preview")
		}
	})
}
