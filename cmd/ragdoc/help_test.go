package main

// Notes:
// - runHelp: we test each command's help and the unknown-command path.
// - Usage printers: we test that every registered flag is documented.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"strings"
	"testing"

	flag "github.com/spf13/pflag"
)

// ---------------------------------------------------------------------------
// TestRunHelp - Help command
// ---------------------------------------------------------------------------

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantStdout string
		wantStderr string
	}{
		{"no args", nil, "Usage: ragdoc <command>", ""},
		{"convert", []string{"convert"}, "Usage: ragdoc convert", ""},
		{"preview", []string{"preview"}, "Usage: ragdoc preview", ""},
		{"doctor", []string{"doctor"}, "Usage: ragdoc doctor", ""},
		{"version", []string{"version"}, "Usage: ragdoc version", ""},
		{"help", []string{"help"}, "Usage: ragdoc help", ""},
		{"completion", []string{"completion"}, "Usage: ragdoc completion", ""},
		{"unknown", []string{"nope"}, "", "Unknown command: nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			runHelp(tt.args, env.Environment)

			if tt.wantStdout != "" && !strings.Contains(env.stdout.String(), tt.wantStdout) {
				t.Errorf("stdout should contain %q, got %q", tt.wantStdout, env.stdout.String())
			}
			if tt.wantStderr != "" && !strings.Contains(env.stderr.String(), tt.wantStderr) {
				t.Errorf("stderr should contain %q, got %q", tt.wantStderr, env.stderr.String())
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestUsageDocumentsAllFlags - Help stays in sync with flag definitions
// ---------------------------------------------------------------------------

func TestUsageDocumentsAllFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		parse func() *flag.FlagSet
		print func(*bytes.Buffer)
	}{
		{
			name: "convert",
			parse: func() *flag.FlagSet {
				fs := flag.NewFlagSet(cmdConvert, flag.ContinueOnError)
				registerConvertFlags(fs, &convertFlags{})
				return fs
			},
			print: func(b *bytes.Buffer) { printConvertUsage(b) },
		},
		{
			name: "preview",
			parse: func() *flag.FlagSet {
				fs := flag.NewFlagSet(cmdPreview, flag.ContinueOnError)
				registerPreviewFlags(fs, &previewFlags{})
				return fs
			},
			print: func(b *bytes.Buffer) { printPreviewUsage(b) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			tt.print(&buf)
			usage := buf.String()

			tt.parse().VisitAll(func(f *flag.Flag) {
				if !strings.Contains(usage, "--"+f.Name) {
					t.Errorf("usage does not document --%s", f.Name)
				}
			})
		})
	}
}
