package main

// Notes:
// - newGlamourRenderer: we test theme and width validation and render with
//   the notty theme so output does not depend on the terminal.
// - runPreview: we test with a mock renderer to check ingestion, headings,
//   combine, and error propagation.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-ragdoc"
)

// ---------------------------------------------------------------------------
// TestNewGlamourRenderer - Terminal renderer construction
// ---------------------------------------------------------------------------

func TestNewGlamourRenderer(t *testing.T) {
	t.Parallel()

	t.Run("notty renders markdown", func(t *testing.T) {
		t.Parallel()

		r, err := newGlamourRenderer("notty", 80)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out, err := r.Render("# Title\n\nSome **bold** text.")
		if err != nil {
			t.Fatalf("Render() error: %v", err)
		}
		if !strings.Contains(out, "Title") || !strings.Contains(out, "bold") {
			t.Errorf("output should contain rendered text, got %q", out)
		}
	})

	tests := []struct {
		name  string
		theme string
		width int
	}{
		{"unknown theme", "neon", 80},
		{"zero width", "dark", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := newGlamourRenderer(tt.theme, tt.width)
			if !errors.Is(err, ErrUsage) {
				t.Errorf("error = %v, want ErrUsage", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunPreview - Preview pipeline
// ---------------------------------------------------------------------------

func TestRunPreview(t *testing.T) {
	t.Parallel()

	t.Run("documents are rendered with headings", func(t *testing.T) {
		t.Parallel()

		in := t.TempDir()
		md := writeFile(t, in, "a.md", "alpha")
		csv := writeFile(t, in, "b.csv", "x,y\n1,2")

		env := newTestEnv(t)
		flags := &previewFlags{theme: "notty", width: 80}

		if err := runPreview(context.Background(), []string{md, csv}, flags, env.Environment); err != nil {
			t.Fatalf("runPreview: %v", err)
		}

		out := env.stdout.String()
		if strings.Count(out, "RENDERED") != 2 {
			t.Errorf("want 2 rendered documents, got %q", out)
		}
		for _, want := range []string{`# a\.md`, "| x | y |"} {
			if !strings.Contains(out, want) {
				t.Errorf("output should contain %q, got %q", want, out)
			}
		}
	})

	t.Run("combine renders once", func(t *testing.T) {
		t.Parallel()

		in := t.TempDir()
		a := writeFile(t, in, "a.md", "alpha")
		b := writeFile(t, in, "b.md", "beta")

		env := newTestEnv(t)
		flags := &previewFlags{combine: true, input: inputFlags{noHeadings: true}}

		if err := runPreview(context.Background(), []string{a, b}, flags, env.Environment); err != nil {
			t.Fatalf("runPreview: %v", err)
		}

		out := env.stdout.String()
		if strings.Count(out, "RENDERED") != 1 {
			t.Errorf("want 1 rendered document, got %q", out)
		}
		if !strings.Contains(out, "alpha"+ragdoc.Separator+"beta") {
			t.Errorf("combined content missing, got %q", out)
		}
	})

	t.Run("render error names the document", func(t *testing.T) {
		t.Parallel()

		in := t.TempDir()
		a := writeFile(t, in, "a.md", "alpha")

		env := newTestEnv(t)
		env.Renderer = func(string, int) (MarkdownRenderer, error) {
			return &mockMarkdownRenderer{err: errMock}, nil
		}

		err := runPreview(context.Background(), []string{a}, &previewFlags{}, env.Environment)
		if !errors.Is(err, errMock) || !strings.Contains(err.Error(), "a.md") {
			t.Errorf("error = %v, want errMock naming a.md", err)
		}
	})

	t.Run("no input", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		err := runPreview(context.Background(), nil, &previewFlags{}, env.Environment)
		if !errors.Is(err, ErrNoInput) {
			t.Errorf("error = %v, want ErrNoInput", err)
		}
	})
}
