package main

// Notes:
// - runConvert: we drive the full pipeline with a mock pool and a real
//   filesystem sink. JSON output needs no browser so it runs end to end.
//   PDF rendering itself is covered by the library's integration tests.
// - mergeFlags: we test override, preserve, and auto-enable behavior.
// - resolveTimeoutWithEnv: we test parsing, validation, and priority.
// - storeArtifacts: we test bundling and --no-bundle against an in-memory sink.
// - loadDocuments: empty documents are skipped with a warning; a run where
//   every input is empty fails with ErrNoDocuments.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/alnah/go-ragdoc"
	"github.com/alnah/go-ragdoc/internal/config"
)

// zipEntries returns entry name to content for a ZIP file on disk.
func zipEntries(t *testing.T, path string) map[string]string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading bundle: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("opening bundle: %v", err)
	}
	out := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("opening %s: %v", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			t.Fatalf("reading %s: %v", f.Name, err)
		}
		out[f.Name] = string(b)
	}
	return out
}

// ---------------------------------------------------------------------------
// TestRunConvert_JSON - JSON output end to end
// ---------------------------------------------------------------------------

func TestRunConvert_JSON(t *testing.T) {
	t.Parallel()

	t.Run("several documents are bundled", func(t *testing.T) {
		t.Parallel()

		in, out := t.TempDir(), t.TempDir()
		md := writeFile(t, in, "notes.md", "# Notes\n\nbody")
		csv := writeFile(t, in, "data.csv", "a,b\n1,2\n")

		env := newTestEnv(t)
		flags := &convertFlags{output: outputFlags{dest: out, format: "json"}}

		if err := runConvert(context.Background(), []string{md, csv}, flags, env.Environment); err != nil {
			t.Fatalf("runConvert: %v", err)
		}

		bundle := filepath.Join(out, ragdoc.DefaultBundleName)
		entries := zipEntries(t, bundle)
		if _, ok := entries["notes.json"]; !ok {
			t.Errorf("bundle missing notes.json, got %v", entries)
		}
		if !strings.Contains(entries["data.json"], `| a | b |`) {
			t.Errorf("data.json should hold a Markdown table, got %s", entries["data.json"])
		}
		if !strings.Contains(env.stdout.String(), "Created "+bundle) {
			t.Errorf("stdout = %q, want Created line", env.stdout.String())
		}
	})

	t.Run("combine writes one file without a bundle", func(t *testing.T) {
		t.Parallel()

		in, out := t.TempDir(), t.TempDir()
		a := writeFile(t, in, "a.md", "alpha")
		b := writeFile(t, in, "b.txt", "beta")

		env := newTestEnv(t)
		flags := &convertFlags{
			input:  inputFlags{noHeadings: true},
			output: outputFlags{dest: out, format: "json", combine: true, name: "kb"},
		}

		if err := runConvert(context.Background(), []string{a, b}, flags, env.Environment); err != nil {
			t.Fatalf("runConvert: %v", err)
		}

		data, err := os.ReadFile(filepath.Join(out, "kb.json"))
		if err != nil {
			t.Fatalf("reading kb.json: %v", err)
		}
		var got []struct {
			Name    string `json:"name"`
			Content string `json:"content"`
		}
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("decoding: %v", err)
		}
		want := []struct {
			Name    string `json:"name"`
			Content string `json:"content"`
		}{{Name: "kb", Content: "alpha" + ragdoc.Separator + "beta"}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("combined document mismatch (-want +got):\n%s", diff)
		}
		if _, err := os.Stat(filepath.Join(out, ragdoc.DefaultBundleName)); !os.IsNotExist(err) {
			t.Error("single artifact should not be bundled")
		}
	})

	t.Run("no-bundle writes same-stem documents to distinct files", func(t *testing.T) {
		t.Parallel()

		in, out := t.TempDir(), t.TempDir()
		md := writeFile(t, in, "notes.md", "from markdown")
		csv := writeFile(t, in, "notes.csv", "a,b\n1,2\n")

		env := newTestEnv(t)
		flags := &convertFlags{output: outputFlags{dest: out, format: "json", noBundle: true}}

		if err := runConvert(context.Background(), []string{md, csv}, flags, env.Environment); err != nil {
			t.Fatalf("runConvert: %v", err)
		}

		entries, err := os.ReadDir(out)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 2 {
			t.Fatalf("2 documents produced %d output files", len(entries))
		}
		var all strings.Builder
		for _, e := range entries {
			data, err := os.ReadFile(filepath.Join(out, e.Name()))
			if err != nil {
				t.Fatal(err)
			}
			all.Write(data)
		}
		for _, want := range []string{"from markdown", "| a | b |"} {
			if !strings.Contains(all.String(), want) {
				t.Errorf("outputs missing %q", want)
			}
		}
		if got := strings.Count(env.stdout.String(), "Created "); got != 2 {
			t.Errorf("Created lines = %d, want 2", got)
		}
	})

	t.Run("archive members are ingested and skips are logged", func(t *testing.T) {
		t.Parallel()

		in, out := t.TempDir(), t.TempDir()
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		for name, body := range map[string]string{"docs/a.md": "alpha", "image.png": "png"} {
			w, err := zw.Create(name)
			if err != nil {
				t.Fatal(err)
			}
			_, _ = w.Write([]byte(body))
		}
		if err := zw.Close(); err != nil {
			t.Fatal(err)
		}
		archive := writeFile(t, in, "pack.zip", buf.String())

		env := newTestEnv(t)
		flags := &convertFlags{output: outputFlags{dest: out, format: "json"}}

		if err := runConvert(context.Background(), []string{archive}, flags, env.Environment); err != nil {
			t.Fatalf("runConvert: %v", err)
		}

		if _, err := os.Stat(filepath.Join(out, "docs-a.json")); err != nil {
			t.Errorf("expected docs-a.json: %v", err)
		}
		skipped := env.logs.FilterMessage("skipped archive member").All()
		if len(skipped) != 1 {
			t.Fatalf("skipped logs = %d, want 1", len(skipped))
		}
		if got := skipped[0].ContextMap()["member"]; got != "image.png" {
			t.Errorf("skipped member = %v, want image.png", got)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunConvert_Rendered - HTML/PDF output through the pool
// ---------------------------------------------------------------------------

func TestRunConvert_Rendered(t *testing.T) {
	t.Parallel()

	t.Run("no-bundle writes each artifact", func(t *testing.T) {
		t.Parallel()

		in, out := t.TempDir(), t.TempDir()
		writeFile(t, in, "a.md", "alpha")
		writeFile(t, in, "sub/b.md", "beta")

		env := newTestEnv(t)
		flags := &convertFlags{output: outputFlags{dest: out, format: "html", noBundle: true}}

		if err := runConvert(context.Background(), []string{in}, flags, env.Environment); err != nil {
			t.Fatalf("runConvert: %v", err)
		}

		for _, name := range []string{"a.html", "sub-b.html"} {
			data, err := os.ReadFile(filepath.Join(out, name))
			if err != nil {
				t.Errorf("missing %s: %v", name, err)
				continue
			}
			if !strings.HasPrefix(string(data), "rendered:") {
				t.Errorf("%s = %q, want rendered content", name, data)
			}
		}
		if !env.pool.closed {
			t.Error("pool should be closed after the batch")
		}
		if env.pool.acquired != env.pool.released {
			t.Errorf("acquired %d, released %d", env.pool.acquired, env.pool.released)
		}
	})

	t.Run("combine renders once", func(t *testing.T) {
		t.Parallel()

		in, out := t.TempDir(), t.TempDir()
		a := writeFile(t, in, "a.md", "alpha")
		b := writeFile(t, in, "b.md", "beta")

		env := newTestEnv(t)
		r := &mockRenderer{}
		env.pool.renderer = r
		flags := &convertFlags{output: outputFlags{dest: out, combine: true}}

		if err := runConvert(context.Background(), []string{a, b}, flags, env.Environment); err != nil {
			t.Fatalf("runConvert: %v", err)
		}

		if diff := cmp.Diff([]string{"combined"}, r.rendered()); diff != "" {
			t.Errorf("rendered mismatch (-want +got):\n%s", diff)
		}
		data, err := os.ReadFile(filepath.Join(out, "combined.pdf"))
		if err != nil {
			t.Fatalf("reading combined.pdf: %v", err)
		}
		if !strings.Contains(string(data), ragdoc.Separator) {
			t.Errorf("combined content should contain the separator, got %q", data)
		}
	})

	t.Run("empty documents are skipped with a warning", func(t *testing.T) {
		t.Parallel()

		in, out := t.TempDir(), t.TempDir()
		a := writeFile(t, in, "a.md", "alpha")
		empty := writeFile(t, in, "empty.txt", " \n\n")
		blank := writeFile(t, in, "blank.csv", "\n\n")

		env := newTestEnv(t)
		r := &mockRenderer{}
		env.pool.renderer = r
		flags := &convertFlags{
			input:  inputFlags{noHeadings: true},
			output: outputFlags{dest: out, noBundle: true},
		}

		if err := runConvert(context.Background(), []string{a, empty, blank}, flags, env.Environment); err != nil {
			t.Fatalf("runConvert: %v", err)
		}

		if diff := cmp.Diff([]string{"a.md"}, r.rendered()); diff != "" {
			t.Errorf("rendered mismatch (-want +got):\n%s", diff)
		}
		var skipped []string
		for _, e := range env.logs.FilterMessage("skipped empty document").All() {
			skipped = append(skipped, e.ContextMap()["name"].(string))
		}
		slices.Sort(skipped)
		if diff := cmp.Diff([]string{"blank.csv", "empty.txt"}, skipped); diff != "" {
			t.Errorf("skipped mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("render failure fails the run", func(t *testing.T) {
		t.Parallel()

		in, out := t.TempDir(), t.TempDir()
		a := writeFile(t, in, "a.md", "alpha")

		env := newTestEnv(t)
		env.pool.renderer = &mockRenderer{failFor: map[string]error{"a.md": ragdoc.ErrBrowserConnect}}
		flags := &convertFlags{output: outputFlags{dest: out}}

		err := runConvert(context.Background(), []string{a}, flags, env.Environment)
		if !errors.Is(err, ErrRender) || !errors.Is(err, ragdoc.ErrBrowserConnect) {
			t.Fatalf("error = %v, want ErrRender wrapping ErrBrowserConnect", err)
		}
		if exitCodeFor(err) != ExitBrowser {
			t.Errorf("exit code = %d, want %d", exitCodeFor(err), ExitBrowser)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunConvert_Errors - Validation and input errors
// ---------------------------------------------------------------------------

func TestRunConvert_Errors(t *testing.T) {
	t.Parallel()

	in := t.TempDir()
	md := writeFile(t, in, "a.md", "alpha")
	pdf := writeFile(t, in, "a.pdf", "%PDF")
	empty := writeFile(t, in, "empty.md", "")

	tests := []struct {
		name    string
		args    []string
		flags   *convertFlags
		wantErr error
	}{
		{"no input", nil, &convertFlags{}, ErrNoInput},
		{"missing file", []string{filepath.Join(in, "nope.md")}, &convertFlags{}, os.ErrNotExist},
		{"unsupported file", []string{pdf}, &convertFlags{}, ragdoc.ErrUnsupportedFile},
		{"invalid workers", []string{md}, &convertFlags{workers: 99}, ErrInvalidWorkerCount},
		{"invalid timeout", []string{md}, &convertFlags{timeout: "soon"}, ErrInvalidTimeout},
		{"invalid format", []string{md}, &convertFlags{output: outputFlags{format: "docx"}}, config.ErrInvalidValue},
		{"invalid size", []string{md}, &convertFlags{input: inputFlags{maxFileSize: "lots"}}, config.ErrInvalidValue},
		{"file over limit", []string{md}, &convertFlags{input: inputFlags{maxFileSize: "2B"}}, ragdoc.ErrFileTooLarge},
		{"missing config", []string{md}, &convertFlags{common: commonFlags{config: "./does/not/exist.yaml"}}, config.ErrConfigNotFound},
		{"every input empty", []string{empty}, &convertFlags{input: inputFlags{noHeadings: true}}, ragdoc.ErrNoDocuments},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			tt.flags.output.dest = t.TempDir()

			err := runConvert(context.Background(), tt.args, tt.flags, env.Environment)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestMergeFlags - CLI flags override config values
// ---------------------------------------------------------------------------

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		flags *convertFlags
		cfg   *config.Config
		check func(t *testing.T, cfg *config.Config)
	}{
		{
			name:  "empty flags preserve config",
			flags: &convertFlags{},
			cfg:   &config.Config{Output: config.OutputConfig{Dir: "out", Format: "json"}, Style: "compact"},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Output.Dir != "out" || cfg.Output.Format != "json" || cfg.Style != "compact" {
					t.Errorf("config changed: %+v", cfg)
				}
			},
		},
		{
			name:  "output flags override config",
			flags: &convertFlags{output: outputFlags{dest: "s3://b/p", format: "html", combine: true, name: "kb", bundle: "all.zip", s3Region: "eu-west-3"}},
			cfg:   &config.Config{Output: config.OutputConfig{Dir: "out", Format: "pdf"}},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Output.Dir != "s3://b/p" || cfg.Output.Format != "html" || !cfg.Output.Combine {
					t.Errorf("output = %+v", cfg.Output)
				}
				if cfg.Output.Name != "kb" || cfg.Output.BundleName != "all.zip" || cfg.S3.Region != "eu-west-3" {
					t.Errorf("names/region = %+v %+v", cfg.Output, cfg.S3)
				}
			},
		},
		{
			name:  "no-headings turns headings off",
			flags: &convertFlags{input: inputFlags{noHeadings: true, maxFileSize: "1MB", maxArchiveSize: "5MB"}},
			cfg:   &config.Config{},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Output.HeadingsEnabled() {
					t.Error("headings should be disabled")
				}
				if cfg.Limits.MaxFileSize != "1MB" || cfg.Limits.MaxArchiveSize != "5MB" {
					t.Errorf("limits = %+v", cfg.Limits)
				}
			},
		},
		{
			name:  "footer text auto-enables footer",
			flags: &convertFlags{footer: footerFlags{text: "Internal"}},
			cfg:   &config.Config{},
			check: func(t *testing.T, cfg *config.Config) {
				if !cfg.Footer.Enabled || cfg.Footer.Text != "Internal" {
					t.Errorf("footer = %+v", cfg.Footer)
				}
			},
		},
		{
			name:  "no-footer wins over page numbers",
			flags: &convertFlags{footer: footerFlags{pageNumber: true, disabled: true}},
			cfg:   &config.Config{Footer: config.FooterConfig{Enabled: true}},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Footer.Enabled {
					t.Error("footer should be disabled")
				}
			},
		},
		{
			name:  "toc title auto-enables toc",
			flags: &convertFlags{toc: tocFlags{title: "Contents", minDepth: 2, maxDepth: 4}},
			cfg:   &config.Config{},
			check: func(t *testing.T, cfg *config.Config) {
				if !cfg.TOC.Enabled || cfg.TOC.Title != "Contents" || cfg.TOC.MinDepth != 2 || cfg.TOC.MaxDepth != 4 {
					t.Errorf("toc = %+v", cfg.TOC)
				}
			},
		},
		{
			name:  "no-toc disables config toc",
			flags: &convertFlags{toc: tocFlags{disabled: true}},
			cfg:   &config.Config{TOC: config.TOCConfig{Enabled: true}},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.TOC.Enabled {
					t.Error("toc should be disabled")
				}
			},
		},
		{
			name:  "page and style flags override config",
			flags: &convertFlags{page: pageFlags{size: "a4", orientation: "landscape", margin: 1}, assets: assetFlags{style: "compact", assetPath: "/assets"}},
			cfg:   &config.Config{Page: config.PageConfig{Size: "letter"}, Style: "default"},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Page.Size != "a4" || cfg.Page.Orientation != "landscape" || cfg.Page.Margin != 1 {
					t.Errorf("page = %+v", cfg.Page)
				}
				if cfg.Style != "compact" || cfg.Assets.BasePath != "/assets" {
					t.Errorf("style = %q, assets = %+v", cfg.Style, cfg.Assets)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mergeFlags(tt.flags, tt.cfg)
			tt.check(t, tt.cfg)
		})
	}
}

// ---------------------------------------------------------------------------
// TestResolveTimeoutWithEnv - Timeout resolution with env var support
// ---------------------------------------------------------------------------

func TestResolveTimeoutWithEnv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		flagValue string
		envValue  time.Duration
		want      time.Duration
		errSubstr string
	}{
		{name: "all empty uses library default", want: 0},
		{name: "flag only", flagValue: "2m", want: 2 * time.Minute},
		{name: "env only", envValue: 45 * time.Second, want: 45 * time.Second},
		{name: "flag overrides env", flagValue: "5m", envValue: 45 * time.Second, want: 5 * time.Minute},
		{name: "combined duration", flagValue: "1m30s", want: 90 * time.Second},
		{name: "invalid flag format", flagValue: "abc", errSubstr: "invalid timeout"},
		{name: "negative duration", flagValue: "-5s", errSubstr: "must be positive"},
		{name: "zero duration", flagValue: "0s", errSubstr: "must be positive"},
		{name: "invalid flag overrides valid env", flagValue: "invalid", envValue: time.Minute, errSubstr: "invalid timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := resolveTimeoutWithEnv(tt.flagValue, tt.envValue)
			if tt.errSubstr != "" {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrInvalidTimeout) {
					t.Errorf("error should wrap ErrInvalidTimeout, got %v", err)
				}
				if !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("error should contain %q, got: %v", tt.errSubstr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("resolveTimeoutWithEnv(%q, %v) = %v, want %v", tt.flagValue, tt.envValue, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestStoreArtifacts - Packaging and sink writes
// ---------------------------------------------------------------------------

func TestStoreArtifacts(t *testing.T) {
	t.Parallel()

	artifacts := []ragdoc.Artifact{
		{Name: "a.pdf", Data: []byte("A")},
		{Name: "b.pdf", Data: []byte("B")},
	}

	t.Run("several artifacts are bundled", func(t *testing.T) {
		t.Parallel()

		s := &mockSink{}
		locs, err := storeArtifacts(context.Background(), s, artifacts, &conversionParams{bundleName: "out"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff([]string{"mem://out.zip"}, locs); diff != "" {
			t.Errorf("locations mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("no-bundle writes each artifact in order", func(t *testing.T) {
		t.Parallel()

		s := &mockSink{}
		locs, err := storeArtifacts(context.Background(), s, artifacts, &conversionParams{noBundle: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff([]string{"a.pdf", "b.pdf"}, s.order); diff != "" {
			t.Errorf("write order mismatch (-want +got):\n%s", diff)
		}
		if len(locs) != 2 {
			t.Errorf("locations = %v, want 2", locs)
		}
	})

	t.Run("no-bundle keeps colliding names apart", func(t *testing.T) {
		t.Parallel()

		id := uuid.MustParse("22222222-aaaa-4bbb-8ccc-000000000002")
		colliding := []ragdoc.Artifact{
			{Name: "notes.json", Data: []byte("md")},
			{Name: "notes.json", Data: []byte("csv"), DocumentID: id},
		}
		s := &mockSink{}
		if _, err := storeArtifacts(context.Background(), s, colliding, &conversionParams{noBundle: true}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff([]string{"notes.json", "notes-22222222.json"}, s.order); diff != "" {
			t.Errorf("write order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("single artifact is written as-is", func(t *testing.T) {
		t.Parallel()

		s := &mockSink{}
		if _, err := storeArtifacts(context.Background(), s, artifacts[:1], &conversionParams{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Equal(s.order, []string{"a.pdf"}) {
			t.Errorf("writes = %v, want [a.pdf]", s.order)
		}
	})

	t.Run("sink error is wrapped with the name", func(t *testing.T) {
		t.Parallel()

		s := &mockSink{err: errMock}
		_, err := storeArtifacts(context.Background(), s, artifacts[:1], &conversionParams{})
		if !errors.Is(err, errMock) {
			t.Fatalf("error = %v, want errMock", err)
		}
		if !strings.Contains(err.Error(), "a.pdf") {
			t.Errorf("error should name the artifact, got %v", err)
		}
	})

	t.Run("empty artifacts fail", func(t *testing.T) {
		t.Parallel()

		_, err := storeArtifacts(context.Background(), &mockSink{}, nil, &conversionParams{})
		if !errors.Is(err, ragdoc.ErrNoArtifacts) {
			t.Errorf("error = %v, want ErrNoArtifacts", err)
		}
	})
}
