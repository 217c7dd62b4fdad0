package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestGoldmarkConverter_ToHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		markdown       string
		title          string
		wantContains   []string
		wantNotContain []string
	}{
		{
			name:         "wraps in document with escaped title",
			markdown:     "# Hello",
			title:        "a <b> & c",
			wantContains: []string{"<!DOCTYPE html>", "<title>a &lt;b&gt; &amp; c</title>", `<h1 id="hello">Hello</h1>`},
		},
		{
			name:         "empty title uses default",
			markdown:     "text",
			title:        "",
			wantContains: []string{"<title>Document</title>"},
		},
		{
			name:         "GFM table",
			markdown:     "| a | b |\n| --- | :-: |\n| 1 | 2 |",
			wantContains: []string{"<table>", "<th>a</th>", "<td>1</td>"},
		},
		{
			name:         "footnote",
			markdown:     "Text[^1]\n\n[^1]: Note.",
			wantContains: []string{`href="#fn:1"`, "Note."},
		},
		{
			name:         "fenced code highlighted with classes",
			markdown:     "```go\nfunc main() {}\n```",
			wantContains: []string{`class="chroma"`},
		},
		{
			name:           "inline script stripped",
			markdown:       "hello\n\n<script>alert('x')</script>\n\nworld",
			wantContains:   []string{"hello", "world"},
			wantNotContain: []string{"<script", "alert("},
		},
		{
			name:           "event handler stripped from raw HTML",
			markdown:       `<img src="x.png" onerror="alert(1)">`,
			wantNotContain: []string{"onerror"},
		},
		{
			name:           "javascript link neutralized",
			markdown:       "[click](javascript:alert(1))",
			wantNotContain: []string{"javascript:"},
		},
		{
			name:         "safe inline HTML kept",
			markdown:     "H<sub>2</sub>O",
			wantContains: []string{"<sub>2</sub>"},
		},
		{
			name:         "highlight placeholders become mark",
			markdown:     "a " + MarkStartPlaceholder + "key" + MarkEndPlaceholder,
			wantContains: []string{"<mark>key</mark>"},
		},
		{
			name:         "escaped filename heading renders literally",
			markdown:     Heading("my_file*.md") + "body",
			wantContains: []string{"my_file*.md</h1>"},
		},
	}

	c := NewGoldmarkConverter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := c.ToHTML(context.Background(), tt.markdown, tt.title)
			if err != nil {
				t.Fatalf("ToHTML() error = %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("ToHTML() missing %q\nGot:\n%s", want, got)
				}
			}
			for _, notWant := range tt.wantNotContain {
				if strings.Contains(got, notWant) {
					t.Errorf("ToHTML() should not contain %q\nGot:\n%s", notWant, got)
				}
			}
		})
	}
}

func TestGoldmarkConverter_ToHTML_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGoldmarkConverter().ToHTML(ctx, "# x", "x")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ToHTML() error = %v, want context.Canceled", err)
	}
}

func TestGoldmarkConverter_ToHTML_CodeKeepsEqualityOperators(t *testing.T) {
	t.Parallel()

	md := "```go\nif a == b == c {}\n```\n\nInline `x == y == z` and ==flag==."
	pre := (&CommonMarkPreprocessor{}).PreprocessMarkdown(context.Background(), md)

	html, err := NewGoldmarkConverter().ToHTML(context.Background(), pre, "doc")
	if err != nil {
		t.Fatalf("ToHTML() error = %v", err)
	}
	html = ConvertMarkPlaceholders(html)

	if got := strings.Count(html, "<mark>"); got != 1 {
		t.Errorf("<mark> count = %d, want 1 (prose only):\n%s", got, html)
	}
	if !strings.Contains(html, "<mark>flag</mark>") {
		t.Errorf("prose highlight missing:\n%s", html)
	}
	if !strings.Contains(html, "<code>x == y == z</code>") {
		t.Errorf("inline code changed:\n%s", html)
	}
	if strings.Count(html, "==") < 4 {
		t.Errorf("fenced operators lost:\n%s", html)
	}
}
