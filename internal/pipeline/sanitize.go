package pipeline

import (
	"regexp"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// HTMLSanitizer strips markup that must never reach the browser.
type HTMLSanitizer interface {
	Sanitize(fragment string) string
}

// UGCSanitizer sanitizes HTML fragments with bluemonday's user-generated
// content policy, extended for rendered Markdown: heading anchors, chroma
// highlighting classes, footnote references, table alignment, and task
// list checkboxes.
type UGCSanitizer struct {
	policy *bluemonday.Policy
}

var (
	sharedSanitizer     *UGCSanitizer
	sharedSanitizerOnce sync.Once
)

// NewUGCSanitizer returns the process-wide sanitizer. bluemonday policies
// are safe for concurrent use once built.
func NewUGCSanitizer() *UGCSanitizer {
	sharedSanitizerOnce.Do(func() {
		sharedSanitizer = &UGCSanitizer{policy: newMarkdownPolicy()}
	})
	return sharedSanitizer
}

// Sanitize returns the fragment with scripts, event handlers, and unsafe
// URLs removed.
func (s *UGCSanitizer) Sanitize(fragment string) string {
	return s.policy.Sanitize(fragment)
}

var (
	idPattern    = regexp.MustCompile(`^[\p{L}\p{N}_:.-]+$`)
	classPattern = regexp.MustCompile(`^[a-zA-Z0-9_\- ]+$`)
	alignPattern = regexp.MustCompile(`^(left|center|right)$`)
)

func newMarkdownPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()

	p.AllowAttrs("id").Matching(idPattern).OnElements("h1", "h2", "h3", "h4", "h5", "h6", "li", "sup", "div", "section")
	p.AllowAttrs("class").Matching(classPattern).OnElements("code", "pre", "span", "div", "section", "sup", "a", "li", "ol", "hr")
	p.AllowAttrs("align").Matching(alignPattern).OnElements("th", "td")
	p.AllowStyles("text-align").MatchingEnum("left", "center", "right").OnElements("th", "td")
	p.AllowAttrs("role").Matching(regexp.MustCompile(`^doc-\w+$`)).OnElements("a", "section", "div")
	p.AllowAttrs("type").Matching(regexp.MustCompile(`^checkbox$`)).OnElements("input")
	p.AllowAttrs("checked", "disabled").OnElements("input")
	p.AllowElements("mark", "input")

	// Footnote links are same-document anchors.
	p.AllowRelativeURLs(true)
	p.RequireNoFollowOnLinks(false)

	return p
}
