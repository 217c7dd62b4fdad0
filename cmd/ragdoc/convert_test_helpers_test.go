package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/alnah/go-ragdoc"
	"github.com/alnah/go-ragdoc/internal/sink"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Environment
// ---------------------------------------------------------------------------

// testEnv bundles an Environment with its captured output.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	logs   *observer.ObservedLogs
	pool   *mockPool
}

// newTestEnv returns an environment with captured I/O, an observed logger,
// a mock pool, and the real sink factory.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	pool := newMockPool(2, &mockRenderer{})

	env := &Environment{
		Now:    fixedClock(),
		Stdout: stdout,
		Stderr: stderr,
		Level:  zap.NewAtomicLevelAt(zapcore.DebugLevel),
		Logger: zap.New(core),
		NewPool: func(size int, _ ...ragdoc.Option) Pool {
			pool.size = size
			return pool
		},
		NewSink: sink.New,
		Renderer: func(string, int) (MarkdownRenderer, error) {
			return &mockMarkdownRenderer{}, nil
		},
	}
	return &testEnv{Environment: env, stdout: stdout, stderr: stderr, logs: logs, pool: pool}
}

// fixedClock returns a clock advancing one millisecond per call.
func fixedClock() func() time.Time {
	var mu sync.Mutex
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Millisecond)
		return now
	}
}

// ---------------------------------------------------------------------------
// Test Infrastructure - Mock pool and renderers
// ---------------------------------------------------------------------------

// mockRenderer renders documents into fake artifacts.
type mockRenderer struct {
	mu      sync.Mutex
	calls   []string
	failFor map[string]error
}

func (m *mockRenderer) RenderDocument(_ context.Context, doc ragdoc.Document, opts ragdoc.RenderOptions) (ragdoc.Artifact, error) {
	m.mu.Lock()
	m.calls = append(m.calls, doc.Name)
	m.mu.Unlock()

	if err := m.failFor[doc.Name]; err != nil {
		return ragdoc.Artifact{}, err
	}
	ext := opts.Format.Extension()
	base := strings.TrimSuffix(doc.Name, filepath.Ext(doc.Name))
	return ragdoc.Artifact{
		Name:       strings.ReplaceAll(base, "/", "-") + "." + ext,
		Data:       []byte("rendered:" + doc.Content),
		DocumentID: doc.ID,
	}, nil
}

func (m *mockRenderer) rendered() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// mockPool hands out a single shared renderer.
type mockPool struct {
	size       int
	renderer   DocumentRenderer
	acquireErr error

	mu       sync.Mutex
	acquired int
	released int
	closed   bool
}

func newMockPool(size int, r DocumentRenderer) *mockPool {
	return &mockPool{size: size, renderer: r}
}

func (p *mockPool) Acquire(ctx context.Context) (DocumentRenderer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	p.mu.Lock()
	p.acquired++
	p.mu.Unlock()
	return p.renderer, nil
}

func (p *mockPool) Release(DocumentRenderer) {
	p.mu.Lock()
	p.released++
	p.mu.Unlock()
}

func (p *mockPool) Size() int { return p.size }

func (p *mockPool) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}

// mockMarkdownRenderer prefixes content so tests can see it was rendered.
type mockMarkdownRenderer struct {
	err error
}

func (m *mockMarkdownRenderer) Render(markdown string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "RENDERED\n" + markdown, nil
}

// mockSink records writes in memory.
type mockSink struct {
	mu     sync.Mutex
	writes map[string][]byte
	order  []string
	err    error
}

func (s *mockSink) Write(_ context.Context, name string, data []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writes == nil {
		s.writes = make(map[string][]byte)
	}
	s.writes[name] = data
	s.order = append(s.order, name)
	return "mem://" + name, nil
}

var errMock = errors.New("mock failure")

// ---------------------------------------------------------------------------
// Test Infrastructure - Files
// ---------------------------------------------------------------------------

// writeFile creates a file under dir, creating parents.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
