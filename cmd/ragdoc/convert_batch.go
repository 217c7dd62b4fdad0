package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-ragdoc"
)

// renderResult holds the outcome of a single document render.
type renderResult struct {
	Name     string
	Artifact ragdoc.Artifact
	Err      error
	Duration time.Duration
}

// renderBatch renders documents concurrently through a converter pool sized
// from workers. Artifacts come back in document order. Any failure fails the
// batch with ErrRender wrapping every per-document error.
func renderBatch(ctx context.Context, docs []ragdoc.Document, params *conversionParams, opts []ragdoc.Option, workers int, env *Environment) ([]ragdoc.Artifact, error) {
	if len(docs) == 0 {
		return nil, ragdoc.ErrNoDocuments
	}

	size := min(ragdoc.ResolvePoolSize(workers), len(docs))
	pool := env.NewPool(size, opts...)
	defer func() {
		if err := pool.Close(); err != nil {
			env.Logger.Warn("closing converter pool", zap.Error(err))
		}
	}()
	env.Logger.Debug("rendering", zap.Int("documents", len(docs)), zap.Int("workers", size))

	results := convertBatch(ctx, pool, docs, params.render, env.Now)
	return collectResults(results, env.Logger)
}

// convertBatch processes documents concurrently using the pool.
func convertBatch(ctx context.Context, pool Pool, docs []ragdoc.Document, opts ragdoc.RenderOptions, now func() time.Time) []renderResult {
	if len(docs) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(docs))
	results := make([]renderResult, len(docs))
	var wg sync.WaitGroup
	jobs := make(chan int, len(docs))

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()

			r, err := pool.Acquire(ctx)
			if err != nil {
				// Converter unavailable, mark remaining jobs as failed
				for idx := range jobs {
					results[idx] = renderResult{Name: docs[idx].Name, Err: err}
				}
				return
			}
			defer pool.Release(r)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = renderResult{Name: docs[idx].Name, Err: ctx.Err()}
					continue
				}
				results[idx] = renderOne(ctx, r, docs[idx], opts, now)
			}
		}()
	}

	for i := range docs {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// renderOne renders a single document and times it.
func renderOne(ctx context.Context, r DocumentRenderer, doc ragdoc.Document, opts ragdoc.RenderOptions, now func() time.Time) renderResult {
	start := now()
	artifact, err := r.RenderDocument(ctx, doc, opts)
	return renderResult{
		Name:     doc.Name,
		Artifact: artifact,
		Err:      err,
		Duration: now().Sub(start),
	}
}

// collectResults logs each outcome and returns the artifacts in order, or
// an ErrRender error when any document failed.
func collectResults(results []renderResult, logger *zap.Logger) ([]ragdoc.Artifact, error) {
	artifacts := make([]ragdoc.Artifact, 0, len(results))
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			logger.Error("render failed", zap.String("document", r.Name), zap.Error(r.Err))
			errs = append(errs, r.Err)
			continue
		}
		logger.Debug("rendered",
			zap.String("document", r.Name),
			zap.String("artifact", r.Artifact.Name),
			zap.Duration("elapsed", r.Duration.Round(time.Millisecond)),
		)
		artifacts = append(artifacts, r.Artifact)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %d of %d documents failed: %w", ErrRender, len(errs), len(results), errors.Join(errs...))
	}
	return artifacts, nil
}
