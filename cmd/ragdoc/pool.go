package main

import (
	"context"
	"fmt"

	"github.com/alnah/go-ragdoc"
)

// DocumentRenderer renders one document into an artifact.
type DocumentRenderer interface {
	RenderDocument(ctx context.Context, doc ragdoc.Document, opts ragdoc.RenderOptions) (ragdoc.Artifact, error)
}

// Compile-time interface implementation check.
var _ DocumentRenderer = (*ragdoc.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire(ctx context.Context) (DocumentRenderer, error)
	Release(DocumentRenderer)
	Size() int
	Close() error
}

// poolAdapter wraps *ragdoc.ConverterPool to implement Pool.
type poolAdapter struct {
	pool *ragdoc.ConverterPool
}

// newConverterPool is the production pool factory.
func newConverterPool(size int, opts ...ragdoc.Option) Pool {
	return &poolAdapter{pool: ragdoc.NewConverterPool(size, opts...)}
}

func (a *poolAdapter) Acquire(ctx context.Context) (DocumentRenderer, error) {
	conv, err := a.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return conv, nil
}

func (a *poolAdapter) Release(r DocumentRenderer) {
	conv, ok := r.(*ragdoc.Converter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", r))
	}
	a.pool.Release(conv)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}

func (a *poolAdapter) Close() error {
	return a.pool.Close()
}
