package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alnah/go-ragdoc"
	"github.com/alnah/go-ragdoc/internal/config"
)

// resolveInputs returns the positional inputs, or the configured default
// directory when none are given.
func resolveInputs(args []string, cfg *config.Config) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if cfg.Input.DefaultDir != "" {
		return []string{cfg.Input.DefaultDir}, nil
	}
	return nil, ErrNoInput
}

// discoverSources expands inputs into ingestion sources. Files are passed
// through as given so that unsupported types fail loudly. Directories are
// walked for supported files, skipping hidden entries, and sources are named
// by their slash-separated path relative to the directory.
func discoverSources(inputs []string) ([]ragdoc.Source, error) {
	var sources []ragdoc.Source
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			sources = append(sources, ragdoc.Source{Name: filepath.Base(input), Path: input})
			continue
		}

		found, err := walkDir(input)
		if err != nil {
			return nil, err
		}
		sources = append(sources, found...)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: no supported files in %s", ErrNoInput, strings.Join(inputs, ", "))
	}
	return sources, nil
}

// walkDir collects supported files under root in lexical order.
func walkDir(root string) ([]ragdoc.Source, error) {
	supported := ragdoc.SupportedExtensions()

	var sources []ragdoc.Source
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !slices.Contains(supported, strings.ToLower(filepath.Ext(path))) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = d.Name()
		}
		sources = append(sources, ragdoc.Source{Name: filepath.ToSlash(rel), Path: path})
		return nil
	})
	return sources, err
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > ragdoc.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, ragdoc.MaxPoolSize)
	}
	return nil
}
