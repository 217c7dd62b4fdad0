package main

import (
	"context"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/alnah/go-ragdoc"
	"github.com/alnah/go-ragdoc/internal/sink"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, logging, and the factories for browsers and output sinks.
type Environment struct {
	Now      func() time.Time
	Stdout   io.Writer
	Stderr   io.Writer
	Level    zap.AtomicLevel
	Logger   *zap.Logger
	NewPool  func(size int, opts ...ragdoc.Option) Pool
	NewSink  func(ctx context.Context, output string, opts sink.S3Options) (sink.Sink, error)
	Renderer func(style string, width int) (MarkdownRenderer, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	level := zap.NewAtomicLevelAt(zapcore.WarnLevel)
	return &Environment{
		Now:      time.Now,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Level:    level,
		Logger:   newLogger(os.Stderr, level),
		NewPool:  newConverterPool,
		NewSink:  sink.New,
		Renderer: newGlamourRenderer,
	}
}

// newLogger builds a console logger without timestamps, writing to w.
func newLogger(w io.Writer, level zap.AtomicLevel) *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.CallerKey = ""
	encCfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core)
}

// applyVerbosity sets the log level from the quiet and verbose flags.
// Quiet wins when both are set.
func applyVerbosity(level zap.AtomicLevel, quiet, verbose bool) {
	switch {
	case quiet:
		level.SetLevel(zapcore.ErrorLevel)
	case verbose:
		level.SetLevel(zapcore.DebugLevel)
	default:
		level.SetLevel(zapcore.WarnLevel)
	}
}
