package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-ragdoc/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath     string        // RAGDOC_CONFIG: config file name or path
	Style          string        // RAGDOC_STYLE: CSS style name or path
	Timeout        time.Duration // RAGDOC_TIMEOUT: per-document PDF timeout
	InputDir       string        // RAGDOC_INPUT_DIR: default input directory
	OutputDir      string        // RAGDOC_OUTPUT_DIR: directory or s3:// URL
	Format         string        // RAGDOC_FORMAT: pdf, json, html
	Workers        int           // RAGDOC_WORKERS: parallel PDF workers
	MaxFileSize    string        // RAGDOC_MAX_FILE_SIZE: e.g. 10MB
	MaxArchiveSize string        // RAGDOC_MAX_ARCHIVE_SIZE: e.g. 50MB
	S3Region       string        // RAGDOC_S3_REGION: AWS region for s3:// outputs
	S3Endpoint     string        // RAGDOC_S3_ENDPOINT: S3-compatible endpoint
}

// knownEnvVars lists valid RAGDOC_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"RAGDOC_CONFIG":           true,
	"RAGDOC_STYLE":            true,
	"RAGDOC_TIMEOUT":          true,
	"RAGDOC_INPUT_DIR":        true,
	"RAGDOC_OUTPUT_DIR":       true,
	"RAGDOC_FORMAT":           true,
	"RAGDOC_WORKERS":          true,
	"RAGDOC_MAX_FILE_SIZE":    true,
	"RAGDOC_MAX_ARCHIVE_SIZE": true,
	"RAGDOC_S3_REGION":        true,
	"RAGDOC_S3_ENDPOINT":      true,
	"RAGDOC_CONTAINER":        true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numeric and duration values are logged and ignored.
func loadEnvConfig(logger *zap.Logger) *envConfig {
	cfg := &envConfig{
		ConfigPath:     os.Getenv("RAGDOC_CONFIG"),
		Style:          os.Getenv("RAGDOC_STYLE"),
		InputDir:       os.Getenv("RAGDOC_INPUT_DIR"),
		OutputDir:      os.Getenv("RAGDOC_OUTPUT_DIR"),
		Format:         os.Getenv("RAGDOC_FORMAT"),
		MaxFileSize:    os.Getenv("RAGDOC_MAX_FILE_SIZE"),
		MaxArchiveSize: os.Getenv("RAGDOC_MAX_ARCHIVE_SIZE"),
		S3Region:       os.Getenv("RAGDOC_S3_REGION"),
		S3Endpoint:     os.Getenv("RAGDOC_S3_ENDPOINT"),
	}

	if timeout := os.Getenv("RAGDOC_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		} else {
			logger.Warn("ignoring invalid environment value", zap.String("name", "RAGDOC_TIMEOUT"), zap.String("value", timeout))
		}
	}

	if workers := os.Getenv("RAGDOC_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		} else {
			logger.Warn("ignoring invalid environment value", zap.String("name", "RAGDOC_WORKERS"), zap.String("value", workers))
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized RAGDOC_* variables.
// Helps catch typos like RAGDOC_OUTPUTDIR instead of RAGDOC_OUTPUT_DIR.
func warnUnknownEnvVars(logger *zap.Logger) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, "RAGDOC_") {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			logger.Warn("unknown environment variable (typo?)", zap.String("name", name))
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Environment values override the config file; CLI flags are applied later
// via mergeFlags. This ensures: CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Style != "" {
		cfg.Style = env.Style
	}
	if env.InputDir != "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.Format != "" {
		cfg.Output.Format = env.Format
	}
	if env.MaxFileSize != "" {
		cfg.Limits.MaxFileSize = env.MaxFileSize
	}
	if env.MaxArchiveSize != "" {
		cfg.Limits.MaxArchiveSize = env.MaxArchiveSize
	}
	if env.S3Region != "" {
		cfg.S3.Region = env.S3Region
	}
	if env.S3Endpoint != "" {
		cfg.S3.Endpoint = env.S3Endpoint
	}
}
