package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/alnah/go-ragdoc"
	"github.com/alnah/go-ragdoc/internal/assets"
	"github.com/alnah/go-ragdoc/internal/config"
	"github.com/alnah/go-ragdoc/internal/hints"
	"github.com/alnah/go-ragdoc/internal/sink"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Command names.
const (
	cmdConvert    = "convert"
	cmdPreview    = "preview"
	cmdDoctor     = "doctor"
	cmdVersion    = "version"
	cmdHelp       = "help"
	cmdCompletion = "completion"
)

func main() {
	env := DefaultEnv()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		env.Logger.Warn("loading .env", zap.Error(err))
	}
	if hasVerboseFlag(os.Args[1:]) {
		env.Level.SetLevel(zapcore.DebugLevel)
	}

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(env.Logger.Sugar().Debugf))

	code := runMain(os.Args, env)
	_ = env.Logger.Sync()
	os.Exit(code)
}

// runMain dispatches to a command and returns the process exit code.
// args includes the program name.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	if !isCommand(cmd) {
		if !looksLikeInput(cmd) {
			fmt.Fprintf(env.Stderr, "Unknown command: %s\n\n", cmd)
			printUsage(env.Stderr)
			return ExitUsage
		}
		cmd, rest = cmdConvert, args[1:]
	}

	switch cmd {
	case cmdConvert:
		return runConvertCmd(rest, env)
	case cmdPreview:
		return runPreviewCmd(rest, env)
	case cmdDoctor:
		return runDoctorCmd(rest, env)
	case cmdVersion:
		fmt.Fprintf(env.Stdout, "ragdoc %s\n", Version)
		return ExitSuccess
	case cmdCompletion:
		return runCompletionCmd(rest, env)
	default:
		runHelp(rest, env)
		return ExitSuccess
	}
}

// isCommand reports whether s names a subcommand. Matching is case-sensitive.
func isCommand(s string) bool {
	switch s {
	case cmdConvert, cmdPreview, cmdDoctor, cmdVersion, cmdHelp, cmdCompletion:
		return true
	}
	return false
}

// looksLikeInput reports whether s can stand in for an implicit convert:
// a supported file name or an existing directory.
func looksLikeInput(s string) bool {
	if s == "" || strings.HasPrefix(s, "-") {
		return false
	}
	if slices.Contains(ragdoc.SupportedExtensions(), strings.ToLower(filepath.Ext(s))) {
		return true
	}
	info, err := os.Stat(s)
	return err == nil && info.IsDir()
}

// hasVerboseFlag scans raw arguments for -v or --verbose before parsing,
// so early startup logs honor it.
func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}

// runConvertCmd parses flags and runs the convert command.
func runConvertCmd(args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		return ExitUsage
	}
	applyVerbosity(env.Level, flags.common.quiet, flags.common.verbose)
	warnUnknownEnvVars(env.Logger)

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runConvert(ctx, positional, flags, env); err != nil {
		printError(env, err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runPreviewCmd parses flags and runs the preview command.
func runPreviewCmd(args []string, env *Environment) int {
	flags, positional, err := parsePreviewFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		return ExitUsage
	}
	applyVerbosity(env.Level, flags.common.quiet, flags.common.verbose)
	warnUnknownEnvVars(env.Logger)

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runPreview(ctx, positional, flags, env); err != nil {
		printError(env, err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// printError writes the error and an actionable hint to stderr.
func printError(env *Environment, err error) {
	fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
}

// hintFor returns the hint matching err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, ragdoc.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, ragdoc.ErrPageLoad):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(configSearchPaths())
	case errors.Is(err, ragdoc.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.ListStyles())
	case errors.Is(err, ragdoc.ErrFileTooLarge), errors.Is(err, ragdoc.ErrArchiveTooLarge):
		return hints.ForSizeLimit()
	case errors.Is(err, ragdoc.ErrUnsupportedFile), errors.Is(err, ErrNoInput):
		return hints.ForUnsupportedFile(textExtensions())
	case errors.Is(err, sink.ErrUpload):
		return hints.ForS3Upload()
	case errors.Is(err, sink.ErrWrite):
		return hints.ForOutputDirectory()
	}
	return ""
}

// textExtensions lists the supported extensions other than .zip.
func textExtensions() []string {
	return slices.DeleteFunc(ragdoc.SupportedExtensions(), func(ext string) bool {
		return ext == ".zip"
	})
}

// configSearchPaths lists the user-level config location for hints.
func configSearchPaths() []string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(dir, "ragdoc", "config.yaml")}
}
