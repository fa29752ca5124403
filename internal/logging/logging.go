// Package logging builds the zerolog loggers used across EcoLens and carries
// them, with a per-invocation trace ID, through context.Context.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Output targets.
const (
	OutputStderr = "stderr"
	OutputStdout = "stdout"
	OutputFile   = "file"
)

// Formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config describes where and how to log.
type Config struct {
	Level  string
	Format string
	Output string
	File   string
	Caller bool

	// Writer replaces stderr/stdout when set.
	Writer io.Writer
}

// LogPathResult is the logger built by NewLoggerWithPath plus where it writes.
type LogPathResult struct {
	Logger         zerolog.Logger
	UsingFile      bool
	FilePath       string
	FallbackUsed   bool
	FallbackReason string

	file *os.File
}

// Close closes the log file, if one was opened.
func (r *LogPathResult) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// NewLogger builds a logger from cfg, falling back to stderr when the log
// file cannot be opened.
func NewLogger(cfg Config) zerolog.Logger {
	return NewLoggerWithPath(cfg).Logger
}

// NewLoggerWithPath builds a logger from cfg and reports the file it writes
// to. The caller closes the result.
func NewLoggerWithPath(cfg Config) LogPathResult {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var result LogPathResult
	var out io.Writer = os.Stderr
	switch {
	case cfg.Writer != nil:
		out = cfg.Writer
	case cfg.Output == OutputStdout:
		out = os.Stdout
	case cfg.Output == OutputFile || cfg.File != "":
		f, openErr := openLogFile(cfg.File)
		if openErr != nil {
			result.FallbackUsed = true
			result.FallbackReason = openErr.Error()
		} else {
			out = f
			result.file = f
			result.UsingFile = true
			result.FilePath = f.Name()
		}
	}

	if !strings.EqualFold(cfg.Format, FormatJSON) && !result.UsingFile {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).Level(level).Hook(traceHook{}).With().Timestamp()
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	result.Logger = ctx.Logger()
	return result
}

func openLogFile(path string) (*os.File, error) {
	if path == "" {
		return nil, fmt.Errorf("no log file configured")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}

// ComponentLogger returns l with the component field set.
func ComponentLogger(l zerolog.Logger, component string) zerolog.Logger {
	return l.With().Str("component", component).Logger()
}

// FromContext returns the logger stored in ctx, or a disabled logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// PrintLogPathMessage tells the user where logs are written.
func PrintLogPathMessage(w io.Writer, path string) {
	_, _ = fmt.Fprintf(w, "Logging to %s\n", path)
}

// PrintFallbackWarning tells the user the log file could not be used.
func PrintFallbackWarning(w io.Writer, reason string) {
	_, _ = fmt.Fprintf(w, "Warning: could not open log file (%s), logging to stderr\n", reason)
}
