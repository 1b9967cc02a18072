package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Options struct {
	Env     string
	LogFile string
	Verbose bool
	Output  io.Writer
}

// New builds a text logger. Local and dev environments log at debug level.
// When LogFile is set, records are also written to a rotated file.
func New(opts Options) *slog.Logger {
	level := slog.LevelInfo
	switch opts.Env {
	case EnvLocal, EnvDev:
		level = slog.LevelDebug
	}
	if opts.Verbose {
		level = slog.LevelDebug
	}

	var out io.Writer = os.Stderr
	if opts.Output != nil {
		out = opts.Output
	}
	if opts.LogFile != "" {
		out = io.MultiWriter(out, &lumberjack.Logger{
			Filename:   opts.LogFile,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		})
	}

	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
}

// Setup installs the logger built from opts as the slog default.
func Setup(opts Options) *slog.Logger {
	logger := New(opts)
	slog.SetDefault(logger)
	return logger
}

// Secret keeps the first five characters of a value and masks the rest.
func Secret(key, value string) slog.Attr {
	masked := "***"
	if len(value) > 5 {
		masked = fmt.Sprintf("%s***", value[:5])
	}
	if value == "" {
		masked = "?"
	}
	return slog.String(key, masked)
}
