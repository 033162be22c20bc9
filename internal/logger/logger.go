package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Logger defines the logging contract.
// Implementations should support standard log levels and be safe for concurrent use.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Debug(msg string, args ...any)
}

// Options configures a CharmLogger.
type Options struct {
	Level           string
	Format          string
	ReportTimestamp bool
	Prefix          string
}

// CharmLogger implements Logger on top of charmbracelet/log.
type CharmLogger struct {
	logger *log.Logger
}

// New creates a CharmLogger writing to w.
func New(w io.Writer, opts Options) *CharmLogger {
	return &CharmLogger{
		logger: log.NewWithOptions(w, log.Options{
			Level:           ParseLevel(opts.Level),
			Formatter:       ParseFormatter(opts.Format),
			ReportTimestamp: opts.ReportTimestamp,
			Prefix:          opts.Prefix,
		}),
	}
}

// NewStderrLogger creates the default logger writing to stderr, leaving stdout for command output.
func NewStderrLogger() *CharmLogger {
	return New(os.Stderr, Options{Level: "info", ReportTimestamp: true})
}

func (l *CharmLogger) Info(msg string, args ...any) {
	l.logger.Infof(msg, args...)
}

func (l *CharmLogger) Warn(msg string, args ...any) {
	l.logger.Warnf(msg, args...)
}

func (l *CharmLogger) Error(msg string, args ...any) {
	l.logger.Errorf(msg, args...)
}

func (l *CharmLogger) Debug(msg string, args ...any) {
	l.logger.Debugf(msg, args...)
}

// SetLevel changes the minimum level that is written.
func (l *CharmLogger) SetLevel(level string) {
	l.logger.SetLevel(ParseLevel(level))
}

// ParseLevel maps a level name to a charmbracelet/log level; unknown names are info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// ParseFormatter maps a format name to a charmbracelet/log formatter; unknown names are text.
func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(format) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// Discard drops every message.
var Discard Logger = New(io.Discard, Options{Level: "error"})

// Default provides a global default logger instance.
var Default Logger = NewStderrLogger()
