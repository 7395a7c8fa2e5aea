package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// -----------------------------------------------------------------------------

// Logger provides structured logging functionality
type Logger struct {
	name   string
	logger zerolog.Logger
	exit   func(int)
}

// Options controls how NewLogger builds the underlying writer.
type Options struct {
	Level  string // DEBUG, INFO, WARNING, ERROR
	Format string // console or json
	Output io.Writer
}

// -----------------------------------------------------------------------------

// NewLogger creates a new Logger instance
func NewLogger(opts Options, name string) *Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if !strings.EqualFold(opts.Format, "json") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	zl := zerolog.New(out).
		Level(ParseLevel(opts.Level)).
		With().
		Timestamp().
		Str("component", name).
		Logger()

	return &Logger{name: name, logger: zl, exit: os.Exit}
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{name: "nop", logger: zerolog.Nop(), exit: func(int) {}}
}

// ParseLevel maps the config level names onto zerolog levels.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARNING", "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// -----------------------------------------------------------------------------

// With returns a child logger for a sub component.
func (l *Logger) With(name string) *Logger {
	child := l.name + "." + name
	return &Logger{
		name:   child,
		logger: l.logger.With().Str("component", child).Logger(),
		exit:   l.exit,
	}
}

// Name returns the component name.
func (l *Logger) Name() string {
	return l.name
}

// -----------------------------------------------------------------------------

// Debug logs diagnostic messages
func (l *Logger) Debug(format string, args ...interface{}) {
	l.logger.Debug().Msg(fmt.Sprintf(format, args...))
}

// -----------------------------------------------------------------------------

// Warning logs recoverable problems
func (l *Logger) Warning(format string, args ...interface{}) {
	l.logger.Warn().Msg(fmt.Sprintf(format, args...))
}

// -----------------------------------------------------------------------------

// Info logs informational messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.logger.Info().Msg(fmt.Sprintf(format, args...))
}

// -----------------------------------------------------------------------------

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	l.logger.Error().Msg(fmt.Sprintf(format, args...))
}

// -----------------------------------------------------------------------------

// Critical logs critical errors and exits the application
func (l *Logger) Critical(format string, args ...interface{}) {
	l.logger.WithLevel(zerolog.FatalLevel).Msg(fmt.Sprintf(format, args...))
	l.exit(1)
}
