package logger

import (
	"io"
	"log/slog"
	"os"
)

type settings struct {
	level  slog.Level
	json   bool
	output io.Writer
	attrs  []slog.Attr
}

// Option configures the logger factory.
type Option func(*settings)

// WithLevel sets the minimum level.
func WithLevel(level slog.Level) Option {
	return func(s *settings) { s.level = level }
}

// WithJSONFormatter emits JSON records.
func WithJSONFormatter() Option {
	return func(s *settings) { s.json = true }
}

// WithTextFormatter emits human-readable text records.
func WithTextFormatter() Option {
	return func(s *settings) { s.json = false }
}

// WithOutput redirects log output.
func WithOutput(w io.Writer) Option {
	return func(s *settings) { s.output = w }
}

// WithAttr attaches attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(s *settings) { s.attrs = append(s.attrs, attrs...) }
}

// WithDevelopment configures text output at debug level tagged with the app name.
func WithDevelopment(app string) Option {
	return func(s *settings) {
		s.json = false
		s.level = slog.LevelDebug
		s.attrs = append(s.attrs, slog.String("app", app))
	}
}

// WithProduction configures JSON output at info level tagged with the app name.
func WithProduction(app string) Option {
	return func(s *settings) {
		s.json = true
		s.level = slog.LevelInfo
		s.attrs = append(s.attrs, slog.String("app", app))
	}
}

// New builds a slog.Logger from the options. Defaults to text output at info
// level on stdout.
func New(opts ...Option) *slog.Logger {
	s := settings{level: slog.LevelInfo, output: os.Stdout}
	for _, opt := range opts {
		opt(&s)
	}

	ho := &slog.HandlerOptions{Level: s.level}
	var handler slog.Handler
	if s.json {
		handler = slog.NewJSONHandler(s.output, ho)
	} else {
		handler = slog.NewTextHandler(s.output, ho)
	}
	if len(s.attrs) > 0 {
		handler = handler.WithAttrs(s.attrs)
	}
	return slog.New(handler)
}
