package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Environment names understood by WithEnvironment.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Format is the record encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Option configures New.
type Option func(*config)

type config struct {
	level      slog.Level
	format     Format
	output     io.Writer
	attrs      []slog.Attr
	extractors []ContextExtractor
}

// profile holds the defaults of one deployment environment.
type profile struct {
	name   string
	level  slog.Level
	format Format
}

var profiles = map[string]profile{
	EnvDevelopment: {name: EnvDevelopment, level: slog.LevelDebug, format: FormatText},
	"dev":          {name: EnvDevelopment, level: slog.LevelDebug, format: FormatText},
	EnvStaging:     {name: EnvStaging, level: slog.LevelInfo, format: FormatJSON},
	"stage":        {name: EnvStaging, level: slog.LevelInfo, format: FormatJSON},
	EnvProduction:  {name: EnvProduction, level: slog.LevelInfo, format: FormatJSON},
	"prod":         {name: EnvProduction, level: slog.LevelInfo, format: FormatJSON},
}

// New builds a logger. Without options it writes JSON at info level to
// stdout.
func New(opts ...Option) *slog.Logger {
	cfg := &config{level: slog.LevelInfo, format: FormatJSON, output: os.Stdout}
	for _, opt := range opts {
		opt(cfg)
	}

	handlerOpts := &slog.HandlerOptions{Level: cfg.level}
	var handler slog.Handler
	if cfg.format == FormatText {
		handler = slog.NewTextHandler(cfg.output, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(cfg.output, handlerOpts)
	}
	if len(cfg.attrs) > 0 {
		handler = handler.WithAttrs(cfg.attrs)
	}
	return slog.New(NewContextHandler(handler, cfg.extractors...))
}

// SetAsDefault makes l the slog default logger.
func SetAsDefault(l *slog.Logger) {
	slog.SetDefault(l)
}

func WithLevel(l slog.Level) Option {
	return func(c *config) { c.level = l }
}

// WithLevelName sets the level from its name ("debug", "info", "warn",
// "error", case-insensitive). An empty name keeps the current level.
// Panics on unknown names.
func WithLevelName(name string) Option {
	return func(c *config) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		var l slog.Level
		if err := l.UnmarshalText([]byte(name)); err != nil {
			panic(fmt.Errorf("invalid log level %q: %w", name, err))
		}
		c.level = l
	}
}

// WithFormat sets the output format. Panics on anything but FormatJSON or
// FormatText.
func WithFormat(f Format) Option {
	return func(c *config) {
		if f != FormatJSON && f != FormatText {
			panic(fmt.Errorf("invalid log format %q: must be %q or %q", f, FormatJSON, FormatText))
		}
		c.format = f
	}
}

func WithTextFormatter() Option { return WithFormat(FormatText) }

func WithJSONFormatter() Option { return WithFormat(FormatJSON) }

// WithOutput sets the destination. Nil is ignored.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.output = w
		}
	}
}

// WithAttr adds static attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(c *config) {
		c.attrs = append(c.attrs, attrs...)
	}
}

// WithContextExtractors adds attributes pulled from the context of each
// record, see requestid.LoggerExtractor.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(c *config) {
		c.extractors = append(c.extractors, extractors...)
	}
}

// WithContextValue logs ctx.Value(key) under name when it is set.
func WithContextValue(name string, key any) Option {
	if name == "" || key == nil {
		return func(*config) {}
	}
	return WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
		if v := ctx.Value(key); v != nil {
			return slog.Any(name, v), true
		}
		return slog.Attr{}, false
	})
}

// WithEnvironment applies the level and format defaults of env and tags
// records with service and env. Names are case-insensitive; "dev", "stage"
// and "prod" are accepted, anything unknown counts as development. An empty
// service leaves the configuration untouched.
func WithEnvironment(env, service string) Option {
	return func(c *config) {
		if service == "" {
			return
		}
		p, ok := profiles[strings.ToLower(strings.TrimSpace(env))]
		if !ok {
			p = profiles[EnvDevelopment]
		}
		c.level = p.level
		c.format = p.format
		c.attrs = append(c.attrs,
			slog.String("service", service),
			slog.String("env", p.name),
		)
	}
}

// WithDevelopment is WithEnvironment(EnvDevelopment, service): text, debug.
func WithDevelopment(service string) Option { return WithEnvironment(EnvDevelopment, service) }

// WithStaging is WithEnvironment(EnvStaging, service): JSON, info.
func WithStaging(service string) Option { return WithEnvironment(EnvStaging, service) }

// WithProduction is WithEnvironment(EnvProduction, service): JSON, info.
func WithProduction(service string) Option { return WithEnvironment(EnvProduction, service) }
