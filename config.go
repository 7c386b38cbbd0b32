package formguard

import "log/slog"

// Config holds the guard settings that can come from the environment.
// Load it with pkg/config:
//
//	var cfg formguard.Config
//	config.MustLoad(&cfg)
//	guard := formguard.MustNewFromConfig(cfg,
//		formguard.WithValidator("email", validator.Email()),
//	)
type Config struct {
	Methods      []string `env:"FORM_METHODS" envSeparator:"," envDefault:"POST"`
	JSONFallback bool     `env:"FORM_JSON_FALLBACK" envDefault:"true"`
	MaxMemory    int64    `env:"FORM_MAX_MEMORY" envDefault:"10485760"`
}

// DefaultConfig returns the configuration New uses without options.
func DefaultConfig() Config {
	return Config{
		Methods:      DefaultMethods,
		JSONFallback: true,
		MaxMemory:    DefaultMaxMemory,
	}
}

// Options converts the configuration into guard options.
func (c Config) Options() []Option {
	return []Option{
		WithMethods(c.Methods...),
		WithJSONFallback(c.JSONFallback),
		WithMaxMemory(c.MaxMemory),
	}
}

// NewFromConfig builds a guard from cfg. Options given here are applied
// after the configuration and may override it, except for WithMethods which
// adds to the configured methods.
func NewFromConfig(cfg Config, opts ...Option) (*Guard, error) {
	return New(append(cfg.Options(), opts...)...)
}

// MustNewFromConfig is like NewFromConfig but panics on misconfiguration.
func MustNewFromConfig(cfg Config, opts ...Option) *Guard {
	g, err := NewFromConfig(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return g
}

// LogValue implements slog.LogValuer.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("methods", NewMethodSet(c.Methods...).Methods()),
		slog.Bool("json_fallback", c.JSONFallback),
		slog.Int64("max_memory", c.MaxMemory),
	)
}
