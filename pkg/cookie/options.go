package cookie

import (
	"net/http"
	"strings"
)

// Options are the attributes written with every cookie.
type Options struct {
	Path     string
	Domain   string
	MaxAge   int
	Secure   bool
	HttpOnly bool
	SameSite http.SameSite
}

type Option func(*Options)

func WithPath(path string) Option {
	return func(o *Options) {
		o.Path = path
	}
}

func WithDomain(domain string) Option {
	return func(o *Options) {
		o.Domain = domain
	}
}

func WithMaxAge(seconds int) Option {
	return func(o *Options) {
		o.MaxAge = seconds
	}
}

func WithSecure(secure bool) Option {
	return func(o *Options) {
		o.Secure = secure
	}
}

func WithHTTPOnly(httpOnly bool) Option {
	return func(o *Options) {
		o.HttpOnly = httpOnly
	}
}

func WithSameSite(sameSite http.SameSite) Option {
	return func(o *Options) {
		o.SameSite = sameSite
	}
}

// applyOptions returns a copy of base with opts applied.
func applyOptions(base Options, opts []Option) Options {
	result := base
	for _, opt := range opts {
		opt(&result)
	}
	return result
}

// Config holds cookie manager configuration
type Config struct {
	Secrets  []string `env:"COOKIE_SECRETS" envSeparator:","`
	Path     string   `env:"COOKIE_PATH" envDefault:"/"`
	Domain   string   `env:"COOKIE_DOMAIN"`
	MaxAge   int      `env:"COOKIE_MAX_AGE" envDefault:"0"`
	Secure   bool     `env:"COOKIE_SECURE" envDefault:"false"`
	HttpOnly bool     `env:"COOKIE_HTTP_ONLY" envDefault:"true"`
	SameSite string   `env:"COOKIE_SAME_SITE" envDefault:"lax"`
}

// NewFromConfig creates a Manager from cfg. Options given here override
// the configured attributes.
func NewFromConfig(cfg Config, opts ...Option) (*Manager, error) {
	secrets := make([]string, 0, len(cfg.Secrets))
	for _, s := range cfg.Secrets {
		if s = strings.TrimSpace(s); s != "" {
			secrets = append(secrets, s)
		}
	}

	configOpts := []Option{
		WithPath(cfg.Path),
		WithDomain(cfg.Domain),
		WithMaxAge(cfg.MaxAge),
		WithSecure(cfg.Secure),
		WithHTTPOnly(cfg.HttpOnly),
		WithSameSite(parseSameSite(cfg.SameSite)),
	}
	if cfg.Path == "" {
		configOpts[0] = WithPath("/")
	}

	return New(secrets, append(configOpts, opts...)...)
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	case "default":
		return http.SameSiteDefaultMode
	}
	return http.SameSiteLaxMode
}
