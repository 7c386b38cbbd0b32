// Package config loads typed configuration from environment variables.
//
// It wraps github.com/caarlos0/env/v11 for struct tag parsing and
// github.com/joho/godotenv for .env files. Load caches one parsed copy per
// configuration type; Parse is the uncached variant, handy for tests and for
// prefixed per-route settings.
//
//	type Config struct {
//		Methods []string `env:"FORM_METHODS" envSeparator:"," envDefault:"POST"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
//
//	signup, err := config.Parse[Config](config.WithPrefix("SIGNUP_"))
//
// Parse failures wrap ErrParsingConfig.
package config
