package config

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// configCache stores one parsed copy per configuration type.
type configCache struct {
	mu     sync.RWMutex
	values map[reflect.Type]any
}

var (
	globalCache = &configCache{values: make(map[reflect.Type]any)}

	defaultEnvLoaded sync.Once
)

// Option tunes Parse.
type Option func(*env.Options)

// WithPrefix only reads variables starting with prefix, e.g. "SIGNUP_" makes
// FORM_METHODS read SIGNUP_FORM_METHODS.
func WithPrefix(prefix string) Option {
	return func(o *env.Options) { o.Prefix = prefix }
}

// WithEnvironment parses from vars instead of the process environment.
func WithEnvironment(vars map[string]string) Option {
	return func(o *env.Options) { o.Environment = vars }
}

// Parse parses the environment into a fresh T without touching the cache.
func Parse[T any](opts ...Option) (T, error) {
	var o env.Options
	for _, opt := range opts {
		opt(&o)
	}
	v, err := env.ParseAsWithOptions[T](o)
	if err != nil {
		return v, errors.Join(ErrParsingConfig, err)
	}
	return v, nil
}

// Load parses environment variables into v. Each configuration type is parsed
// once per process; later calls return the cached copy.
//
// The default .env file is loaded on first use if it exists.
//
// Example:
//
//	var cfg formguard.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	defaultEnvLoaded.Do(func() {
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	key := reflect.TypeFor[T]()

	globalCache.mu.RLock()
	cached, ok := globalCache.values[key]
	globalCache.mu.RUnlock()
	if ok {
		*v = cached.(T)
		return nil
	}

	globalCache.mu.Lock()
	defer globalCache.mu.Unlock()
	if cached, ok := globalCache.values[key]; ok {
		*v = cached.(T)
		return nil
	}

	parsed, err := Parse[T]()
	if err != nil {
		return err
	}
	globalCache.values[key] = parsed
	*v = parsed
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// LoadEnv loads variables from the given .env files without overriding
// variables already set. Missing files are skipped.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("%w: %s: %w", ErrLoadingEnvFile, f, err)
		}
	}
	return nil
}

// ResetCache drops every cached configuration. Intended for tests.
func ResetCache() {
	globalCache.mu.Lock()
	globalCache.values = make(map[reflect.Type]any)
	globalCache.mu.Unlock()
}
