package csrf

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/formguard/pkg/cookie"
	"github.com/dmitrymomot/formguard/pkg/validator"
)

const (
	// DefaultCookieName is the signed cookie holding the session token.
	DefaultCookieName = "_csrf_token"
	// DefaultFieldName is the form field the token is expected in.
	DefaultFieldName = "csrf_token"

	tokenBytes = 24
)

// ErrNilCookieManager is returned by New without a cookie manager.
var ErrNilCookieManager = errors.New("csrf: nil cookie manager")

// Config holds CSRF settings loaded from the environment.
type Config struct {
	CookieName string `env:"CSRF_COOKIE_NAME" envDefault:"_csrf_token"`
	MaxAge     int    `env:"CSRF_MAX_AGE" envDefault:"0"`
}

// Option configures a Manager.
type Option func(*Manager)

// WithCookieName overrides DefaultCookieName.
func WithCookieName(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.cookieName = name
		}
	}
}

// WithMaxAge sets the token cookie lifetime in seconds; 0 keeps it for the
// browser session.
func WithMaxAge(seconds int) Option {
	return func(m *Manager) {
		m.maxAge = seconds
	}
}

// Manager issues per-session tokens and exposes them to the request context.
type Manager struct {
	cookies    *cookie.Manager
	cookieName string
	maxAge     int
}

// New creates a Manager storing tokens in signed cookies.
func New(cookies *cookie.Manager, opts ...Option) (*Manager, error) {
	if cookies == nil {
		return nil, ErrNilCookieManager
	}
	m := &Manager{cookies: cookies, cookieName: DefaultCookieName}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// NewFromConfig creates a Manager from cfg.
func NewFromConfig(cookies *cookie.Manager, cfg Config, opts ...Option) (*Manager, error) {
	return New(cookies, append([]Option{WithCookieName(cfg.CookieName), WithMaxAge(cfg.MaxAge)}, opts...)...)
}

// Middleware puts the session token into the request context. Safe requests
// without a valid token get a new one; unsafe requests never do, so a form
// posted without a session fails with InvalidSessionError.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := m.cookies.GetSigned(r, m.cookieName)
		if err != nil || token == "" {
			token = ""
			if isSafe(r.Method) {
				token, err = NewToken()
				if err != nil {
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				m.cookies.SetSigned(w, m.cookieName, token, cookie.WithMaxAge(m.maxAge))
			}
		}
		if token != "" {
			r = r.WithContext(WithToken(r.Context(), token))
		}
		next.ServeHTTP(w, r)
	})
}

func isSafe(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

// NewToken returns 24 random bytes, base64 encoded.
func NewToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", fmt.Errorf("csrf: generate token: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

type contextKey struct{}

// WithToken returns a copy of ctx carrying the session token.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, contextKey{}, token)
}

// TokenFromContext returns the session token, or "" without a session.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(contextKey{}).(string)
	return token
}

// Validator returns the rule checking a submitted value against the session
// token. Register it on the field the token is posted in:
//
//	formguard.WithValidator(csrf.DefaultFieldName, csrf.Validator())
func Validator() validator.Validator {
	return tokenValidator{}
}

type tokenValidator struct{}

func (tokenValidator) Name() string { return "csrf" }

func (tokenValidator) Validate(ctx context.Context, field, value string) error {
	token := TokenFromContext(ctx)
	if token == "" {
		return &validator.InvalidSessionError{}
	}
	if subtle.ConstantTimeCompare([]byte(value), []byte(token)) != 1 {
		return &validator.ValidationError{Field: field, Value: value, Rule: "csrf", Message: "token mismatch"}
	}
	return nil
}

// Populate exposes the field name, the token and a ready hidden input tag.
func (tokenValidator) Populate(ctx context.Context, field string) map[string]any {
	token := TokenFromContext(ctx)
	return map[string]any{
		"name":  field,
		"token": token,
		"tag":   hiddenInput(field, token),
	}
}

// Field renders the hidden input carrying token.
func Field(token, name string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, hiddenInput(name, token))
		return err
	})
}

func hiddenInput(name, token string) string {
	return `<input type="hidden" name="` + templ.EscapeString(name) + `" value="` + templ.EscapeString(token) + `" />`
}
