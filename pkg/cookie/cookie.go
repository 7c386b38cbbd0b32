package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"
)

const minSecretLength = 32

// Manager writes and reads HMAC-signed cookies.
// It is immutable after New and safe for concurrent use.
type Manager struct {
	secrets  []string
	defaults Options
}

// New creates a Manager. The first secret signs, every secret verifies, so
// secrets can be rotated by prepending a new one.
func New(secrets []string, opts ...Option) (*Manager, error) {
	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}

	for i, s := range secrets {
		if len(s) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need at least %d", ErrSecretTooShort, i, len(s), minSecretLength)
		}
	}

	defaults := applyOptions(Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, opts)

	return &Manager{
		secrets:  secrets,
		defaults: defaults,
	}, nil
}

// Set writes a plain cookie.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) {
	options := applyOptions(m.defaults, opts)

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   options.MaxAge,
		Secure:   options.Secure,
		HttpOnly: options.HttpOnly,
		SameSite: options.SameSite,
	})
}

// Get reads a plain cookie.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Delete expires a cookie written with the manager defaults.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     m.defaults.Path,
		Domain:   m.defaults.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: m.defaults.HttpOnly,
		SameSite: m.defaults.SameSite,
		Secure:   m.defaults.Secure,
	})
}

// SetSigned writes value with an HMAC-SHA256 signature. The signature
// covers the cookie name, so a value cannot be replayed under another name.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, opts ...Option) {
	m.Set(w, name, m.sign(name, value), opts...)
}

// GetSigned reads a signed cookie, returning ErrInvalidSignature for
// tampered values and ErrCookieNotFound when it is absent.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	signed, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	return m.verify(name, signed)
}

// sign produces base64(value) "." base64(hmac(name "=" value)).
func (m *Manager) sign(name, value string) string {
	return encoding.EncodeToString([]byte(value)) + "." + encoding.EncodeToString(mac(m.secrets[0], name, value))
}

func (m *Manager) verify(name, signed string) (string, error) {
	encodedValue, encodedSig, ok := strings.Cut(signed, ".")
	if !ok {
		return "", ErrInvalidFormat
	}
	value, err := encoding.DecodeString(encodedValue)
	if err != nil {
		return "", ErrInvalidFormat
	}
	sig, err := encoding.DecodeString(encodedSig)
	if err != nil {
		return "", ErrInvalidFormat
	}

	for _, secret := range m.secrets {
		if hmac.Equal(sig, mac(secret, name, string(value))) {
			return string(value), nil
		}
	}
	return "", ErrInvalidSignature
}

var encoding = base64.RawURLEncoding

func mac(secret, name, value string) []byte {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(name))
	h.Write([]byte{'='})
	h.Write([]byte(value))
	return h.Sum(nil)
}
