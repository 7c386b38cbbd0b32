package cookie

import "errors"

var (
	// ErrNoSecret is returned by New without a non-empty secret.
	ErrNoSecret = errors.New("cookie: no signing secret")
	// ErrSecretTooShort is returned by New for secrets under 32 characters.
	ErrSecretTooShort = errors.New("cookie: signing secret too short")
	// ErrInvalidSignature means the cookie was signed with an unknown secret
	// or for another name.
	ErrInvalidSignature = errors.New("cookie: invalid signature")
	// ErrCookieNotFound means the request carries no such cookie.
	ErrCookieNotFound = errors.New("cookie: not found")
	// ErrInvalidFormat means the value is not a signed cookie.
	ErrInvalidFormat = errors.New("cookie: malformed signed value")
)
