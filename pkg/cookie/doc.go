// Package cookie writes and reads HMAC-SHA256 signed cookies.
//
// The Manager is created once with one or more secrets of at least 32
// characters and default cookie attributes. The first secret signs; all of
// them verify, so a secret can be rotated by prepending the new one.
//
//	m, err := cookie.New([]string{os.Getenv("COOKIE_SECRET")}, cookie.WithSecure(true))
//	m.SetSigned(w, "_csrf_token", token)
//	token, err := m.GetSigned(r, "_csrf_token")
//
// GetSigned returns ErrCookieNotFound, ErrInvalidFormat or
// ErrInvalidSignature. pkg/csrf stores its session token this way.
package cookie
