package clientip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// DefaultHeaders are consulted in order before RemoteAddr.
var DefaultHeaders = []string{
	"CF-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// Resolver extracts the client address from a request.
type Resolver struct {
	headers []string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHeaders replaces the trusted headers. With no headers only RemoteAddr
// is used, which is the safe choice when no proxy sits in front.
func WithHeaders(headers ...string) Option {
	return func(r *Resolver) {
		r.headers = headers
	}
}

// New creates a Resolver trusting DefaultHeaders unless overridden.
func New(opts ...Option) *Resolver {
	r := &Resolver{headers: DefaultHeaders}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// IP returns the first valid address found in the trusted headers, then in
// RemoteAddr. It returns "" if none parses. X-Forwarded-For style lists
// yield their first valid entry.
func (res *Resolver) IP(r *http.Request) string {
	for _, h := range res.headers {
		v := r.Header.Get(h)
		if v == "" {
			continue
		}
		for part := range strings.SplitSeq(v, ",") {
			if ip := normalize(part); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return normalize(r.RemoteAddr)
	}
	return normalize(host)
}

// GetIP resolves with the default headers.
func GetIP(r *http.Request) string {
	return New().IP(r)
}

// normalize drops zones and unmaps IPv4-mapped IPv6 addresses.
func normalize(s string) string {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return addr.WithZone("").Unmap().String()
}
