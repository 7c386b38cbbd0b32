package validator

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"strings"
)

// EmailValidator performs a loose address check: something before and after
// the last "@", and nothing else containing "@". Use Tag("email") for a
// stricter RFC check; real verification belongs to a confirmation flow.
type EmailValidator struct {
	domain string
}

// EmailOption configures an EmailValidator.
type EmailOption func(*EmailValidator)

// WithDomain restricts addresses to one exact domain. Subdomains do not match.
func WithDomain(domain string) EmailOption {
	return func(v *EmailValidator) {
		v.domain = domain
	}
}

// Email creates an email address rule.
//
// Example:
//
//	formguard.WithValidator("email", validator.Email(validator.WithDomain("example.com")))
func Email(opts ...EmailOption) *EmailValidator {
	v := &EmailValidator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *EmailValidator) Name() string { return "email" }

func (v *EmailValidator) Validate(_ context.Context, field, value string) error {
	at := strings.LastIndex(value, "@")
	if at <= 0 || at == len(value)-1 || strings.Contains(value[:at], "@") {
		return &ValidationError{Field: field, Value: value, Rule: v.Name(), Message: "invalid email"}
	}
	if v.domain != "" && value[at+1:] != v.domain {
		return &ValidationError{
			Field:   field,
			Value:   value,
			Rule:    v.Name(),
			Message: fmt.Sprintf("invalid domain (%q)", v.domain),
		}
	}
	return nil
}

func (v *EmailValidator) Populate(_ context.Context, _ string) map[string]any {
	if v.domain == "" {
		return map[string]any{"domain": nil}
	}
	return map[string]any{"domain": v.domain}
}

// AddressFamily selects which IP versions an IPAddressValidator accepts.
type AddressFamily string

const (
	IPv4 AddressFamily = "ipv4"
	IPv6 AddressFamily = "ipv6"
)

var (
	errZoned  = errors.New("zoned address not allowed")
	errFamily = errors.New("address family not allowed")
)

// IPAddressValidator accepts literal IPv4 and/or IPv6 addresses.
type IPAddressValidator struct {
	families []AddressFamily
}

// IPAddress creates an address rule for the given families, IPv4 only by
// default. Zoned IPv6 addresses are rejected. IPv4 octets with leading zeroes
// are rejected as ambiguous.
//
// It panics on an unknown family.
func IPAddress(families ...AddressFamily) *IPAddressValidator {
	v, err := NewIPAddress(families...)
	if err != nil {
		panic(err)
	}
	return v
}

// NewIPAddress is like IPAddress but returns an error instead of panicking.
func NewIPAddress(families ...AddressFamily) (*IPAddressValidator, error) {
	if len(families) == 0 {
		families = []AddressFamily{IPv4}
	}
	for _, f := range families {
		if f != IPv4 && f != IPv6 {
			return nil, fmt.Errorf("%w: unknown address family %q", ErrInvalidRule, f)
		}
	}
	return &IPAddressValidator{families: families}, nil
}

func (v *IPAddressValidator) Name() string { return "ipaddress" }

func (v *IPAddressValidator) Validate(_ context.Context, field, value string) error {
	addr, err := netip.ParseAddr(value)
	if err == nil && addr.Zone() != "" {
		err = errZoned
	}
	if err == nil {
		for _, f := range v.families {
			if (f == IPv4 && addr.Is4()) || (f == IPv6 && addr.Is6()) {
				return nil
			}
		}
		err = errFamily
	}
	return &ValidationError{Field: field, Value: value, Rule: v.Name(), Err: err}
}

func (v *IPAddressValidator) Populate(_ context.Context, _ string) map[string]any {
	types := make([]string, len(v.families))
	for i, f := range v.families {
		types[i] = string(f)
	}
	return map[string]any{"type": types}
}
