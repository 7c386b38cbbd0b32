package validator

import (
	"context"
	"fmt"
	"unicode/utf8"
)

type existsValidator struct{}

// Exists only requires the field to be present. Presence itself is enforced by
// the guard before any validator runs, so the check always passes.
func Exists() Validator { return existsValidator{} }

func (existsValidator) Name() string { return "exists" }

func (existsValidator) Validate(context.Context, string, string) error { return nil }

// LengthValidator bounds the number of characters (runes) in a value.
type LengthValidator struct {
	min, max       int
	hasMin, hasMax bool
}

// LengthOption configures a LengthValidator.
type LengthOption func(*LengthValidator)

// Min sets the lower bound, inclusive.
func Min(n int) LengthOption {
	return func(v *LengthValidator) {
		v.min = n
		v.hasMin = true
	}
}

// Max sets the upper bound, inclusive.
func Max(n int) LengthOption {
	return func(v *LengthValidator) {
		v.max = n
		v.hasMax = true
	}
}

// Length creates a character count rule. Without options every value passes.
// It panics if a bound is negative or min exceeds max.
//
// Example:
//
//	validator.Length(validator.Min(6), validator.Max(30))
func Length(opts ...LengthOption) *LengthValidator {
	v, err := NewLength(opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// NewLength is like Length but returns an error instead of panicking.
func NewLength(opts ...LengthOption) (*LengthValidator, error) {
	v := &LengthValidator{}
	for _, opt := range opts {
		opt(v)
	}
	if (v.hasMin && v.min < 0) || (v.hasMax && v.max < 0) {
		return nil, fmt.Errorf("%w: length bounds must not be negative", ErrInvalidRule)
	}
	if v.hasMin && v.hasMax && v.min > v.max {
		return nil, fmt.Errorf("%w: min length %d exceeds max length %d", ErrInvalidRule, v.min, v.max)
	}
	return v, nil
}

func (v *LengthValidator) Name() string { return "length" }

func (v *LengthValidator) Validate(_ context.Context, field, value string) error {
	n := utf8.RuneCountInString(value)
	if v.hasMin && n < v.min {
		return &ValidationError{
			Field:   field,
			Value:   value,
			Rule:    v.Name(),
			Message: fmt.Sprintf("value too short (%d < %d)", n, v.min),
		}
	}
	if v.hasMax && n > v.max {
		return &ValidationError{
			Field:   field,
			Value:   value,
			Rule:    v.Name(),
			Message: fmt.Sprintf("value too long (%d > %d)", n, v.max),
		}
	}
	return nil
}

func (v *LengthValidator) Populate(_ context.Context, _ string) map[string]any {
	meta := map[string]any{"min": nil, "max": nil}
	if v.hasMin {
		meta["min"] = v.min
	}
	if v.hasMax {
		meta["max"] = v.max
	}
	return meta
}
