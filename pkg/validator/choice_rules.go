package validator

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/text/cases"
)

// SelectValidator accepts only values from a fixed list of options.
type SelectValidator struct {
	options  []string
	allowed  map[string]struct{}
	foldCase bool
}

// SelectOption configures a SelectValidator.
type SelectOption func(*SelectValidator)

// FoldCase compares values with Unicode case folding, so "Straße" matches
// "STRASSE".
func FoldCase() SelectOption {
	return func(v *SelectValidator) {
		v.foldCase = true
	}
}

// Select creates a membership rule. It panics when options is empty.
//
// Example:
//
//	validator.Select([]string{"apples", "oranges", "bananas"})
func Select(options []string, opts ...SelectOption) *SelectValidator {
	v, err := NewSelect(options, opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// NewSelect is like Select but returns an error instead of panicking.
func NewSelect(options []string, opts ...SelectOption) (*SelectValidator, error) {
	if len(options) == 0 {
		return nil, fmt.Errorf("%w: select needs at least one option", ErrInvalidRule)
	}
	v := &SelectValidator{}
	for _, opt := range opts {
		opt(v)
	}

	v.options = slices.Clone(options)
	slices.Sort(v.options)
	v.options = slices.Compact(v.options)

	// cases.Caser is stateful; each call site gets its own.
	fold := cases.Fold()
	v.allowed = make(map[string]struct{}, len(v.options))
	for _, o := range v.options {
		if v.foldCase {
			o = fold.String(o)
		}
		v.allowed[o] = struct{}{}
	}
	return v, nil
}

func (v *SelectValidator) Name() string { return "select" }

func (v *SelectValidator) Validate(_ context.Context, field, value string) error {
	key := value
	if v.foldCase {
		key = cases.Fold().String(value)
	}
	if _, ok := v.allowed[key]; ok {
		return nil
	}
	return &ValidationError{Field: field, Value: value, Rule: v.Name(), Message: "not an allowed option"}
}

func (v *SelectValidator) Populate(_ context.Context, _ string) map[string]any {
	return map[string]any{"options": slices.Clone(v.options)}
}
