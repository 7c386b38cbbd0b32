package validator

import (
	"context"
	"fmt"
	"regexp"
)

// RegexValidator matches values against a regular expression.
type RegexValidator struct {
	pattern string
	re      *regexp.Regexp
}

// CompileRegex builds a regex rule. The match is anchored at the start of the
// value; anchor the end with `$` to require an exact match.
//
// Prefer the common subset of regex syntax if the pattern is also rendered
// into HTML `pattern` attributes through Populate.
func CompileRegex(pattern string) (*RegexValidator, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err)
	}
	return &RegexValidator{pattern: pattern, re: re}, nil
}

// Regex is like CompileRegex but panics on an invalid pattern, so that a bad
// rule stops the application at registration time.
//
// Example:
//
//	formguard.WithValidator("count", validator.Regex(`[0-9]{1,4}`))
func Regex(pattern string) *RegexValidator {
	v, err := CompileRegex(pattern)
	if err != nil {
		panic(err)
	}
	return v
}

func (v *RegexValidator) Name() string { return "regex" }

// Pattern returns the pattern as it was given, without the start anchor.
func (v *RegexValidator) Pattern() string { return v.pattern }

func (v *RegexValidator) Validate(_ context.Context, field, value string) error {
	if v.re.MatchString(value) {
		return nil
	}
	return &PatternMismatchError{Field: field, Value: value, Pattern: v.pattern}
}

func (v *RegexValidator) Populate(_ context.Context, _ string) map[string]any {
	return map[string]any{"pattern": v.pattern}
}
