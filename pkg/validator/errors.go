package validator

import (
	"errors"
	"fmt"
)

// ErrForm is the base kind of every form validation failure.
// Register a single error hook against it with errors.Is.
var ErrForm = errors.New("form error")

// Configuration errors returned by rule constructors.
var (
	// ErrInvalidPattern is returned when a regular expression does not compile.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrInvalidRule is returned when a rule is constructed with unusable parameters.
	ErrInvalidRule = errors.New("invalid rule")
)

// Failure kinds reported by KindOf.
const (
	KindMissingField    = "missing_field"
	KindPatternMismatch = "pattern_mismatch"
	KindInvalidValue    = "invalid_value"
	KindInvalidSession  = "invalid_session"
	KindMalformedForm   = "malformed_form"
)

// MissingFieldError is returned when a validated field is absent from the submitted form.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("expected key %q for form", e.Field)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrForm }

// PatternMismatchError is returned by the regex rule when a value does not match.
type PatternMismatchError struct {
	Field   string
	Value   string
	Pattern string
}

func (e *PatternMismatchError) Error() string {
	return fmt.Sprintf("%q: %q does not match pattern %q", e.Field, e.Value, e.Pattern)
}

func (e *PatternMismatchError) Is(target error) bool { return target == ErrForm }

// ValidationError is returned by any rule other than regex when the value does not fit.
// Rule holds the kind of the failing rule, Err the underlying cause if there was one.
type ValidationError struct {
	Field   string
	Value   string
	Rule    string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%q: %q failed %s check", e.Field, e.Value, e.Rule)
	if e.Message != "" {
		msg += " (" + e.Message + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ValidationError) Is(target error) bool { return target == ErrForm }

func (e *ValidationError) Unwrap() error { return e.Err }

// InvalidSessionError is returned when a session-bound rule (CSRF) finds no session token.
type InvalidSessionError struct{}

func (e *InvalidSessionError) Error() string {
	return "invalid or missing session for request"
}

func (e *InvalidSessionError) Is(target error) bool { return target == ErrForm }

// MalformedFormError is returned when the request body cannot be parsed in form mode.
type MalformedFormError struct {
	Err error
}

func (e *MalformedFormError) Error() string {
	return "malformed form data: " + e.Err.Error()
}

func (e *MalformedFormError) Is(target error) bool { return target == ErrForm }

func (e *MalformedFormError) Unwrap() error { return e.Err }

// IsFormError reports whether err belongs to the form error taxonomy.
func IsFormError(err error) bool {
	return errors.Is(err, ErrForm)
}

// FieldOf returns the field name carried by a form error, or "" if there is none.
func FieldOf(err error) string {
	var (
		missing  *MissingFieldError
		mismatch *PatternMismatchError
		invalid  *ValidationError
	)
	switch {
	case errors.As(err, &missing):
		return missing.Field
	case errors.As(err, &mismatch):
		return mismatch.Field
	case errors.As(err, &invalid):
		return invalid.Field
	}
	return ""
}

// KindOf classifies a form error. It returns "" for errors outside the taxonomy.
func KindOf(err error) string {
	var (
		missing   *MissingFieldError
		mismatch  *PatternMismatchError
		invalid   *ValidationError
		session   *InvalidSessionError
		malformed *MalformedFormError
	)
	switch {
	case errors.As(err, &missing):
		return KindMissingField
	case errors.As(err, &mismatch):
		return KindPatternMismatch
	case errors.As(err, &session):
		return KindInvalidSession
	case errors.As(err, &invalid):
		return KindInvalidValue
	case errors.As(err, &malformed):
		return KindMalformedForm
	}
	return ""
}
