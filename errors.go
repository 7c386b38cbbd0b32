package formguard

import (
	"errors"

	"github.com/dmitrymomot/formguard/pkg/validator"
)

// ErrForm is the base kind of every validation failure; see pkg/validator.
var ErrForm = validator.ErrForm

// Form error kinds, re-exported for error hook authors.
type (
	MissingFieldError    = validator.MissingFieldError
	PatternMismatchError = validator.PatternMismatchError
	ValidationError      = validator.ValidationError
	InvalidSessionError  = validator.InvalidSessionError
	MalformedFormError   = validator.MalformedFormError
)

// Package-level errors for configuration and rendering failures.
var (
	// ErrInvalidField indicates a validator registered without a field name.
	ErrInvalidField = errors.New("formguard: invalid field name")
	// ErrNilValidator indicates a nil validator or a field with no validators.
	ErrNilValidator = errors.New("formguard: nil validator")
	// ErrInvalidConfig indicates an unusable guard option.
	ErrInvalidConfig = errors.New("formguard: invalid configuration")
	// ErrBodyTooLarge indicates a request body over the configured memory limit.
	ErrBodyTooLarge = errors.New("formguard: request body too large")
	// ErrNilResponse indicates a handler returned nil instead of a Response.
	ErrNilResponse = errors.New("formguard: handler returned nil response")
	// ErrNilGuard indicates Wrap was called without a guard.
	ErrNilGuard = errors.New("formguard: nil guard")
)
