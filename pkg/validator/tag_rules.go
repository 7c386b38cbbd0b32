package validator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	playground "github.com/go-playground/validator/v10"
)

var (
	tagEngine     *playground.Validate
	tagEngineOnce sync.Once
)

// engine returns the shared go-playground validator. It caches struct
// metadata internally and is safe for concurrent use.
func engine() *playground.Validate {
	tagEngineOnce.Do(func() {
		tagEngine = playground.New(playground.WithRequiredStructEnabled())
	})
	return tagEngine
}

// TagValidator delegates to a go-playground/validator tag such as
// "email", "uuid4" or "alphanum,min=3,max=16".
type TagValidator struct {
	tag string
}

// CompileTag builds a tag rule. Unknown tags are rejected here instead of
// panicking on the first request.
func CompileTag(tag string) (v *TagValidator, err error) {
	if tag == "" {
		return nil, fmt.Errorf("%w: empty validation tag", ErrInvalidRule)
	}
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, fmt.Errorf("%w: tag %q: %v", ErrInvalidRule, tag, r)
		}
	}()
	// The result does not matter, only whether the tag resolves.
	_ = engine().Var("", tag)
	return &TagValidator{tag: tag}, nil
}

// Tag is like CompileTag but panics on an invalid tag.
//
// Example:
//
//	formguard.WithValidator("id", validator.Tag("uuid4"))
func Tag(tag string) *TagValidator {
	v, err := CompileTag(tag)
	if err != nil {
		panic(err)
	}
	return v
}

func (v *TagValidator) Name() string { return "tag" }

func (v *TagValidator) Validate(ctx context.Context, field, value string) error {
	err := engine().VarCtx(ctx, value, v.tag)
	if err == nil {
		return nil
	}

	msg := "failed " + v.tag
	var fieldErrs playground.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		msg = fmt.Sprintf("failed on the %q tag", fieldErrs[0].Tag())
	}
	return &ValidationError{Field: field, Value: value, Rule: v.Name(), Message: msg, Err: err}
}

func (v *TagValidator) Populate(_ context.Context, _ string) map[string]any {
	return map[string]any{"rule": v.tag}
}
