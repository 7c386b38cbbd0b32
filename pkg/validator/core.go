package validator

import (
	"context"
	"maps"
)

// Validator checks a single submitted field value.
// Implementations must be safe for concurrent use; they are built once and
// shared by every request that reaches the guarded handler.
type Validator interface {
	// Name returns the rule kind, used to prefix populated metadata keys.
	Name() string
	// Validate returns nil if the value satisfies the rule, or a form error otherwise.
	Validate(ctx context.Context, field, value string) error
}

// Populator is implemented by validators that expose metadata to templates,
// e.g. a pattern or a list of options for rendering the empty form.
type Populator interface {
	Populate(ctx context.Context, field string) map[string]any
}

// funcValidator adapts a predicate to the Validator interface.
type funcValidator struct {
	name    string
	fn      func(value string) bool
	message string
}

// Func creates a validator from a predicate. A false result fails with a
// ValidationError carrying the given name as rule kind and message.
//
// Example:
//
//	even := validator.Func("even", func(v string) bool {
//		n, err := strconv.Atoi(v)
//		return err == nil && n%2 == 0
//	}, "must be an even number")
func Func(name string, fn func(value string) bool, message string) Validator {
	if fn == nil {
		panic("validator: nil predicate passed to Func")
	}
	if name == "" {
		name = "func"
	}
	return funcValidator{name: name, fn: fn, message: message}
}

func (f funcValidator) Name() string { return f.name }

func (f funcValidator) Validate(_ context.Context, field, value string) error {
	if f.fn(value) {
		return nil
	}
	return &ValidationError{Field: field, Value: value, Rule: f.name, Message: f.message}
}

// Sanitize prefixes metadata keys with the rule kind so that several
// validators on the same field can share one map: {"pattern": p} for a
// regex rule becomes {"regex_pattern": p}.
func Sanitize(kind string, fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[kind+"_"+k] = v
	}
	return out
}

// Populate merges the sanitized metadata of every Populator in validators.
// It returns nil when none of them exposes anything.
func Populate(ctx context.Context, field string, validators ...Validator) map[string]any {
	var meta map[string]any
	for _, v := range validators {
		p, ok := v.(Populator)
		if !ok {
			continue
		}
		fields := p.Populate(ctx, field)
		if len(fields) == 0 {
			continue
		}
		if meta == nil {
			meta = make(map[string]any, len(fields))
		}
		maps.Copy(meta, Sanitize(v.Name(), fields))
	}
	return meta
}
