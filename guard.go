package formguard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"slices"
	"time"

	"github.com/dmitrymomot/formguard/pkg/logger"
	"github.com/dmitrymomot/formguard/pkg/validator"
)

// Step is one registered field check: the field and its validators, run in order.
type Step struct {
	Field      string
	Validators []validator.Validator
}

// Result describes one evaluation, passed to every Hook.
type Result struct {
	Guard    string
	Method   string
	FormMode bool
	Err      error
	Duration time.Duration
}

// Hook observes evaluations, e.g. for metrics. Hooks run synchronously on the
// request goroutine and must not block.
type Hook func(ctx context.Context, res Result)

// Option configures a Guard.
type Option func(*options)

type options struct {
	name         string
	methods      []string
	steps        []Step
	jsonFallback bool
	maxMemory    int64
	logger       *slog.Logger
	hooks        []Hook
	errs         []error
}

// WithName sets the guard name used in logs and hook results.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithMethods sets the methods for which validation runs. Defaults to POST.
func WithMethods(methods ...string) Option {
	return func(o *options) {
		o.methods = append(o.methods, methods...)
	}
}

// WithValidator appends one step to the pipeline. Steps run in the order the
// options are given, validators within a step in argument order; registering
// the same field twice appends a second step for it.
//
// Example:
//
//	formguard.New(
//		formguard.WithValidator("username", validator.Regex(`[a-z][a-z0-9]{0,29}$`)),
//		formguard.WithValidator("email", validator.Email(validator.WithDomain("example.com"))),
//	)
func WithValidator(field string, validators ...validator.Validator) Option {
	return func(o *options) {
		if field == "" {
			o.errs = append(o.errs, ErrInvalidField)
			return
		}
		if len(validators) == 0 || slices.ContainsFunc(validators, isNilValidator) {
			o.errs = append(o.errs, fmt.Errorf("%w: field %q", ErrNilValidator, field))
			return
		}
		o.steps = append(o.steps, Step{Field: field, Validators: slices.Clone(validators)})
	}
}

// WithJSONFallback enables or disables reading fields from JSON bodies.
// Enabled by default.
func WithJSONFallback(enabled bool) Option {
	return func(o *options) {
		o.jsonFallback = enabled
	}
}

// WithMaxMemory caps the request body read in form mode, whatever its
// encoding. Larger bodies fail with a MalformedFormError wrapping
// ErrBodyTooLarge.
func WithMaxMemory(n int64) Option {
	return func(o *options) {
		if n <= 0 {
			o.errs = append(o.errs, fmt.Errorf("%w: max memory must be positive, got %d", ErrInvalidConfig, n))
			return
		}
		o.maxMemory = n
	}
}

// WithLogger sets the logger for evaluation diagnostics. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithHook registers hooks called after every evaluation. Nil hooks are ignored.
func WithHook(hooks ...Hook) Option {
	return func(o *options) {
		for _, h := range hooks {
			if h != nil {
				o.hooks = append(o.hooks, h)
			}
		}
	}
}

// Guard is the validation pipeline attached to one handler. It is built once
// at registration time and is immutable afterwards, so a single Guard can
// serve any number of concurrent requests.
type Guard struct {
	name         string
	methods      MethodSet
	steps        []Step
	jsonFallback bool
	maxMemory    int64
	logger       *slog.Logger
	hooks        []Hook
}

// New builds a Guard. Misconfiguration is reported here, never per request.
func New(opts ...Option) (*Guard, error) {
	o := &options{
		jsonFallback: true,
		maxMemory:    DefaultMaxMemory,
	}
	for _, opt := range opts {
		opt(o)
	}
	if len(o.errs) > 0 {
		return nil, errors.Join(o.errs...)
	}

	log := o.logger
	if log == nil {
		log = slog.Default()
	}

	return &Guard{
		name:         o.name,
		methods:      NewMethodSet(o.methods...),
		steps:        o.steps,
		jsonFallback: o.jsonFallback,
		maxMemory:    o.maxMemory,
		logger:       log,
		hooks:        o.hooks,
	}, nil
}

// MustNew is like New but panics on misconfiguration.
func MustNew(opts ...Option) *Guard {
	g, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return g
}

// Name returns the configured guard name.
func (g *Guard) Name() string { return g.name }

// Methods returns the method set the guard validates.
func (g *Guard) Methods() MethodSet { return g.methods }

// Steps returns a copy of the pipeline in execution order.
func (g *Guard) Steps() []Step {
	steps := make([]Step, len(g.steps))
	for i, s := range g.steps {
		steps[i] = Step{Field: s.Field, Validators: slices.Clone(s.Validators)}
	}
	return steps
}

// Evaluate runs the pipeline for one request.
//
// When the request method is not in the guard's method set the form is
// returned with IsFormMode false and no validator runs. Otherwise every step
// runs in order and the first failure is returned; the form is nil then.
func (g *Guard) Evaluate(r *http.Request) (*Form, error) {
	start := time.Now()
	ctx := r.Context()

	form := &Form{
		method:   r.Method,
		formMode: g.methods.Matches(r.Method),
	}
	err := g.evaluate(ctx, r, form)

	res := Result{
		Guard:    g.name,
		Method:   r.Method,
		FormMode: form.formMode,
		Err:      err,
		Duration: time.Since(start),
	}
	for _, h := range g.hooks {
		h(ctx, res)
	}

	if err != nil {
		g.logger.LogAttrs(ctx, slog.LevelDebug, "form validation failed",
			logger.Component("formguard"),
			logger.Guard(g.name),
			logger.Method(r.Method),
			logger.Field(validator.FieldOf(err)),
			logger.Kind(validator.KindOf(err)),
			logger.Error(err),
		)
		return nil, err
	}
	return form, nil
}

func (g *Guard) evaluate(ctx context.Context, r *http.Request, form *Form) error {
	// Outside form mode only sources that stay readable for the handler are
	// consumed; JSON and signal bodies are left untouched.
	values, err := readFields(r, sourceOptions{
		maxMemory: g.maxMemory,
		json:      form.formMode && g.jsonFallback,
		signals:   form.formMode,
	})

	if !form.formMode {
		if err != nil {
			g.logger.LogAttrs(ctx, slog.LevelDebug, "ignoring unreadable body outside form mode",
				logger.Component("formguard"),
				logger.Guard(g.name),
				logger.Error(err),
			)
			values = nil
		}
		form.values = orEmpty(values)
		form.meta = g.populate(ctx)
		return nil
	}

	if err != nil {
		return &validator.MalformedFormError{Err: err}
	}
	form.values = orEmpty(values)

	for _, step := range g.steps {
		value, ok := form.Get(step.Field)
		if !ok {
			return &validator.MissingFieldError{Field: step.Field}
		}
		for _, v := range step.Validators {
			if err := v.Validate(ctx, step.Field, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// populate collects template metadata for every validated field.
func (g *Guard) populate(ctx context.Context) map[string]map[string]any {
	var meta map[string]map[string]any
	for _, step := range g.steps {
		fields := validator.Populate(ctx, step.Field, step.Validators...)
		if fields == nil {
			continue
		}
		if meta == nil {
			meta = make(map[string]map[string]any)
		}
		if existing, ok := meta[step.Field]; ok {
			for k, v := range fields {
				existing[k] = v
			}
			continue
		}
		meta[step.Field] = fields
	}
	return meta
}

func orEmpty(v url.Values) url.Values {
	if v == nil {
		return url.Values{}
	}
	return v
}

// isNilValidator also catches typed nils such as (*validator.RegexValidator)(nil).
func isNilValidator(v validator.Validator) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
