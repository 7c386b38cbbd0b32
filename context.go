package formguard

import (
	"context"
	"net/http"
	"time"
)

// Context wraps http.Request and http.ResponseWriter with context.Context.
// It embeds the request's context and gives the handler its guarded Form.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
	Form() *Form
}

// NewContext creates a new Context from HTTP request and response writer.
// The form is taken from the request context when a guard stored one there.
func NewContext(w http.ResponseWriter, r *http.Request) Context {
	return &httpContext{
		w:    w,
		r:    r,
		form: FromContext(r.Context()),
	}
}

// httpContext is the default implementation of Context.
type httpContext struct {
	w    http.ResponseWriter
	r    *http.Request
	form *Form
}

func (c *httpContext) Request() *http.Request {
	return c.r
}

func (c *httpContext) ResponseWriter() http.ResponseWriter {
	return c.w
}

func (c *httpContext) Form() *Form {
	return c.form
}

// Delegate context.Context methods to the request's context
func (c *httpContext) Deadline() (deadline time.Time, ok bool) {
	return c.r.Context().Deadline()
}

func (c *httpContext) Done() <-chan struct{} {
	return c.r.Context().Done()
}

func (c *httpContext) Err() error {
	return c.r.Context().Err()
}

func (c *httpContext) Value(key any) any {
	return c.r.Context().Value(key)
}

// ContextKey provides type-safe context keys to prevent key collisions.
// Should be created as package-level variables for consistent access.
type ContextKey struct{ name string }

// String returns a string representation of the context key for debugging.
func (c *ContextKey) String() string {
	return c.name
}

// NewContextKey creates a new context key.
// The name should be unique within your application.
//
// Example:
//
//	var userKey = formguard.NewContextKey("user")
func NewContextKey(name string) *ContextKey {
	return &ContextKey{name}
}

var formKey = NewContextKey("formguard.form")

// WithForm returns a copy of ctx carrying form.
func WithForm(ctx context.Context, form *Form) context.Context {
	return context.WithValue(ctx, formKey, form)
}

// FromContext returns the Form stored by a guard, or nil outside a guarded
// request. A nil Form is safe to read: it reports no fields and no form mode.
func FromContext(ctx context.Context) *Form {
	return ContextValue[*Form](ctx, formKey)
}

// ContextValue retrieves a typed value from the context.
// Returns the zero value of T if the key is not present or has a different type.
//
// Example:
//
//	var userKey = formguard.NewContextKey("user")
//
//	ctx = context.WithValue(ctx, userKey, &User{ID: 123})
//	user := formguard.ContextValue[*User](ctx, userKey)
func ContextValue[T any](ctx context.Context, key any) T {
	val, _ := ctx.Value(key).(T)
	return val
}

// ContextValueOK retrieves a typed value from the context with an ok bool.
// The bool indicates whether the key was present and had the expected type.
func ContextValueOK[T any](ctx context.Context, key any) (T, bool) {
	val, ok := ctx.Value(key).(T)
	return val, ok
}
