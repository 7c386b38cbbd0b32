package formguard

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/formguard/pkg/validator"
)

// HandlerFunc handles a guarded request. form is never nil: in form mode it
// holds validated fields, otherwise IsFormMode is false and nothing was checked.
//
// Example:
//
//	signup := formguard.HandlerFunc(func(ctx formguard.Context, form *formguard.Form) formguard.Response {
//		if !form.IsFormMode() {
//			return formguard.Templ(views.SignupPage(form))
//		}
//		user := createUser(form.Value("username"), form.Value("email"))
//		return formguard.Redirect("/users/" + user.ID)
//	})
type HandlerFunc func(ctx Context, form *Form) Response

// Response renders itself to an http.ResponseWriter.
// Implementations should set headers, status code, and write body.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// ErrorHandler handles validation failures and render errors.
type ErrorHandler func(ctx Context, err error)

// Decorator wraps a HandlerFunc to add cross-cutting functionality.
// Decorators run after validation, only for requests that passed it.
// The first decorator in the list is the outermost wrapper.
type Decorator func(HandlerFunc) HandlerFunc

// WrapOption configures Wrap and Guard.Middleware.
type WrapOption func(*wrapConfig)

type wrapConfig struct {
	errorHandler ErrorHandler
	decorators   []Decorator
}

// WithErrorHandler sets a custom error handler.
func WithErrorHandler(h ErrorHandler) WrapOption {
	return func(c *wrapConfig) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// WithDecorators adds decorators to wrap the handler.
// Decorators are applied in order, with the first decorator being the outermost.
func WithDecorators(decorators ...Decorator) WrapOption {
	return func(c *wrapConfig) {
		c.decorators = append(c.decorators, decorators...)
	}
}

// defaultErrorHandler answers form errors with 400 (403 for a missing
// session token) and everything else with 500.
func defaultErrorHandler(ctx Context, err error) {
	http.Error(ctx.ResponseWriter(), http.StatusText(statusOf(err)), statusOf(err))
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case validator.KindOf(err) == validator.KindInvalidSession:
		return http.StatusForbidden
	case validator.IsFormError(err):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func newWrapConfig(opts []WrapOption) *wrapConfig {
	cfg := &wrapConfig{errorHandler: defaultErrorHandler}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Wrap converts a form-aware handler into an http.HandlerFunc guarded by g.
//
// For every request exactly one of the following happens: the guard fails
// and the error handler runs, or the handler runs with the evaluated form.
// The form is also stored in the request context, see FromContext.
//
// Usage:
//
//	guard := formguard.MustNew(
//		formguard.WithValidator("username", validator.Regex(`[a-z][a-z0-9]{0,29}$`)),
//	)
//	r.Handle("/signup", formguard.Wrap(guard, signup,
//		formguard.WithErrorHandler(formguard.NewErrorHandler(log, formguard.ErrorHandlerConfig{})),
//	))
func Wrap(g *Guard, h HandlerFunc, opts ...WrapOption) http.HandlerFunc {
	if g == nil {
		panic(ErrNilGuard)
	}
	cfg := newWrapConfig(opts)

	// Apply decorators in reverse order so first decorator is outermost
	final := h
	for i := len(cfg.decorators) - 1; i >= 0; i-- {
		final = cfg.decorators[i](final)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		form, err := g.Evaluate(r)
		if err != nil {
			cfg.errorHandler(NewContext(w, r), err)
			return
		}

		r = r.WithContext(WithForm(r.Context(), form))
		ctx := NewContext(w, r)

		response := final(ctx, form)
		if response == nil {
			cfg.errorHandler(ctx, ErrNilResponse)
			return
		}
		if err := response.Render(w, r); err != nil {
			cfg.errorHandler(ctx, err)
		}
	}
}
