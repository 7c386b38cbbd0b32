package formguard_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formguard"
	"github.com/dmitrymomot/formguard/pkg/validator"
)

type mockResponse struct {
	statusCode int
	body       string
	renderErr  error
}

func (m mockResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if m.renderErr != nil {
		return m.renderErr
	}
	w.WriteHeader(m.statusCode)
	_, _ = w.Write([]byte(m.body))
	return nil
}

func newSignupGuard() *formguard.Guard {
	return formguard.MustNew(
		formguard.WithName("signup"),
		formguard.WithValidator("new", validator.Regex("hi")),
	)
}

func TestWrap(t *testing.T) {
	t.Parallel()

	t.Run("valid submission reaches handler", func(t *testing.T) {
		t.Parallel()
		called := false
		h := formguard.Wrap(newSignupGuard(), func(ctx formguard.Context, form *formguard.Form) formguard.Response {
			called = true
			assert.True(t, form.IsFormMode())
			assert.Same(t, form, ctx.Form())
			assert.Same(t, form, formguard.FromContext(ctx))
			return mockResponse{statusCode: http.StatusCreated, body: form.Value("new")}
		})

		rec := httptest.NewRecorder()
		h(rec, postForm(url.Values{"new": {"hi"}}))

		assert.True(t, called)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "hi", rec.Body.String())
	})

	t.Run("GET reaches handler outside form mode", func(t *testing.T) {
		t.Parallel()
		h := formguard.Wrap(newSignupGuard(), func(_ formguard.Context, form *formguard.Form) formguard.Response {
			assert.False(t, form.IsFormMode())
			assert.Equal(t, "hi", form.Meta("new")["regex_pattern"])
			return mockResponse{statusCode: http.StatusOK, body: "page"}
		})

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/form", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("invalid submission goes to error handler only", func(t *testing.T) {
		t.Parallel()
		var handled error
		h := formguard.Wrap(newSignupGuard(),
			func(formguard.Context, *formguard.Form) formguard.Response {
				t.Fatal("handler must not run")
				return nil
			},
			formguard.WithErrorHandler(func(ctx formguard.Context, err error) {
				handled = err
				assert.Nil(t, ctx.Form())
				ctx.ResponseWriter().WriteHeader(http.StatusTeapot)
			}),
		)

		rec := httptest.NewRecorder()
		h(rec, postForm(url.Values{"new": {"bye"}}))

		assert.Equal(t, http.StatusTeapot, rec.Code)
		var pm *formguard.PatternMismatchError
		assert.ErrorAs(t, handled, &pm)
	})

	t.Run("default error handler", func(t *testing.T) {
		t.Parallel()
		h := formguard.Wrap(newSignupGuard(), func(formguard.Context, *formguard.Form) formguard.Response {
			return mockResponse{statusCode: http.StatusOK}
		})

		rec := httptest.NewRecorder()
		h(rec, postForm(url.Values{}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()
		var handled error
		h := formguard.Wrap(newSignupGuard(),
			func(formguard.Context, *formguard.Form) formguard.Response { return nil },
			formguard.WithErrorHandler(func(_ formguard.Context, err error) { handled = err }),
		)

		h(httptest.NewRecorder(), postForm(url.Values{"new": {"hi"}}))
		assert.ErrorIs(t, handled, formguard.ErrNilResponse)
	})

	t.Run("render error", func(t *testing.T) {
		t.Parallel()
		renderErr := errors.New("render failed")
		h := formguard.Wrap(newSignupGuard(), func(formguard.Context, *formguard.Form) formguard.Response {
			return mockResponse{renderErr: renderErr}
		})

		rec := httptest.NewRecorder()
		h(rec, postForm(url.Values{"new": {"hi"}}))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("decorators wrap in order", func(t *testing.T) {
		t.Parallel()
		var order []string
		trace := func(name string) formguard.Decorator {
			return func(next formguard.HandlerFunc) formguard.HandlerFunc {
				return func(ctx formguard.Context, form *formguard.Form) formguard.Response {
					order = append(order, name)
					return next(ctx, form)
				}
			}
		}
		h := formguard.Wrap(newSignupGuard(),
			func(formguard.Context, *formguard.Form) formguard.Response {
				order = append(order, "handler")
				return mockResponse{statusCode: http.StatusOK}
			},
			formguard.WithDecorators(trace("outer"), trace("inner")),
		)

		h(httptest.NewRecorder(), postForm(url.Values{"new": {"hi"}}))
		assert.Equal(t, []string{"outer", "inner", "handler"}, order)
	})

	t.Run("nil guard panics", func(t *testing.T) {
		t.Parallel()
		assert.PanicsWithValue(t, formguard.ErrNilGuard, func() {
			formguard.Wrap(nil, func(formguard.Context, *formguard.Form) formguard.Response { return nil })
		})
	})
}

func TestGuard_Middleware(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.With(newSignupGuard().Middleware()).Post("/signup", func(w http.ResponseWriter, r *http.Request) {
		form := formguard.FromContext(r.Context())
		require.NotNil(t, form)
		_, _ = w.Write([]byte("hello " + form.Value("new")))
	})

	t.Run("valid", func(t *testing.T) {
		req := postForm(url.Values{"new": {"hi"}})
		req.URL.Path = "/signup"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "hello hi", rec.Body.String())
	})

	t.Run("invalid", func(t *testing.T) {
		req := postForm(url.Values{"new": {"bye"}})
		req.URL.Path = "/signup"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
