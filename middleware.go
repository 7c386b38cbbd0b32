package formguard

import "net/http"

// Middleware returns a middleware guarding the next handler. On success the
// form is stored in the request context, where handlers read it with
// FromContext; on failure the error handler answers the request and next is
// not called.
//
// Decorators given through WithDecorators are ignored: next is a plain
// http.Handler.
//
// Example with chi:
//
//	r.With(guard.Middleware()).Post("/signup", signupHandler)
func (g *Guard) Middleware(opts ...WrapOption) func(http.Handler) http.Handler {
	cfg := newWrapConfig(opts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			form, err := g.Evaluate(r)
			if err != nil {
				cfg.errorHandler(NewContext(w, r), err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithForm(r.Context(), form)))
		})
	}
}
