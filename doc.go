// Package formguard attaches form validation to net/http handlers.
//
// A Guard is an ordered list of steps, each a field name and one or more
// validators from pkg/validator. It is built once at registration time and
// shared by every request. For each request the guard checks the method: only
// methods in its MethodSet (POST by default) are validated, every other
// request reaches the handler with a Form whose IsFormMode is false.
//
// Basic Usage:
//
//	guard := formguard.MustNew(
//		formguard.WithName("signup"),
//		formguard.WithValidator("username", validator.Regex(`[a-z][a-z0-9]{0,29}$`)),
//		formguard.WithValidator("email", validator.Email(validator.WithDomain("example.com"))),
//	)
//
//	signup := func(ctx formguard.Context, form *formguard.Form) formguard.Response {
//		if !form.IsFormMode() {
//			return formguard.Templ(views.Signup(form.Meta("username")))
//		}
//		return formguard.JSON(form.Map())
//	}
//
//	r.Handle("/signup", formguard.Wrap(guard, signup,
//		formguard.WithErrorHandler(formguard.NewErrorHandler(log, formguard.ErrorHandlerConfig{})),
//	))
//
// Middleware Usage:
//
//	r.With(guard.Middleware()).Post("/signup", func(w http.ResponseWriter, r *http.Request) {
//		form := formguard.FromContext(r.Context())
//		// ...
//	})
//
// Field Sources:
//
// In form mode fields are read from urlencoded and multipart bodies, from
// DataStar signals, and, unless disabled with WithJSONFallback(false), from
// top-level members of a JSON body. Query strings are never form fields.
//
// Error Handling:
//
// The first failing step stops evaluation. Its error satisfies
// errors.Is(err, formguard.ErrForm) and is one of *MissingFieldError,
// *PatternMismatchError, *ValidationError, *InvalidSessionError or
// *MalformedFormError. The handler is not called; the error handler is.
//
// Observability:
//
// WithHook registers callbacks that receive a Result after every evaluation;
// pkg/metrics provides one backed by Prometheus.
package formguard
