// Package csrf protects form posts with a per-session token.
//
// The token is 24 random bytes, base64 encoded, kept in a signed cookie
// (pkg/cookie). Manager.Middleware loads it into the request context and
// issues one on safe requests that have none. Validator compares the posted
// field with it in constant time:
//
//	protect, _ := csrf.New(cookies)
//	guard := formguard.MustNew(
//		formguard.WithValidator(csrf.DefaultFieldName, csrf.Validator()),
//	)
//	r.Use(protect.Middleware)
//
// A missing session token fails with validator.InvalidSessionError, a wrong
// one with validator.ValidationError. Outside form mode the guard exposes
// csrf_name, csrf_token and csrf_tag in Form.Meta, or use Field in templates.
package csrf
