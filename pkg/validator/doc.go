// Package validator provides single-field validation rules for submitted
// form values, together with the error taxonomy the rest of formguard uses.
//
// A rule is any value implementing Validator. Rules are built once, at
// handler registration time, and shared by all requests; every constructor in
// this package either returns an error (Compile*/New*) or panics on bad
// configuration, so a malformed rule never surfaces as a per-request failure.
//
// # Architecture
//
// Each source file groups a family of rules (`pattern_rules.go`,
// `string_rules.go`, `format_rules.go`, `choice_rules.go`, `date_rules.go`,
// `tag_rules.go`). Rules are checks, not transformers: they never modify the
// submitted value.
//
// Built-in kinds:
//   - Regex      – start-anchored regular expression, fails with PatternMismatchError
//   - Exists     – presence only
//   - Email      – loose address check with optional exact domain
//   - Length     – rune count bounds
//   - Select     – membership in a fixed option list, optional case folding
//   - Date, Time – Go reference layouts or ISO forms
//   - IPAddress  – IPv4 and/or IPv6 literals
//   - Tag        – any go-playground/validator tag
//   - Func       – arbitrary predicate
//
// # Metadata
//
// Rules that implement Populator expose their parameters, e.g. a regex
// pattern or select options, so templates can render matching client-side
// constraints. Keys are prefixed with the rule kind by Sanitize:
//
//	validator.Populate(ctx, "username", validator.Regex(`[a-z]+`))
//	// map[string]any{"regex_pattern": "[a-z]+"}
//
// # Error Handling
//
// Every failure satisfies errors.Is(err, ErrForm). Use errors.As with
// *MissingFieldError, *PatternMismatchError, *ValidationError,
// *InvalidSessionError or *MalformedFormError for specifics, or the helpers
// FieldOf and KindOf.
package validator
