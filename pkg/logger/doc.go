// Package logger builds *slog.Logger values for formguard and its command.
//
// New takes functional options for format, level, static attributes and
// context extractors. Extractors run for every record logged with a context
// and add request-scoped attributes such as the request id:
//
//	log := logger.New(
//		logger.WithEnvironment(os.Getenv("APP_ENV"), "signup"),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.WarnContext(ctx, "form rejected",
//		logger.Guard("signup"),
//		logger.Field("username"),
//		logger.Kind("pattern_mismatch"),
//	)
//
// The attribute helpers in attr.go keep key names consistent. Those taking
// optional values (Error, RequestID, Field, ...) return an empty slog.Attr
// for a zero value, which slog drops, so callers need no nil checks.
package logger
