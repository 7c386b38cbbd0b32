// Package requestid attaches a correlation id to every HTTP request.
//
// Middleware reuses a well-formed client supplied X-Request-ID header or
// generates a UUIDv7, stores it in the request context and echoes it in the
// response. FromContext reads it back; LoggerExtractor plugs it into
// pkg/logger so every record logged with the request context carries it,
// including the failures reported by the formguard error handler.
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	http.ListenAndServe(":8080", requestid.Middleware(mux))
package requestid
