// Package clientip resolves the address of the client behind a request and
// makes it available to handlers and log records.
//
// Headers are only as trustworthy as the proxy that sets them. Behind no
// proxy, use New(WithHeaders()) so only RemoteAddr counts.
//
//	res := clientip.New(clientip.WithHeaders("X-Forwarded-For"))
//	r.Use(res.Middleware)
//	log := logger.New(logger.WithContextExtractors(clientip.LoggerExtractor()))
package clientip
