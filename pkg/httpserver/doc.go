// Package httpserver runs the demo server behind cmd/formguard with graceful
// shutdown, configurable timeouts and health-check probes.
//
// Run binds the listener first, so a bad address fails immediately with
// ErrStart, and then serves until the context is cancelled or the process
// receives SIGINT or SIGTERM. Shutdown is idempotent.
//
// Usage:
//
//	r := chi.NewRouter()
//	r.Get("/healthz", httpserver.HealthCheckHandler(log))
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
package httpserver
