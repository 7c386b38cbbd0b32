package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/formguard/pkg/logger"
)

// Check is a named readiness dependency.
type Check struct {
	Name string
	Fn   func(context.Context) error
}

// HealthCheckHandler serves liveness and readiness probes.
//
// Without checks it always answers 200 "ALIVE". With checks it runs each one
// against the request context and answers 200 "READY", or 503 "NOT_READY" on
// the first failure.
func HealthCheckHandler(log *slog.Logger, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if len(checks) == 0 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ALIVE"))
			return
		}

		for _, c := range checks {
			if err := c.Fn(r.Context()); err != nil {
				log.WarnContext(r.Context(), "readiness check failed",
					logger.Component("httpserver"),
					slog.String("check", c.Name),
					logger.Error(err),
				)
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("NOT_READY"))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	}
}
