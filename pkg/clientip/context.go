package clientip

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/formguard/pkg/logger"
)

type contextKey struct{}

// WithContext returns a copy of ctx carrying ip.
func WithContext(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, contextKey{}, ip)
}

// FromContext returns the stored client address, or "".
func FromContext(ctx context.Context) string {
	ip, _ := ctx.Value(contextKey{}).(string)
	return ip
}

// LoggerExtractor adds the client address to records logged with a request context.
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if ip := FromContext(ctx); ip != "" {
			return logger.ClientIP(ip), true
		}
		return slog.Attr{}, false
	}
}
