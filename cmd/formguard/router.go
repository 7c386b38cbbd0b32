package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/formguard"
	"github.com/dmitrymomot/formguard/pkg/clientip"
	"github.com/dmitrymomot/formguard/pkg/cookie"
	"github.com/dmitrymomot/formguard/pkg/csrf"
	"github.com/dmitrymomot/formguard/pkg/httpserver"
	"github.com/dmitrymomot/formguard/pkg/metrics"
	"github.com/dmitrymomot/formguard/pkg/requestid"
	"github.com/dmitrymomot/formguard/pkg/rules"
)

type routerDeps struct {
	cfg      serveConfig
	doc      *rules.Document
	log      *slog.Logger
	registry *prometheus.Registry
}

// echoResponse is the body of every demo route.
type echoResponse struct {
	Guard  string                    `json:"guard"`
	Method string                    `json:"method"`
	Fields map[string]string         `json:"fields,omitempty"`
	Meta   map[string]map[string]any `json:"meta,omitempty"`
}

func newRouter(deps routerDeps) (http.Handler, error) {
	cookies, err := cookie.NewFromConfig(deps.cfg.Cookie)
	if err != nil {
		return nil, err
	}
	tokens, err := csrf.NewFromConfig(cookies, deps.cfg.CSRF)
	if err != nil {
		return nil, err
	}
	recorder, err := metrics.New(metrics.WithRegistry(deps.registry))
	if err != nil {
		return nil, err
	}

	guards := make(map[string]*formguard.Guard, len(deps.doc.Routes))
	for _, route := range deps.doc.Routes {
		g, err := buildGuard(deps, route, recorder)
		if err != nil {
			return nil, err
		}
		guards[routePath(route)] = g
	}

	errorHandler := formguard.NewErrorHandler(deps.log, formguard.ErrorHandlerConfig{
		ExposeInternal: deps.cfg.AppEnv == "development",
	})

	r := chi.NewRouter()
	r.Use(requestid.Middleware, clientip.New(clientip.WithHeaders(deps.cfg.ProxyHeaders...)).Middleware)

	r.Get("/healthz", httpserver.HealthCheckHandler(deps.log))
	r.Get("/readyz", httpserver.HealthCheckHandler(deps.log, httpserver.Check{
		Name: "metrics",
		Fn: func(context.Context) error {
			_, err := deps.registry.Gather()
			return err
		},
	}))
	r.Handle("/metrics", promhttp.HandlerFor(deps.registry, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(tokens.Middleware)
		for path, g := range guards {
			r.Handle(path, formguard.Wrap(g, echo(g), formguard.WithErrorHandler(errorHandler)))
		}
	})

	return r, nil
}

// buildGuard applies the server-wide form config first so the route's own
// settings win. Configured methods only apply to routes that list none.
func buildGuard(deps routerDeps, route rules.Route, recorder *metrics.Recorder) (*formguard.Guard, error) {
	opts := []formguard.Option{
		formguard.WithJSONFallback(deps.cfg.Form.JSONFallback),
		formguard.WithMaxMemory(deps.cfg.Form.MaxMemory),
	}
	if len(route.Methods) == 0 {
		opts = append(opts, formguard.WithMethods(deps.cfg.Form.Methods...))
	}
	opts = append(opts, route.Options()...)
	opts = append(opts,
		formguard.WithLogger(deps.log),
		formguard.WithHook(recorder.Hook()),
	)
	return formguard.New(opts...)
}

func echo(g *formguard.Guard) formguard.HandlerFunc {
	return func(_ formguard.Context, form *formguard.Form) formguard.Response {
		resp := echoResponse{Guard: g.Name(), Method: form.Method()}
		if form.IsFormMode() {
			resp.Fields = form.Map()
			return formguard.JSON(resp)
		}

		resp.Meta = make(map[string]map[string]any)
		for _, step := range g.Steps() {
			if meta := form.Meta(step.Field); len(meta) > 0 {
				resp.Meta[step.Field] = meta
			}
		}
		return formguard.JSON(resp)
	}
}
