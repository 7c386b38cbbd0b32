package main

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/formguard"
	"github.com/dmitrymomot/formguard/pkg/clientip"
	"github.com/dmitrymomot/formguard/pkg/config"
	"github.com/dmitrymomot/formguard/pkg/cookie"
	"github.com/dmitrymomot/formguard/pkg/csrf"
	"github.com/dmitrymomot/formguard/pkg/httpserver"
	"github.com/dmitrymomot/formguard/pkg/logger"
	"github.com/dmitrymomot/formguard/pkg/requestid"
	"github.com/dmitrymomot/formguard/pkg/rules"
)

// envPrefix namespaces every variable serve reads, e.g. FORMGUARD_HTTP_ADDR.
const envPrefix = "FORMGUARD_"

type serveConfig struct {
	RulesFile string `env:"RULES_FILE" envDefault:"rules.yaml"`
	AppEnv    string `env:"APP_ENV" envDefault:"development"`
	LogLevel  string `env:"LOG_LEVEL"`
	LogFormat string `env:"LOG_FORMAT"`

	// ProxyHeaders lists client address headers set by a trusted proxy.
	// Empty means only the connection address is used.
	ProxyHeaders []string `env:"PROXY_HEADERS" envSeparator:","`

	HTTP   httpserver.Config
	Form   formguard.Config
	Cookie cookie.Config
	CSRF   csrf.Config
}

func serveCmd() *cobra.Command {
	var (
		envFiles []string
		rulesArg string
		addrArg  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a demo server for a rules file",
		Long: `Serve every route of a rules file behind its guard.

Valid submissions are echoed back as JSON, GET requests return the
validator metadata of each field (including the CSRF token). Prometheus
metrics are exposed on /metrics.

Configuration is read from FORMGUARD_* environment variables, optionally
loaded from .env files first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadEnv(envFiles...); err != nil {
				return err
			}
			cfg, err := config.Parse[serveConfig](config.WithPrefix(envPrefix))
			if err != nil {
				return err
			}
			if rulesArg != "" {
				cfg.RulesFile = rulesArg
			}
			if addrArg != "" {
				cfg.HTTP.Addr = addrArg
			}

			log, err := newLogger(cfg, cmd)
			if err != nil {
				return err
			}

			doc, err := rules.LoadFile(cfg.RulesFile)
			if err != nil {
				return err
			}

			if len(cfg.Cookie.Secrets) == 0 {
				secret, err := ephemeralSecret()
				if err != nil {
					return err
				}
				cfg.Cookie.Secrets = []string{secret}
				log.Warn("no cookie secret configured, CSRF tokens will not survive a restart",
					logger.Component("serve"))
			}

			reg := prometheus.NewRegistry()
			handler, err := newRouter(routerDeps{
				cfg:      cfg,
				doc:      doc,
				log:      log,
				registry: reg,
			})
			if err != nil {
				return err
			}

			log.Info("serving rules",
				logger.Component("serve"),
				slog.String("file", cfg.RulesFile),
				slog.Int("routes", len(doc.Routes)),
				slog.Any("form", cfg.Form),
			)

			srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
			return srv.Run(cmd.Context(), handler)
		},
	}

	cmd.Flags().StringSliceVar(&envFiles, "env-file", []string{".env"}, "Env files to load before reading the environment")
	cmd.Flags().StringVarP(&rulesArg, "rules", "r", "", "Rules file (overrides FORMGUARD_RULES_FILE)")
	cmd.Flags().StringVarP(&addrArg, "addr", "a", "", "Listen address (overrides FORMGUARD_HTTP_ADDR)")

	return cmd
}

func newLogger(cfg serveConfig, cmd *cobra.Command) (*slog.Logger, error) {
	opts := []logger.Option{
		logger.WithEnvironment(cfg.AppEnv, "formguard"),
		logger.WithOutput(cmd.ErrOrStderr()),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	}
	if cfg.LogLevel != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			return nil, err
		}
		opts = append(opts, logger.WithLevel(l))
	}
	switch f := logger.Format(strings.ToLower(cfg.LogFormat)); f {
	case "":
	case logger.FormatJSON, logger.FormatText:
		opts = append(opts, logger.WithFormat(f))
	default:
		return nil, errInvalidLogFormat
	}
	return logger.New(opts...), nil
}

func ephemeralSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
