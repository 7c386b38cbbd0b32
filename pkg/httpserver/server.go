package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrymomot/formguard/pkg/logger"
)

type config struct {
	addr              string
	readTimeout       time.Duration
	readHeaderTimeout time.Duration
	writeTimeout      time.Duration
	idleTimeout       time.Duration
	shutdownTimeout   time.Duration
	server            *http.Server
	logger            *slog.Logger
	startHooks        []func(addr string)
	stopHooks         []func()
}

func defaultConfig() *config {
	return &config{
		addr:              ":8080",
		readHeaderTimeout: 10 * time.Second,
		shutdownTimeout:   5 * time.Second,
	}
}

// Server runs an http.Server until its context ends or the process receives
// SIGINT or SIGTERM, then shuts it down gracefully.
type Server struct {
	cfg      *config
	log      *slog.Logger
	mu       sync.Mutex
	srv      *http.Server
	listener net.Listener
	once     sync.Once
}

// New returns a configured Server.
func New(opts ...Option) *Server {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	log := cfg.logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Server{cfg: cfg, log: log.With(logger.Component("httpserver"))}
}

// Addr returns the bound listen address, or "" before Run binds it. With
// ":0" it reports the port actually chosen.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run binds the listener and serves handler until shutdown. Bind failures
// are returned immediately, wrapped with ErrStart.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if handler == nil {
		handler = http.NotFoundHandler()
	}

	s.mu.Lock()
	if s.srv != nil {
		s.mu.Unlock()
		return errors.Join(ErrStart, ErrAlreadyRunning)
	}
	srv := s.configure(handler)
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		s.mu.Unlock()
		return errors.Join(ErrStart, err)
	}
	s.srv, s.listener = srv, ln
	s.mu.Unlock()

	addr := ln.Addr().String()
	s.log.InfoContext(ctx, "http server started", slog.String("addr", addr))
	for _, h := range s.cfg.startHooks {
		h(addr)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var runErr error
	select {
	case <-sigCtx.Done():
		if err := s.Shutdown(context.WithoutCancel(ctx)); err != nil {
			s.log.ErrorContext(ctx, "http server shutdown failed", logger.Error(err))
		}
		runErr = <-errCh
	case runErr = <-errCh:
	}

	if runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
		return errors.Join(ErrStart, runErr)
	}
	return nil
}

func (s *Server) configure(handler http.Handler) *http.Server {
	cfg := s.cfg
	srv := cfg.server
	if srv == nil {
		srv = &http.Server{}
	}
	if srv.Addr == "" {
		srv.Addr = cfg.addr
	}
	if srv.ReadTimeout == 0 {
		srv.ReadTimeout = cfg.readTimeout
	}
	if srv.ReadHeaderTimeout == 0 {
		srv.ReadHeaderTimeout = cfg.readHeaderTimeout
	}
	if srv.WriteTimeout == 0 {
		srv.WriteTimeout = cfg.writeTimeout
	}
	if srv.IdleTimeout == 0 {
		srv.IdleTimeout = cfg.idleTimeout
	}
	srv.Handler = handler
	return srv
}

// Shutdown stops the server gracefully. It is safe to call repeatedly and
// before Run, in which case it does nothing.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	var err error
	s.once.Do(func() {
		ctx, cancel := context.WithTimeout(ctx, s.cfg.shutdownTimeout)
		defer cancel()
		err = srv.Shutdown(ctx)
		s.log.InfoContext(ctx, "http server stopped")
		for _, h := range s.cfg.stopHooks {
			h()
		}
	})

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Join(ErrShutdown, err)
	}
	return nil
}
