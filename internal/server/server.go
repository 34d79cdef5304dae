// Package server build http server with all endpoints and middlewares.
package server

//
// server.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	dochi "github.com/samber/do/http/chi/v2"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/softupkaran/internal/aerr"
	"gitlab.com/kabes/softupkaran/internal/api"
	"gitlab.com/kabes/softupkaran/internal/common"
	"gitlab.com/kabes/softupkaran/internal/config"
	"gitlab.com/kabes/softupkaran/internal/server/srvsupport"
	"gitlab.com/kabes/softupkaran/internal/web"
	"golang.org/x/net/netutil"
)

const (
	defaultReadTimeout    = 60 * time.Second
	defaultWriteTimeout   = 60 * time.Second
	defaultMaxHeaderBytes = 1 << 20
	corsMaxAge            = 300
)

type Server struct {
	router chi.Router

	cfg *config.ServerConf
	s   *http.Server
}

func New(injector do.Injector) (*Server, error) {
	cfg := do.MustInvoke[*config.ServerConf](injector)
	metrics := do.MustInvoke[*Metrics](injector)

	apiRes := do.MustInvoke[api.API](injector)
	webRes := do.MustInvoke[web.WEB](injector)

	router := chi.NewRouter()
	router.Use(middlewares(injector, cfg, metrics)...)

	router.Method(http.MethodGet, "/metrics", metrics.Handler())
	router.With(apiMiddlewares(cfg)...).Mount("/api", apiRes.Routes())
	router.Mount("/admin", webRes.Routes())
	router.Get("/", http.RedirectHandler("/admin", http.StatusFound).ServeHTTP)

	router.NotFound(srvsupport.NotFound)
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		srvsupport.WriteError(w, r, http.StatusMethodNotAllowed, "")
	})

	if cfg.DebugFlags.HasFlag(config.DebugDo) {
		dochi.Use(router, "/debug/do", injector)
	}

	if cfg.DebugFlags.HasFlag(config.DebugGo) {
		router.Mount("/debug", middleware.Profiler())
	}

	return &Server{
		router: router,
		cfg:    cfg,
		s: &http.Server{
			Addr:           cfg.Listen.Address,
			Handler:        router,
			ReadTimeout:    defaultReadTimeout,
			WriteTimeout:   defaultWriteTimeout,
			MaxHeaderBytes: defaultMaxHeaderBytes,
		},
	}, nil
}

// middlewares return chain applied to every request. Metrics go first so
// the timer cover whole processing, including panics.
func middlewares(injector do.Injector, cfg *config.ServerConf, metrics *Metrics) []func(http.Handler) http.Handler {
	mws := []func(http.Handler) http.Handler{
		newMetricsMiddleware(metrics),
		middleware.RealIP,
		hlog.RequestIDHandler(common.LogKeyReqID, "Request-Id"),
	}

	if cfg.TracingEndpoint != "" {
		mws = append(mws, do.MustInvoke[*Tracer](injector).Middleware)
	}

	mws = append(mws,
		newLogMiddleware(cfg),
		newRecoverMiddleware,
		middleware.CleanPath,
		middleware.Heartbeat("/ping"),
	)

	if cfg.SetSecurityHeaders {
		mws = append(mws, newSecurityHeadersMiddleware(cfg)...)
	}

	return mws
}

func apiMiddlewares(cfg *config.ServerConf) []func(http.Handler) http.Handler {
	if !cfg.EnableCORS {
		return nil
	}

	return []func(http.Handler) http.Handler{
		cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         corsMaxAge,
		}),
	}
}

// Handler return root handler; used in tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(ctx context.Context) error {
	logger := log.Logger

	if s.cfg.DebugFlags.HasFlag(config.DebugRouter) {
		logRoutes(ctx, s.router)
	}

	listener, err := newListener(ctx, &s.cfg.Listen)
	if err != nil {
		return aerr.Wrapf(err, "start listen error")
	}

	logger.Log().Msgf("Server: listen on address=%s https=%v max_connections=%d",
		s.cfg.Listen.Address, s.cfg.Listen.TLSEnabled(), s.cfg.Listen.MaxConnections)

	go func() {
		if err := s.s.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log().Err(err).Msgf("Server: serve error: %s", err)
		}
	}()

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	logger := log.Ctx(ctx)
	logger.Debug().Msg("Server: stopping...")

	if err := s.s.Shutdown(ctx); err != nil {
		return aerr.Wrapf(err, "shutdown server failed")
	}

	logger.Debug().Msg("Server: stopped")

	return nil
}

//-------------------------------------------------------------

// logRoutes dump all registered routes on debug level.
func logRoutes(ctx context.Context, r chi.Routes) {
	var routes []string

	err := chi.Walk(r, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, method+" "+strings.ReplaceAll(route, "/*/", "/"))

		return nil
	})

	logger := log.Ctx(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Server: walk routes failed")
	}

	logger.Debug().Strs("routes", routes).Msg("Server: registered routes")
}

func newListener(ctx context.Context, cfg *config.ListenConf) (net.Listener, error) {
	lc := net.ListenConfig{}

	listener, err := lc.Listen(ctx, "tcp", cfg.Address)
	if err != nil {
		return nil, aerr.Wrapf(err, "listen failed").WithMeta("address", cfg.Address)
	}

	if cfg.MaxConnections > 0 {
		listener = netutil.LimitListener(listener, cfg.MaxConnections)
	}

	if !cfg.TLSEnabled() {
		return listener, nil
	}

	cert, err := tls.LoadX509KeyPair(cfg.TLSCert, cfg.TLSKey)
	if err != nil {
		_ = listener.Close()

		return nil, aerr.Wrapf(err, "load certificates failed").
			WithMeta("cert", cfg.TLSCert, "key", cfg.TLSKey)
	}

	return tls.NewListener(listener, &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}), nil
}
