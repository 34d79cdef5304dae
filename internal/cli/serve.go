package cli

//
// serve.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//
import (
	"context"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/Merovius/systemd"
	"github.com/grafana/pyroscope-go"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"github.com/urfave/cli/v3"
	"gitlab.com/kabes/softupkaran/internal/aerr"
	"gitlab.com/kabes/softupkaran/internal/api"
	"gitlab.com/kabes/softupkaran/internal/common"
	"gitlab.com/kabes/softupkaran/internal/config"
	"gitlab.com/kabes/softupkaran/internal/repository"
	"gitlab.com/kabes/softupkaran/internal/server"
	"gitlab.com/kabes/softupkaran/internal/service"
	"gitlab.com/kabes/softupkaran/internal/web"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cli.Command { //nolint:funlen
	return &cli.Command{
		Name:  "serve",
		Usage: "start server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "address",
				Value:   ":" + strconv.Itoa(config.DefaultPort),
				Usage:   "listen address",
				Aliases: []string{"a"},
				Sources: cli.EnvVars("SOFTUPKARAN_ADDRESS"),
				Config:  cli.StringConfig{TrimSpace: true},
			},
			&cli.StringFlag{
				Name:    "port",
				Usage:   "listen port; override port given in address",
				Sources: cli.EnvVars("PORT"),
				Config:  cli.StringConfig{TrimSpace: true},
			},
			&cli.StringFlag{
				Name:    "admin-user",
				Usage:   "admin user name",
				Sources: cli.EnvVars("ADMIN_USER"),
				Config:  cli.StringConfig{TrimSpace: true},
			},
			&cli.StringFlag{
				Name:    "admin-pass",
				Usage:   "admin password",
				Sources: cli.EnvVars("ADMIN_PASS"),
			},
			&cli.StringFlag{
				Name:    "session-cookie",
				Usage:   "name of admin session cookie",
				Sources: cli.EnvVars("SESSION_COOKIE"),
				Config:  cli.StringConfig{TrimSpace: true},
			},
			&cli.Int64Flag{
				Name:    "session-ttl",
				Value:   int64(config.DefaultSessionTTL / time.Second),
				Usage:   "admin session lifetime in seconds",
				Sources: cli.EnvVars("SESSION_TTL_SEC"),
			},
			&cli.DurationFlag{
				Name:    "session-sweep-interval",
				Value:   config.DefaultSweepInterval,
				Usage:   "interval of removing expired sessions from memory; 0 disable",
				Sources: cli.EnvVars("SOFTUPKARAN_SESSION_SWEEP_INTERVAL"),
			},
			&cli.StringFlag{
				Name:    "mode",
				Value:   string(config.ModeDevelopment),
				Usage:   "deployment mode (development, production, test); production enable secure cookie",
				Sources: cli.EnvVars("SOFTUPKARAN_MODE", "NODE_ENV"),
				Config:  cli.StringConfig{TrimSpace: true},
			},
			&cli.StringFlag{
				Name:      "cert",
				Usage:     "tls certificate file",
				Sources:   cli.EnvVars("SOFTUPKARAN_TLS_CERT"),
				Config:    cli.StringConfig{TrimSpace: true},
				TakesFile: true,
			},
			&cli.StringFlag{
				Name:      "key",
				Usage:     "tls key file",
				Sources:   cli.EnvVars("SOFTUPKARAN_TLS_KEY"),
				Config:    cli.StringConfig{TrimSpace: true},
				TakesFile: true,
			},
			&cli.IntFlag{
				Name:    "max-connections",
				Usage:   "limit of simultaneous connections; 0 = unlimited",
				Sources: cli.EnvVars("SOFTUPKARAN_MAX_CONNECTIONS"),
			},
			&cli.BoolFlag{
				Name:    "cors",
				Value:   true,
				Usage:   "enable CORS for /api endpoints",
				Sources: cli.EnvVars("SOFTUPKARAN_CORS"),
			},
			&cli.StringSliceFlag{
				Name:    "cors-origin",
				Usage:   "allowed CORS origins (default: any)",
				Sources: cli.EnvVars("SOFTUPKARAN_CORS_ORIGINS"),
			},
			&cli.BoolFlag{
				Name:    "set-security-headers",
				Usage:   "add http security related headers to responses",
				Sources: cli.EnvVars("SOFTUPKARAN_SET_SECURITY_HEADERS"),
			},
			&cli.StringFlag{
				Name:    "tracing-endpoint",
				Usage:   "OTLP/HTTP traces collector url; empty disable tracing",
				Sources: cli.EnvVars("SOFTUPKARAN_TRACING_ENDPOINT", "OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"),
				Config:  cli.StringConfig{TrimSpace: true},
			},
			&cli.StringFlag{
				Name:    "pyroscope-endpoint",
				Usage:   "pyroscope server address; empty disable continuous profiling",
				Sources: cli.EnvVars("SOFTUPKARAN_PYROSCOPE_ENDPOINT"),
				Config:  cli.StringConfig{TrimSpace: true},
			},
			&cli.BoolFlag{
				Name:    "migrate",
				Value:   true,
				Usage:   "update database schema on start",
				Sources: cli.EnvVars("SOFTUPKARAN_AUTO_MIGRATE"),
			},
		},
		Before: validateServeFlags,
		Action: wrap(serveCmd),
	}
}

// validateServeFlags check configuration before any resource is opened.
func validateServeFlags(ctx context.Context, clicmd *cli.Command) (context.Context, error) {
	if _, err := newServerConf(clicmd); err != nil {
		return ctx, err
	}

	return ctx, nil
}

func newServerConf(clicmd *cli.Command) (*config.ServerConf, error) {
	cfg := config.ServerConf{
		Listen: config.ListenConf{
			Address:        clicmd.String("address"),
			TLSKey:         clicmd.String("key"),
			TLSCert:        clicmd.String("cert"),
			MaxConnections: clicmd.Int("max-connections"),
		},
		Admin: config.AdminConf{
			User:     clicmd.String("admin-user"),
			Password: clicmd.String("admin-pass"),
		},
		Session: config.SessionConf{
			CookieName:    clicmd.String("session-cookie"),
			TTL:           config.SessionTTLFromSeconds(clicmd.Int64("session-ttl")),
			SweepInterval: clicmd.Duration("session-sweep-interval"),
		},
		Mode:               config.ParseMode(clicmd.String("mode")),
		DebugFlags:         config.NewDebugFLags(clicmd.String("debug")),
		EnableCORS:         clicmd.Bool("cors"),
		CORSOrigins:        normalizeOrigins(clicmd.StringSlice("cors-origin")),
		SetSecurityHeaders: clicmd.Bool("set-security-headers"),
		TracingEndpoint:    clicmd.String("tracing-endpoint"),
	}

	if err := cfg.Listen.ApplyPort(clicmd.String("port")); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, aerr.Wrapf(err, "server config validation failed")
	}

	return &cfg, nil
}

func serveCmd(ctx context.Context, clicmd *cli.Command, rootInjector do.Injector) error {
	cfg, err := newServerConf(clicmd)
	if err != nil {
		return err
	}

	do.ProvideValue(rootInjector, cfg)

	injector := rootInjector.Scope("server",
		web.Package,
		api.Package,
		server.Package,
	)

	if cfg.DebugFlags.HasFlag(config.DebugDo) {
		enableDoDebug(ctx, injector.RootScope())
	}

	if clicmd.Bool("migrate") {
		if err := do.MustInvoke[repository.Database](injector).Migrate(ctx); err != nil {
			return aerr.Wrapf(err, "migrate database failed")
		}
	}

	if endpoint := clicmd.String("pyroscope-endpoint"); endpoint != "" {
		profiler, err := startProfiler(ctx, endpoint)
		if err != nil {
			return err
		}

		defer profiler.Stop() //nolint:errcheck
	}

	return runServer(ctx, injector, cfg)
}

func runServer(ctx context.Context, injector do.Injector, cfg *config.ServerConf) error {
	logger := log.Ctx(ctx)
	logger.Log().Msgf("Starting %s (%s)...", config.ServiceName, config.VersionString())
	logger.Info().Object("config", cfg).Msg("Server: configuration")

	startSystemdWatchdog(logger)

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	srv := do.MustInvoke[*server.Server](injector)
	if err := srv.Start(ctx); err != nil {
		return aerr.Wrapf(err, "start server failed")
	}

	if cfg.Session.SweepInterval > 0 {
		maintSrv := do.MustInvoke[*service.MaintenanceSrv](injector)
		go runSessionSweeper(ctx, maintSrv, cfg.Session.SweepInterval)
	}

	systemd.NotifyReady()           //nolint:errcheck
	systemd.NotifyStatus("running") //nolint:errcheck

	<-ctx.Done()

	logger.Log().Msg("Server: shutting down...")
	systemd.NotifyStatus("stopping") //nolint:errcheck

	sctx, scancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer scancel()

	if err := srv.Shutdown(sctx); err != nil {
		logger.Error().Err(err).Msgf("Server: shutdown error=%q", err)
	}

	systemd.NotifyStatus("stopped") //nolint:errcheck

	return nil
}

func startSystemdWatchdog(logger *zerolog.Logger) {
	if ok, dur, err := systemd.AutoWatchdog(); ok {
		logger.Info().Msgf("Systemd: autowatchdog started; duration=%s", dur)
	} else if err != nil {
		logger.Warn().Err(err).Msgf("Systemd: autowatchdog start error=%q", err)
	}
}

func startProfiler(ctx context.Context, endpoint string) (*pyroscope.Profiler, error) {
	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: config.ServiceName,
		ServerAddress:   endpoint,
		Tags:            map[string]string{"version": config.Version},
	})
	if err != nil {
		return nil, aerr.ApplyFor(aerr.ErrInvalidConf, err, "start pyroscope profiler failed")
	}

	log.Ctx(ctx).Info().Str("endpoint", endpoint).Msg("Profiler: continuous profiling enabled")

	return profiler, nil
}

// runSessionSweeper periodically remove expired admin sessions until ctx is done.
func runSessionSweeper(ctx context.Context, maintSrv *service.MaintenanceSrv, interval time.Duration) {
	logger := log.Ctx(ctx).With().Str(common.LogKeyModule, "sweeper").Logger()
	logger.Info().Msgf("SessionSweeper: started; interval=%s", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug().Msg("SessionSweeper: stopped")

			return
		case <-ticker.C:
			taskid := xid.New()
			llog := logger.With().Str(common.LogKeyTaskID, taskid.String()).Logger()
			tctx := llog.WithContext(hlog.CtxWithID(ctx, taskid))

			if removed := maintSrv.SweepSessions(tctx); removed > 0 {
				llog.Debug().Msgf("SessionSweeper: removed %d expired sessions", removed)
			}
		}
	}
}

// normalizeOrigins split comma separated origins.
func normalizeOrigins(origins []string) []string {
	res := make([]string, 0, len(origins))

	for _, o := range origins {
		for part := range strings.SplitSeq(o, ",") {
			if part = strings.TrimSpace(part); part != "" {
				res = append(res, part)
			}
		}
	}

	return res
}
