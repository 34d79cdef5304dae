package service

//
// testhelpers_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//
import (
	"context"
	stdlog "log"
	"os"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"

	"gitlab.com/kabes/softupkaran/internal/config"
	"gitlab.com/kabes/softupkaran/internal/infra"
	"gitlab.com/kabes/softupkaran/internal/repository"
	"gitlab.com/kabes/softupkaran/internal/session"
)

// plainHasher avoid slow bcrypt in tests.
type plainHasher struct{}

func (plainHasher) HashPassword(password string) (string, error) {
	return "hash:" + password, nil
}

func prepareTests(t *testing.T) (context.Context, *do.RootScope) {
	t.Helper()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout}).With().Caller().Stack().Logger()
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	stdlog.SetFlags(0)
	stdlog.SetOutput(log.Logger)

	ctx := log.Logger.WithContext(context.Background())
	i := do.New(Package, infra.Package, session.Package)

	do.ProvideValue(i, config.NewDBConfig(config.DriverSqlite, ":memory:"))
	do.ProvideValue(i, &config.ServerConf{
		Admin:   config.AdminConf{User: "admin", Password: "secret"},
		Session: config.SessionConf{CookieName: "sid", TTL: time.Hour},
	})

	db := do.MustInvoke[repository.Database](i)
	if _, err := db.Open(ctx); err != nil {
		t.Fatalf("connect to db error: %#+v", err)
	}

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("prepare db error: %#+v", err)
	}

	t.Cleanup(func() { _ = i.Shutdown() })

	return ctx, i
}

func prepareUsersSrv(t *testing.T, i do.Injector) *UsersSrv {
	t.Helper()

	srv := do.MustInvoke[*UsersSrv](i)
	srv.passHasher = plainHasher{}

	return srv
}
