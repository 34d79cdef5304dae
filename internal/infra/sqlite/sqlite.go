// Package sqlite implement repository for database.
package sqlite

//
// sqlite.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/softupkaran/internal/aerr"
	"gitlab.com/kabes/softupkaran/internal/config"
	"gitlab.com/kabes/softupkaran/internal/infra/sqldb"
)

// Repository implement repository.UsersRepository for sqlite.
type Repository struct{}

var filePool = sqldb.Pool{
	MaxOpen:     10,
	MaxIdle:     1,
	MaxIdleTime: 30 * time.Second,
	MaxLifetime: 60 * time.Second,
}

// each connection to in-memory database see separate database; keep only one forever.
var memoryPool = sqldb.Pool{MaxOpen: 1, MaxIdle: 1}

func NewDatabaseI(i do.Injector) (*sqldb.Database, error) {
	dbconf := do.MustInvoke[config.DBConfig](i)

	connstr, err := prepareSqliteConnstr(dbconf.Connstr)
	if err != nil {
		return nil, aerr.Wrapf(err, "invalid db.connstr")
	}

	return sqldb.New(dialect(connstr), connstr), nil
}

func dialect(connstr string) sqldb.Dialect {
	pool := filePool
	if isMemoryDB(connstr) {
		pool = memoryPool
	}

	return sqldb.Dialect{
		Name:       "sqlite",
		Driver:     "sqlite3",
		Goose:      goose.DialectSQLite3,
		Migrations: migrations(),
		Pool:       pool,
		OnAcquire:  execHook("PRAGMA temp_store = MEMORY; PRAGMA busy_timeout = 1000;"),
		OnRelease:  execHook("PRAGMA optimize"),
	}
}

func execHook(query string) sqldb.Hook {
	return func(ctx context.Context, db sqlx.ExecerContext) error {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return aerr.Wrapf(err, "execute %q failed", query)
		}

		return nil
	}
}

// prepareSqliteConnstr normalize connection string and fill default pragmas:
// foreign keys on, WAL journal and normal synchronous mode.
func prepareSqliteConnstr(connstr string) (string, error) {
	switch connstr {
	case "":
		return "", aerr.ErrInvalidConf.WithUserMsg("invalid (empty) database connection string")
	case ":memory:":
		return ":memory:?_fk=ON", nil
	}

	parsed, err := url.Parse(strings.TrimPrefix(connstr, "sqlite://"))
	if err != nil {
		return "", aerr.ApplyFor(aerr.ErrInvalidConf, err, "", "failed to parse database connections string")
	}

	if parsed.Path == "" {
		return "", aerr.ErrInvalidConf.WithUserMsg("invalid database connection string - missing path")
	}

	query := parsed.Query()
	defaults := [][3]string{
		{"_fk", "__foreign_keys", "ON"},
		{"_journal_mode", "", "WAL"},
		{"_synchronous", "", "NORMAL"},
	}

	for _, def := range defaults {
		if query.Has(def[0]) || (def[1] != "" && query.Has(def[1])) {
			continue
		}

		query.Set(def[0], def[2])
	}

	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}

func isMemoryDB(connstr string) bool {
	return strings.HasPrefix(connstr, ":memory:") || strings.Contains(connstr, "mode=memory")
}
