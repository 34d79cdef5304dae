// Package pg implement repositories for PostgreSQL database.
package pg

//
// pg.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"time"

	"github.com/pressly/goose/v3"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/softupkaran/internal/aerr"
	"gitlab.com/kabes/softupkaran/internal/config"
	"gitlab.com/kabes/softupkaran/internal/infra/sqldb"
)

// Repository implement repository.UsersRepository for PostgreSQL.
type Repository struct{}

func NewDatabaseI(i do.Injector) (*sqldb.Database, error) {
	dbconf := do.MustInvoke[config.DBConfig](i)
	if dbconf.Connstr == "" {
		return nil, aerr.ErrInvalidConf.WithUserMsg("invalid (empty) database connection string")
	}

	return sqldb.New(dialect(), dbconf.Connstr), nil
}

func dialect() sqldb.Dialect {
	return sqldb.Dialect{
		Name:       "postgresql",
		Driver:     "pgx",
		Goose:      goose.DialectPostgres,
		Migrations: migrations(),
		Pool: sqldb.Pool{
			MaxOpen:     10,
			MaxIdle:     1,
			MaxIdleTime: 5 * time.Minute,
			MaxLifetime: 10 * time.Minute,
		},
	}
}
