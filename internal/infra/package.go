// Package infra provide database and repositories implementation selected
// by configured driver.
package infra

//
// package.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"github.com/samber/do/v2"
	"gitlab.com/kabes/softupkaran/internal/aerr"
	"gitlab.com/kabes/softupkaran/internal/config"
	"gitlab.com/kabes/softupkaran/internal/infra/pg"
	"gitlab.com/kabes/softupkaran/internal/infra/sqlite"
	"gitlab.com/kabes/softupkaran/internal/repository"
)

var Package = do.Package(
	do.Lazy(newDatabaseI),
	do.Lazy(newUsersRepositoryI),
)

func newDatabaseI(i do.Injector) (repository.Database, error) { //nolint:ireturn
	dbconf := do.MustInvoke[config.DBConfig](i)

	switch dbconf.Driver {
	case config.DriverSqlite:
		return sqlite.NewDatabaseI(i)
	case config.DriverPostgres:
		return pg.NewDatabaseI(i)
	}

	return nil, aerr.ErrInvalidConf.WithUserMsg("unsupported database driver %q", dbconf.Driver)
}

func newUsersRepositoryI(i do.Injector) (repository.UsersRepository, error) { //nolint:ireturn
	dbconf := do.MustInvoke[config.DBConfig](i)

	switch dbconf.Driver {
	case config.DriverSqlite:
		return sqlite.Repository{}, nil
	case config.DriverPostgres:
		return pg.Repository{}, nil
	}

	return nil, aerr.ErrInvalidConf.WithUserMsg("unsupported database driver %q", dbconf.Driver)
}
