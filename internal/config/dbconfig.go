package config

//
// dbconfig.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"strings"

	"gitlab.com/kabes/softupkaran/internal/aerr"
)

const (
	DriverSqlite   = "sqlite3"
	DriverPostgres = "postgres"
)

const DefaultSqliteConnstr = "softupkaran.sqlite"

type DBConfig struct {
	Driver  string
	Connstr string
}

func NewDBConfig(driver, connstr string) DBConfig {
	return DBConfig{
		Driver:  mapDriverName(strings.TrimSpace(driver)),
		Connstr: strings.TrimSpace(connstr),
	}
}

func (d *DBConfig) Validate() error {
	if d.Driver == "" {
		return aerr.ErrInvalidConf.WithUserMsg("db.driver argument can't be empty")
	}

	if d.Driver != DriverSqlite && d.Driver != DriverPostgres {
		return aerr.ErrInvalidConf.WithUserMsg("invalid (unsupported) db.driver %q", d.Driver)
	}

	if d.Connstr == "" {
		return aerr.ErrInvalidConf.WithUserMsg("db.connstr argument can't be empty")
	}

	return nil
}

func mapDriverName(driver string) string {
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		return DriverSqlite
	case "pg", "pgx", "postgresql", "postgres":
		return DriverPostgres
	}

	return driver
}
