// Package sqldb hold connection pool lifecycle shared by sql-based stores.
package sqldb

//
// sqldb.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"database/sql"
	"io/fs"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
	"gitlab.com/kabes/softupkaran/internal/aerr"
)

// Pool configure database/sql connection pool. Zero durations mean no limit.
type Pool struct {
	MaxOpen     int
	MaxIdle     int
	MaxIdleTime time.Duration
	MaxLifetime time.Duration
}

func (p Pool) apply(db *sqlx.DB) {
	db.SetMaxOpenConns(p.MaxOpen)
	db.SetMaxIdleConns(p.MaxIdle)
	db.SetConnMaxIdleTime(p.MaxIdleTime)
	db.SetConnMaxLifetime(p.MaxLifetime)
}

// Hook is executed on pool and on each checked-out connection.
type Hook func(ctx context.Context, db sqlx.ExecerContext) error

// Dialect describe concrete database engine.
type Dialect struct {
	// Name used in logs.
	Name string
	// Driver is database/sql driver name.
	Driver     string
	Goose      goose.Dialect
	Migrations fs.FS
	Pool       Pool
	// OnAcquire run after open and for every connection returned by GetConnection.
	OnAcquire Hook
	// OnRelease run before connection is returned to pool.
	OnRelease Hook
}

// Database implement repository.Database over sqlx.
type Database struct {
	dialect Dialect
	connstr string
	db      *sqlx.DB
}

func New(dialect Dialect, connstr string) *Database {
	return &Database{dialect: dialect, connstr: connstr}
}

func (d *Database) Open(ctx context.Context) (*sqlx.DB, error) {
	log.Ctx(ctx).Debug().Str("dialect", d.dialect.Name).Msg("sqldb: opening database")

	dbx, err := sqlx.Open(d.dialect.Driver, d.connstr)
	if err != nil {
		return nil, aerr.Wrapf(err, "open %s database failed", d.dialect.Name).WithTag(aerr.InternalError)
	}

	d.dialect.Pool.apply(dbx)

	if err := d.runHook(ctx, d.dialect.OnAcquire, dbx); err != nil {
		_ = dbx.Close()

		return nil, aerr.Wrapf(err, "initialize %s database failed", d.dialect.Name).WithTag(aerr.InternalError)
	}

	if err := dbx.PingContext(ctx); err != nil {
		_ = dbx.Close()

		return nil, aerr.Wrapf(err, "ping %s database failed", d.dialect.Name).WithTag(aerr.InternalError)
	}

	d.db = dbx

	return dbx, nil
}

func (d *Database) Shutdown(ctx context.Context) error {
	dbx := d.db
	if dbx == nil {
		return nil
	}

	d.db = nil

	log.Ctx(ctx).Debug().Str("dialect", d.dialect.Name).Msg("sqldb: closing database")

	if err := dbx.Close(); err != nil {
		return aerr.Wrapf(err, "close %s database failed", d.dialect.Name)
	}

	return nil
}

func (d *Database) GetDB() *sql.DB {
	if d.db == nil {
		return nil
	}

	return d.db.DB
}

func (d *Database) GetConnection(ctx context.Context) (*sqlx.Conn, error) {
	if d.db == nil {
		return nil, aerr.ErrDatabase.WithMsg("database not opened")
	}

	conn, err := d.db.Connx(ctx)
	if err != nil {
		return nil, aerr.ApplyFor(aerr.ErrDatabase, err, "failed open connection")
	}

	if err := d.runHook(ctx, d.dialect.OnAcquire, conn); err != nil {
		_ = conn.Close()

		return nil, aerr.ApplyFor(aerr.ErrDatabase, err, "prepare connection failed")
	}

	return conn, nil
}

func (d *Database) CloseConnection(ctx context.Context, conn *sqlx.Conn) error {
	hookErr := d.runHook(ctx, d.dialect.OnRelease, conn)

	if err := conn.Close(); err != nil {
		return aerr.ApplyFor(aerr.ErrDatabase, err, "close connection failed")
	}

	if hookErr != nil {
		return aerr.ApplyFor(aerr.ErrDatabase, hookErr, "release connection failed")
	}

	return nil
}

// Migrate apply all pending migrations from dialect migrations fs.
func (d *Database) Migrate(ctx context.Context) error {
	if d.db == nil {
		return aerr.ErrDatabase.WithMsg("database not opened")
	}

	logger := log.Ctx(ctx).With().Str("dialect", d.dialect.Name).Logger()

	provider, err := goose.NewProvider(d.dialect.Goose, d.db.DB, d.dialect.Migrations)
	if err != nil {
		return aerr.Wrapf(err, "prepare migrations failed").WithTag(aerr.InternalError)
	}

	before, err := provider.GetDBVersion(ctx)
	if err != nil {
		return aerr.ApplyFor(aerr.ErrDatabase, err, "", "failed to check current database version")
	}

	results, err := provider.Up(ctx)
	for _, res := range results {
		logger.Debug().Msgf("sqldb: applied migration %s", res)
	}

	if err != nil {
		return aerr.ApplyFor(aerr.ErrDatabase, err, "", "migrate database up failed")
	}

	after, err := provider.GetDBVersion(ctx)
	if err != nil {
		return aerr.ApplyFor(aerr.ErrDatabase, err, "", "failed to check current database version")
	}

	logger.Info().Int64("from", before).Int64("to", after).Msg("sqldb: database schema up to date")

	return nil
}

// Clear remove all users.
func (d *Database) Clear(ctx context.Context) error {
	if d.db == nil {
		return aerr.ErrDatabase.WithMsg("database not opened")
	}

	if _, err := d.db.ExecContext(ctx, "DELETE FROM users"); err != nil {
		return aerr.ApplyFor(aerr.ErrDatabase, err, "clear database failed")
	}

	return nil
}

func (d *Database) HealthCheck(ctx context.Context) error {
	if d.db == nil {
		return aerr.New("database not opened").WithTag(aerr.InternalError)
	}

	if err := d.db.PingContext(ctx); err != nil {
		return aerr.Wrapf(err, "ping database failed").WithTag(aerr.InternalError)
	}

	return nil
}

func (d *Database) runHook(ctx context.Context, hook Hook, db sqlx.ExecerContext) error {
	if hook == nil {
		return nil
	}

	return hook(ctx, db)
}
