// Package db provide helpers to run repository functions in connection or
// transaction context.
package db

//
// db.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"gitlab.com/kabes/softupkaran/internal/aerr"
	"gitlab.com/kabes/softupkaran/internal/repository"
)

var queryDuration atomic.Pointer[prometheus.HistogramVec]

// RegisterMetrics register database stats collector and optionally query
// duration histogram in `reg`.
func RegisterMetrics(reg prometheus.Registerer, database repository.Database, queryTime bool) error {
	if sqldb := database.GetDB(); sqldb != nil {
		if err := reg.Register(collectors.NewDBStatsCollector(sqldb, "main")); err != nil {
			return aerr.Wrapf(err, "register db stats collector failed")
		}
	}

	if !queryTime {
		return nil
	}

	hist := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "database_query_duration_seconds",
			Help:    "Tracks the latencies for database query.",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"caller"},
	)

	if err := reg.Register(hist); err != nil {
		return aerr.Wrapf(err, "register query duration histogram failed")
	}

	queryDuration.Store(hist)

	return nil
}

func observeQueryDuration(start time.Time) {
	hist := queryDuration.Load()
	if hist == nil {
		return
	}

	const skipFrames = 3

	rpc := make([]uintptr, 1)
	if n := runtime.Callers(skipFrames, rpc); n < 1 {
		return
	}

	frame, _ := runtime.CallersFrames(rpc).Next()
	if frame.PC == 0 {
		return
	}

	hist.WithLabelValues(frame.Function).Observe(time.Since(start).Seconds())
}

//------------------------------------------------------------------------------

// InConnectionR run `fun` with context carrying open connection. Return `fun` result and error.
func InConnectionR[T any](ctx context.Context, database repository.Database,
	fun func(context.Context) (T, error),
) (T, error) {
	if _, ok := Ctx(ctx); ok {
		return fun(ctx)
	}

	start := time.Now()
	defer observeQueryDuration(start)

	conn, err := database.GetConnection(ctx)
	if err != nil {
		return *new(T), err
	}

	defer closeConnection(ctx, database, conn)

	return fun(WithCtx(ctx, conn))
}

// InTransaction run `fun` in transaction; rollback when `fun` return error.
func InTransaction(ctx context.Context, database repository.Database, fun func(context.Context) error) error {
	_, err := InTransactionR(ctx, database, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fun(ctx)
	})

	return err
}

// InTransactionR run `fun` in transaction; return `fun` result and error.
func InTransactionR[T any](ctx context.Context, database repository.Database,
	fun func(context.Context) (T, error),
) (T, error) {
	// nested call use outer connection or transaction
	if _, ok := Ctx(ctx); ok {
		return fun(ctx)
	}

	start := time.Now()
	defer observeQueryDuration(start)

	conn, err := database.GetConnection(ctx)
	if err != nil {
		return *new(T), err
	}

	defer closeConnection(ctx, database, conn)

	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return *new(T), aerr.ApplyFor(aerr.ErrDatabase, err, "begin tx failed")
	}

	res, err := fun(WithCtx(ctx, tx))
	if err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return res, aerr.ApplyFor(aerr.ErrDatabase, errors.Join(err, rerr),
				"execute func in trans and rollback error")
		}

		return res, err
	}

	if err := tx.Commit(); err != nil {
		return res, aerr.ApplyFor(aerr.ErrDatabase, err, "commit tx failed")
	}

	return res, nil
}

func closeConnection(ctx context.Context, database repository.Database, conn *sqlx.Conn) {
	if err := database.CloseConnection(ctx, conn); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("close database connection failed")
	}
}
