// Package repository define interfaces for database access.
package repository

//
// repository.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"gitlab.com/kabes/softupkaran/internal/model"
)

// Database is connection to the store. Implementations are provided by infra packages.
type Database interface {
	Open(ctx context.Context) (*sqlx.DB, error)
	Shutdown(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	GetDB() *sql.DB
	GetConnection(ctx context.Context) (*sqlx.Conn, error)
	CloseConnection(ctx context.Context, conn *sqlx.Conn) error
	Migrate(ctx context.Context) error
	Clear(ctx context.Context) error
}

// UsersRepository store registered users. All methods require database
// context (see db.WithCtx).
type UsersRepository interface {
	// ListUsers return all users ordered by creation time, newest first.
	ListUsers(ctx context.Context) (model.Users, error)
	// InsertUser store new user and return stored record.
	InsertUser(ctx context.Context, user *model.User) (*model.User, error)
	// UpsertUser insert or update user by id; on conflict the earliest created_at is kept.
	UpsertUser(ctx context.Context, user *model.User) error
	// DeleteUser remove user; return false when user not exists.
	DeleteUser(ctx context.Context, id string) (bool, error)
	CountUsers(ctx context.Context) (int, error)
}
