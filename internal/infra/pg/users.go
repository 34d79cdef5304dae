package pg

//
// users.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"gitlab.com/kabes/softupkaran/internal/aerr"
	"gitlab.com/kabes/softupkaran/internal/db"
	"gitlab.com/kabes/softupkaran/internal/model"
)

const userColumns = "id, name, email, whatsapp, telegram, password_hash, created_at"

// ListUsers get all users from database, newest first.
func (s Repository) ListUsers(ctx context.Context) (model.Users, error) {
	logger := log.Ctx(ctx)
	logger.Debug().Msg("pg.Repository: list users")

	dbctx := db.MustCtx(ctx)

	var users []UserDB

	err := dbctx.SelectContext(ctx, &users,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC, id")
	if err != nil {
		return nil, aerr.Wrapf(err, "select users failed").WithTag(aerr.InternalError)
	}

	return usersFromDB(users), nil
}

func (s Repository) InsertUser(ctx context.Context, user *model.User) (*model.User, error) {
	logger := log.Ctx(ctx)
	logger.Debug().Object("user", user).Msg("pg.Repository: insert user")

	dbctx := db.MustCtx(ctx)

	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var udb UserDB

	err := dbctx.GetContext(ctx, &udb, `
		INSERT INTO users (id, name, email, whatsapp, telegram, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+userColumns,
		user.ID, nullable(user.Name), nullable(user.Email), nullable(user.Whatsapp),
		nullable(user.Telegram), user.PasswordHash, createdAt.UTC())
	if err != nil {
		return nil, aerr.Wrapf(err, "insert user failed").WithTag(aerr.InternalError).
			WithMeta("user_id", user.ID)
	}

	return udb.toModel(), nil
}

func (s Repository) UpsertUser(ctx context.Context, user *model.User) error {
	logger := log.Ctx(ctx)
	logger.Debug().Object("user", user).Msg("pg.Repository: upsert user")

	dbctx := db.MustCtx(ctx)

	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := dbctx.ExecContext(ctx, `
		INSERT INTO users (id, name, email, whatsapp, telegram, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			whatsapp = EXCLUDED.whatsapp,
			telegram = EXCLUDED.telegram,
			password_hash = EXCLUDED.password_hash,
			created_at = LEAST(users.created_at, EXCLUDED.created_at)`,
		user.ID, nullable(user.Name), nullable(user.Email), nullable(user.Whatsapp),
		nullable(user.Telegram), user.PasswordHash, createdAt.UTC())
	if err != nil {
		return aerr.Wrapf(err, "upsert user failed").WithTag(aerr.InternalError).
			WithMeta("user_id", user.ID)
	}

	return nil
}

// DeleteUser remove user by id. Return false when no user was deleted.
func (s Repository) DeleteUser(ctx context.Context, id string) (bool, error) {
	logger := log.Ctx(ctx)
	logger.Debug().Str("user_id", id).Msgf("pg.Repository: delete user user_id=%s", id)

	dbctx := db.MustCtx(ctx)

	res, err := dbctx.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return false, aerr.Wrapf(err, "delete user failed").WithTag(aerr.InternalError).WithMeta("user_id", id)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, aerr.Wrapf(err, "get deleted rows failed").WithTag(aerr.InternalError)
	}

	return affected > 0, nil
}

func (s Repository) CountUsers(ctx context.Context) (int, error) {
	dbctx := db.MustCtx(ctx)

	var count int
	if err := dbctx.GetContext(ctx, &count, "SELECT count(*) FROM users"); err != nil {
		return 0, aerr.Wrapf(err, "count users failed").WithTag(aerr.InternalError)
	}

	return count, nil
}
