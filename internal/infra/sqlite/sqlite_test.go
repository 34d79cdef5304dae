package sqlite

//
// sqlite_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"

	"gitlab.com/kabes/softupkaran/internal/assert"
	"gitlab.com/kabes/softupkaran/internal/config"
	"gitlab.com/kabes/softupkaran/internal/db"
	"gitlab.com/kabes/softupkaran/internal/infra/sqldb"
	"gitlab.com/kabes/softupkaran/internal/model"
)

func TestPrepareSqliteConnstr(t *testing.T) {
	tests := []struct {
		connstr  string
		expected string
		experr   bool
	}{
		{"", "", true},
		{"?abc?_fk=1", "", true},
		{":memory:", ":memory:?_fk=ON", false},
		{"/abc/abc?_fk=0", "/abc/abc?_fk=0&_journal_mode=WAL&_synchronous=NORMAL", false},
		{
			"/abc/abc?__foreign_keys=ON&_journal_mode=DELETE",
			"/abc/abc?__foreign_keys=ON&_journal_mode=DELETE&_synchronous=NORMAL", false,
		},
		{"/abc/abc", "/abc/abc?_fk=ON&_journal_mode=WAL&_synchronous=NORMAL", false},
		{"sqlite:///abc/abc", "/abc/abc?_fk=ON&_journal_mode=WAL&_synchronous=NORMAL", false},
		{"/abc/abc?_abc=123", "/abc/abc?_abc=123&_fk=ON&_journal_mode=WAL&_synchronous=NORMAL", false},
	}

	for _, tt := range tests {
		t.Run(tt.connstr, func(t *testing.T) {
			res, err := prepareSqliteConnstr(tt.connstr)
			if tt.experr {
				assert.Err(t, err)
			} else {
				assert.NoErr(t, err)
				assert.Equal(t, res, tt.expected)
			}
		})
	}
}

func prepareDatabase(t *testing.T) (context.Context, *sqldb.Database) {
	t.Helper()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx := log.Logger.WithContext(context.Background())
	i := do.New()
	do.ProvideValue(i, config.NewDBConfig("sqlite", ":memory:"))

	database, err := NewDatabaseI(i)
	assert.NoErr(t, err)

	_, err = database.Open(ctx)
	assert.NoErr(t, err)

	t.Cleanup(func() { _ = database.Shutdown(ctx) })

	assert.NoErr(t, database.Migrate(ctx))

	return ctx, database
}

func TestUsersRepository(t *testing.T) {
	ctx, database := prepareDatabase(t)
	repo := Repository{}
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	user1, err := db.InTransactionR(ctx, database, func(ctx context.Context) (*model.User, error) {
		return repo.InsertUser(ctx, &model.User{
			ID: "u1", Name: "User 1", Telegram: "@user_one", PasswordHash: "hash1", CreatedAt: base,
		})
	})
	assert.NoErr(t, err)
	assert.Equal(t, user1.ID, "u1")
	assert.Equal(t, user1.Email, "")
	assert.Equal(t, user1.CreatedAt, base)

	_, err = db.InTransactionR(ctx, database, func(ctx context.Context) (*model.User, error) {
		return repo.InsertUser(ctx, &model.User{
			ID: "u2", Email: "u2@example.com", PasswordHash: "hash2", CreatedAt: base.Add(time.Hour),
		})
	})
	assert.NoErr(t, err)

	// duplicated id
	_, err = db.InTransactionR(ctx, database, func(ctx context.Context) (*model.User, error) {
		return repo.InsertUser(ctx, &model.User{ID: "u2", PasswordHash: "x"})
	})
	assert.Err(t, err)

	users, err := db.InConnectionR(ctx, database, repo.ListUsers)
	assert.NoErr(t, err)
	assert.Equal(t, len(users), 2)
	assert.Equal(t, users[0].ID, "u2")
	assert.Equal(t, users[1].ID, "u1")
	assert.Equal(t, users[1].PasswordHash, "hash1")

	deleted, err := db.InTransactionR(ctx, database, func(ctx context.Context) (bool, error) {
		return repo.DeleteUser(ctx, "u1")
	})
	assert.NoErr(t, err)
	assert.True(t, deleted)

	deleted, err = db.InTransactionR(ctx, database, func(ctx context.Context) (bool, error) {
		return repo.DeleteUser(ctx, "u1")
	})
	assert.NoErr(t, err)
	assert.True(t, !deleted)

	count, err := db.InConnectionR(ctx, database, repo.CountUsers)
	assert.NoErr(t, err)
	assert.Equal(t, count, 1)
}

func TestUsersRepositoryUpsertKeepEarliestCreated(t *testing.T) {
	ctx, database := prepareDatabase(t)
	repo := Repository{}
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	err := db.InTransaction(ctx, database, func(ctx context.Context) error {
		return repo.UpsertUser(ctx, &model.User{ID: "u1", Name: "first", PasswordHash: "h", CreatedAt: base})
	})
	assert.NoErr(t, err)

	err = db.InTransaction(ctx, database, func(ctx context.Context) error {
		return repo.UpsertUser(ctx, &model.User{
			ID: "u1", Name: "second", PasswordHash: "h2", CreatedAt: base.Add(48 * time.Hour),
		})
	})
	assert.NoErr(t, err)

	users, err := db.InConnectionR(ctx, database, repo.ListUsers)
	assert.NoErr(t, err)
	assert.Equal(t, len(users), 1)
	assert.Equal(t, users[0].Name, "second")
	assert.Equal(t, users[0].PasswordHash, "h2")
	assert.Equal(t, users[0].CreatedAt, base)
}
