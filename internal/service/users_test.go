package service

//
// users_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//
import (
	"context"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"

	"gitlab.com/kabes/softupkaran/internal/aerr"
	"gitlab.com/kabes/softupkaran/internal/assert"
	"gitlab.com/kabes/softupkaran/internal/command"
	"gitlab.com/kabes/softupkaran/internal/common"
)

func TestSignup(t *testing.T) {
	ctx, i := prepareTests(t)
	usersSrv := prepareUsersSrv(t, i)

	user, err := usersSrv.Signup(ctx, &command.SignupCmd{
		Name:     "Jan",
		Email:    "jan@example.com",
		Telegram: " @jan_kowalski ",
		Password: "pass123",
	})
	assert.NoErr(t, err)
	assert.Equal(t, len(user.ID), 32)
	assert.Equal(t, user.Telegram, "@jan_kowalski")
	assert.Equal(t, user.PasswordHash, "")
	assert.True(t, !user.CreatedAt.IsZero())

	users, err := usersSrv.GetUsers(ctx)
	assert.NoErr(t, err)
	assert.Equal(t, len(users), 1)
	assert.Equal(t, users[0].ID, user.ID)
	assert.Equal(t, users[0].Email, "jan@example.com")
	assert.Equal(t, users[0].PasswordHash, "hash:pass123")
}

func TestSignupValidation(t *testing.T) {
	ctx, i := prepareTests(t)
	usersSrv := prepareUsersSrv(t, i)

	_, err := usersSrv.Signup(ctx, &command.SignupCmd{Telegram: "@jan_kowalski"})
	assert.True(t, errors.Is(err, common.ErrPasswordRequired))
	assert.Equal(t, aerr.GetUserMessage(err), "password is required")

	_, err = usersSrv.Signup(ctx, &command.SignupCmd{Password: "x"})
	assert.True(t, errors.Is(err, common.ErrTelegramRequired))

	_, err = usersSrv.Signup(ctx, &command.SignupCmd{Password: "x", Telegram: "@bad"})
	assert.True(t, errors.Is(err, common.ErrTelegramInvalid))
	assert.True(t, aerr.HasTag(err, aerr.ValidationError))

	count, err := usersSrv.CountUsers(ctx)
	assert.NoErr(t, err)
	assert.Equal(t, count, 0)
}

func TestSignupBcrypt(t *testing.T) {
	ctx, i := prepareTests(t)
	usersSrv := prepareUsersSrv(t, i)
	usersSrv.passHasher = BCryptPasswordHasher{}

	_, err := usersSrv.Signup(ctx, &command.SignupCmd{Telegram: "valid_user", Password: "pass123"})
	assert.NoErr(t, err)

	users, err := usersSrv.GetUsers(ctx)
	assert.NoErr(t, err)
	assert.NotEqual(t, users[0].PasswordHash, "pass123")
	assert.NoErr(t, bcrypt.CompareHashAndPassword([]byte(users[0].PasswordHash), []byte("pass123")))
	assert.True(t, bcrypt.CompareHashAndPassword([]byte(users[0].PasswordHash), []byte("pass124")) != nil)
}

func TestGetUsersOrder(t *testing.T) {
	ctx, i := prepareTests(t)
	usersSrv := prepareUsersSrv(t, i)

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	ids := []string{"first_user", "second_user", "third_user"}

	for idx, id := range ids {
		usersSrv.now = func() time.Time { return base.Add(time.Duration(idx) * time.Minute) }
		usersSrv.newID = func() string { return id }

		_, err := usersSrv.Signup(ctx, &command.SignupCmd{Telegram: id, Password: "p"})
		assert.NoErr(t, err)
	}

	users, err := usersSrv.GetUsers(ctx)
	assert.NoErr(t, err)
	assert.Equal(t, len(users), 3)
	assert.Equal(t, users[0].ID, "third_user")
	assert.Equal(t, users[2].ID, "first_user")
	assert.Equal(t, users[2].CreatedAt, base)
}

func TestDeleteUser(t *testing.T) {
	ctx, i := prepareTests(t)
	usersSrv := prepareUsersSrv(t, i)

	user, err := usersSrv.Signup(ctx, &command.SignupCmd{Telegram: "to_delete", Password: "p"})
	assert.NoErr(t, err)

	err = usersSrv.DeleteUser(ctx, &command.DeleteUserCmd{UserID: ""})
	assert.True(t, errors.Is(err, common.ErrUserIDRequired))

	err = usersSrv.DeleteUser(ctx, &command.DeleteUserCmd{UserID: "missing"})
	assert.True(t, errors.Is(err, common.ErrUserNotFound))
	assert.True(t, aerr.HasTag(err, aerr.NotFoundError))

	err = usersSrv.DeleteUser(ctx, &command.DeleteUserCmd{UserID: user.ID})
	assert.NoErr(t, err)

	err = usersSrv.DeleteUser(ctx, &command.DeleteUserCmd{UserID: user.ID})
	assert.True(t, errors.Is(err, common.ErrUserNotFound))
}

func TestImportUsers(t *testing.T) {
	ctx, i := prepareTests(t)
	usersSrv := prepareUsersSrv(t, i)

	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	res, err := usersSrv.ImportUsers(ctx, []command.ImportUserCmd{
		{ID: "u1", Telegram: "@one", Password: "p1", CreatedAt: late},
		{ID: "u2", Telegram: "@two", PasswordHash: "$2a$10$hash", CreatedAt: early},
		{ID: "", Password: "p"},
		{ID: "u3"},
	})
	assert.NoErr(t, err)
	assert.Equal(t, res.Imported, 2)
	assert.Equal(t, res.Skipped, 2)

	// update existing; created_at keep earliest
	res, err = usersSrv.ImportUsers(ctx, []command.ImportUserCmd{
		{ID: "u1", Telegram: "@one_new", Password: "p1", CreatedAt: early},
		{ID: "u2", Telegram: "@two_new", PasswordHash: "$2a$10$hash", CreatedAt: late},
	})
	assert.NoErr(t, err)
	assert.Equal(t, res.Imported, 2)

	users, err := usersSrv.GetUsers(ctx)
	assert.NoErr(t, err)
	assert.Equal(t, len(users), 2)

	for _, u := range users {
		assert.Equal(t, u.CreatedAt, early)

		switch u.ID {
		case "u1":
			assert.Equal(t, u.Telegram, "@one_new")
			assert.Equal(t, u.PasswordHash, "hash:p1")
		case "u2":
			assert.Equal(t, u.Telegram, "@two_new")
			assert.Equal(t, u.PasswordHash, "$2a$10$hash")
		default:
			t.Errorf("unexpected user %q", u.ID)
		}
	}
}

func TestCopyUsersFrom(t *testing.T) {
	ctx, i := prepareTests(t)
	usersSrv := prepareUsersSrv(t, i)

	srcCtx, srcI := prepareTests(t)
	srcSrv := prepareUsersSrv(t, srcI)

	for _, tg := range []string{"source_a", "source_b"} {
		_, err := srcSrv.Signup(srcCtx, &command.SignupCmd{Telegram: tg, Password: "p"})
		assert.NoErr(t, err)
	}

	copied, err := usersSrv.CopyUsersFrom(ctx, srcSrv.db, srcSrv.usersRepo)
	assert.NoErr(t, err)
	assert.Equal(t, copied, 2)

	// repeated copy is idempotent
	copied, err = usersSrv.CopyUsersFrom(context.Background(), srcSrv.db, srcSrv.usersRepo)
	assert.NoErr(t, err)
	assert.Equal(t, copied, 2)

	count, err := usersSrv.CountUsers(ctx)
	assert.NoErr(t, err)
	assert.Equal(t, count, 2)
}
