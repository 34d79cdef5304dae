//
// users.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/softupkaran/internal/aerr"
	"gitlab.com/kabes/softupkaran/internal/command"
	"gitlab.com/kabes/softupkaran/internal/common"
	"gitlab.com/kabes/softupkaran/internal/db"
	"gitlab.com/kabes/softupkaran/internal/model"
	"gitlab.com/kabes/softupkaran/internal/repository"
	"gitlab.com/kabes/softupkaran/internal/session"
)

type UsersSrv struct {
	db         repository.Database
	usersRepo  repository.UsersRepository
	passHasher PasswordHasher
	newID      func() string
	now        func() time.Time
}

func NewUsersSrv(i do.Injector) (*UsersSrv, error) {
	return &UsersSrv{
		db:         do.MustInvoke[repository.Database](i),
		usersRepo:  do.MustInvoke[repository.UsersRepository](i),
		passHasher: BCryptPasswordHasher{},
		newID:      session.NewToken,
		now:        time.Now,
	}, nil
}

// Signup validate and register new user. Returned user has no password hash.
func (u *UsersSrv) Signup(ctx context.Context, cmd *command.SignupCmd) (*model.User, error) {
	if cmd == nil {
		panic("cmd is nil")
	}

	if err := cmd.Validate(); err != nil {
		return nil, aerr.Wrapf(err, "validate signup data failed")
	}

	hashedPass, err := u.passHasher.HashPassword(cmd.Password)
	if err != nil {
		return nil, aerr.ApplyFor(ErrHashPassword, err)
	}

	user := model.User{
		ID:           u.newID(),
		Name:         cmd.Name,
		Email:        cmd.Email,
		Whatsapp:     cmd.Whatsapp,
		Telegram:     cmd.TelegramHandle(),
		PasswordHash: hashedPass,
		CreatedAt:    u.now().UTC(),
	}

	res, err := db.InTransactionR(ctx, u.db, func(ctx context.Context) (*model.User, error) {
		return u.usersRepo.InsertUser(ctx, &user)
	})
	if err != nil {
		return nil, aerr.ApplyFor(ErrRepositoryError, err)
	}

	res.PasswordHash = ""

	return res, nil
}

// GetUsers return all users, newest first.
func (u *UsersSrv) GetUsers(ctx context.Context) (model.Users, error) {
	users, err := db.InConnectionR(ctx, u.db, u.usersRepo.ListUsers)
	if err != nil {
		return nil, aerr.ApplyFor(ErrRepositoryError, err)
	}

	return users, nil
}

func (u *UsersSrv) DeleteUser(ctx context.Context, cmd *command.DeleteUserCmd) error {
	if err := cmd.Validate(); err != nil {
		return aerr.Wrapf(err, "validate cmd failed")
	}

	deleted, err := db.InTransactionR(ctx, u.db, func(ctx context.Context) (bool, error) {
		return u.usersRepo.DeleteUser(ctx, cmd.UserID)
	})
	if err != nil {
		return aerr.ApplyFor(ErrRepositoryError, err)
	}

	if !deleted {
		return common.ErrUserNotFound.WithMeta("user_id", cmd.UserID)
	}

	return nil
}

// ImportUsers insert or update users. Invalid records are skipped and logged;
// existing users keep the earliest creation time.
func (u *UsersSrv) ImportUsers(ctx context.Context, cmds []command.ImportUserCmd,
) (command.ImportUsersResult, error) {
	logger := log.Ctx(ctx)

	//nolint:wrapcheck
	return db.InTransactionR(ctx, u.db, func(ctx context.Context) (command.ImportUsersResult, error) {
		var res command.ImportUsersResult

		for _, cmd := range cmds {
			if err := cmd.Validate(); err != nil {
				logger.Warn().Err(err).Str(common.LogKeyUserID, cmd.ID).
					Msgf("UsersSrv: skip invalid user: %s", aerr.GetUserMessageOr(err, err.Error()))

				res.Skipped++

				continue
			}

			user, err := u.importedUser(&cmd)
			if err != nil {
				return res, err
			}

			if err := u.usersRepo.UpsertUser(ctx, user); err != nil {
				return res, aerr.ApplyFor(ErrRepositoryError, err)
			}

			res.Imported++
		}

		return res, nil
	})
}

func (u *UsersSrv) importedUser(cmd *command.ImportUserCmd) (*model.User, error) {
	hash := cmd.PasswordHash
	if hash == "" {
		var err error

		hash, err = u.passHasher.HashPassword(cmd.Password)
		if err != nil {
			return nil, aerr.ApplyFor(ErrHashPassword, err).WithMeta("user_id", cmd.ID)
		}
	}

	createdAt := cmd.CreatedAt
	if createdAt.IsZero() {
		createdAt = u.now()
	}

	return &model.User{
		ID:           cmd.ID,
		Name:         cmd.Name,
		Email:        cmd.Email,
		Whatsapp:     cmd.Whatsapp,
		Telegram:     cmd.Telegram,
		PasswordHash: hash,
		CreatedAt:    createdAt.UTC(),
	}, nil
}

// CopyUsersFrom copy all users from `src` database into service database.
func (u *UsersSrv) CopyUsersFrom(ctx context.Context, src repository.Database,
	srcRepo repository.UsersRepository,
) (int, error) {
	users, err := db.InConnectionR(ctx, src, srcRepo.ListUsers)
	if err != nil {
		return 0, aerr.ApplyFor(ErrRepositoryError, err, "load source users failed")
	}

	//nolint:wrapcheck
	return db.InTransactionR(ctx, u.db, func(ctx context.Context) (int, error) {
		for _, user := range users {
			if err := u.usersRepo.UpsertUser(ctx, &user); err != nil {
				return 0, aerr.ApplyFor(ErrRepositoryError, err)
			}
		}

		return len(users), nil
	})
}

func (u *UsersSrv) CountUsers(ctx context.Context) (int, error) {
	count, err := db.InConnectionR(ctx, u.db, u.usersRepo.CountUsers)
	if err != nil {
		return 0, aerr.ApplyFor(ErrRepositoryError, err)
	}

	return count, nil
}
