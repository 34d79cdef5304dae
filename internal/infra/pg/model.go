package pg

//
// model.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"database/sql"
	"time"

	"gitlab.com/kabes/softupkaran/internal/model"
)

type UserDB struct {
	ID           string         `db:"id"`
	Name         sql.NullString `db:"name"`
	Email        sql.NullString `db:"email"`
	Whatsapp     sql.NullString `db:"whatsapp"`
	Telegram     sql.NullString `db:"telegram"`
	PasswordHash string         `db:"password_hash"`
	CreatedAt    time.Time      `db:"created_at"`
}

func (u *UserDB) toModel() *model.User {
	return &model.User{
		ID:           u.ID,
		Name:         u.Name.String,
		Email:        u.Email.String,
		Whatsapp:     u.Whatsapp.String,
		Telegram:     u.Telegram.String,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt.UTC(),
	}
}

func usersFromDB(users []UserDB) model.Users {
	res := make(model.Users, len(users))
	for i, u := range users {
		res[i] = *u.toModel()
	}

	return res
}

// nullable map empty string to NULL.
func nullable(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
