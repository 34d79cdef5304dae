// users.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.

// Package command define requests that modify data.
package command

import (
	"strings"
	"time"

	"gitlab.com/kabes/softupkaran/internal/common"
	"gitlab.com/kabes/softupkaran/internal/validators"
)

//---------------------------------------------------------------------

// SignupCmd define new user registered by signup form or cli.
type SignupCmd struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Whatsapp string `json:"whatsapp"`
	Telegram string `json:"telegram"`
	Password string `json:"password"`
}

func (s *SignupCmd) Validate() error {
	if s.Password == "" {
		return common.ErrPasswordRequired
	}

	if strings.TrimSpace(s.Telegram) == "" {
		return common.ErrTelegramRequired
	}

	if _, ok := validators.NormalizeTelegram(s.Telegram); !ok {
		return common.ErrTelegramInvalid
	}

	return nil
}

// TelegramHandle return telegram handle in "@handle" form. Valid only after Validate.
func (s *SignupCmd) TelegramHandle() string {
	handle, _ := validators.NormalizeTelegram(s.Telegram)

	return handle
}

//---------------------------------------------------------------------

// DeleteUserCmd remove user by id.
type DeleteUserCmd struct {
	UserID string
}

func (d *DeleteUserCmd) Validate() error {
	if strings.TrimSpace(d.UserID) == "" {
		return common.ErrUserIDRequired
	}

	return nil
}

//---------------------------------------------------------------------

// ImportUserCmd is user record loaded from external source. Either
// Password (plain) or PasswordHash must be set.
type ImportUserCmd struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Whatsapp     string    `json:"whatsapp"`
	Telegram     string    `json:"telegram"`
	Password     string    `json:"password"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (i *ImportUserCmd) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return common.ErrUserIDRequired
	}

	if i.Password == "" && i.PasswordHash == "" {
		return common.ErrPasswordRequired.WithMeta("user_id", i.ID)
	}

	return nil
}

// ImportUsersResult summarize import.
type ImportUsersResult struct {
	Imported int
	Skipped  int
}
