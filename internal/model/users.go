package model

//
// users.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
)

// User is registered account. PasswordHash is never serialized.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Whatsapp     string    `json:"whatsapp"`
	Telegram     string    `json:"telegram"`
	CreatedAt    time.Time `json:"createdAt"`
	PasswordHash string    `json:"-"`
}

// TimestampLayout is ISO 8601 UTC with milliseconds, used for every serialized timestamp.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp return t in TimestampLayout; empty for zero time.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.UTC().Format(TimestampLayout)
}

func (u User) MarshalJSON() ([]byte, error) {
	type plain User

	var created *string
	if !u.CreatedAt.IsZero() {
		c := FormatTimestamp(u.CreatedAt)
		created = &c
	}

	return json.Marshal(struct { //nolint:wrapcheck
		plain
		CreatedAt *string `json:"createdAt"`
	}{plain(u), created})
}

func (u *User) MarshalZerologObject(event *zerolog.Event) {
	event.Str("id", u.ID).
		Str("name", u.Name).
		Str("email", u.Email).
		Str("telegram", u.Telegram).
		Time("created_at", u.CreatedAt)
}

// Users is list of users ordered newest first.
type Users []User

// ExportColumns is header of exported users table.
var ExportColumns = []string{"name", "email", "whatsapp", "telegram", "createdAt", "id"}

// ExportRow return user data in ExportColumns order.
func (u *User) ExportRow() []string {
	return []string{u.Name, u.Email, u.Whatsapp, u.Telegram, FormatTimestamp(u.CreatedAt), u.ID}
}
