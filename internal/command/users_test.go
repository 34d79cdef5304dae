package command

//
// users_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"errors"
	"testing"

	"gitlab.com/kabes/softupkaran/internal/assert"
	"gitlab.com/kabes/softupkaran/internal/common"
)

func TestSignupCmdValidate(t *testing.T) {
	tests := []struct {
		name string
		cmd  SignupCmd
		want error
	}{
		{"ok", SignupCmd{Password: "x", Telegram: "@valid_handle"}, nil},
		{"no password", SignupCmd{Telegram: "@valid_handle"}, common.ErrPasswordRequired},
		{"no telegram", SignupCmd{Password: "x", Telegram: "   "}, common.ErrTelegramRequired},
		{"bad telegram", SignupCmd{Password: "x", Telegram: "@no"}, common.ErrTelegramInvalid},
		// password is checked first
		{"nothing", SignupCmd{}, common.ErrPasswordRequired},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cmd.Validate()
			if tc.want == nil {
				assert.NoErr(t, err)
			} else {
				assert.True(t, errors.Is(err, tc.want))
			}
		})
	}
}

func TestSignupCmdTelegramHandle(t *testing.T) {
	cmd := SignupCmd{Telegram: "  valid_handle "}
	assert.Equal(t, cmd.TelegramHandle(), "@valid_handle")
}

func TestImportUserCmdValidate(t *testing.T) {
	assert.NoErr(t, (&ImportUserCmd{ID: "a", Password: "p"}).Validate())
	assert.NoErr(t, (&ImportUserCmd{ID: "a", PasswordHash: "h"}).Validate())
	assert.True(t, errors.Is((&ImportUserCmd{Password: "p"}).Validate(), common.ErrUserIDRequired))
	assert.Err(t, (&ImportUserCmd{ID: "a"}).Validate())
	assert.True(t, errors.Is((&DeleteUserCmd{UserID: " "}).Validate(), common.ErrUserIDRequired))
}
