package common

//
// Common application errors
//
// errors.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"errors"

	"gitlab.com/kabes/softupkaran/internal/aerr"
)

var ErrUnauthorized = aerr.NewSimple("unauthorized").WithTag(aerr.AuthError).WithUserMsg("unauthorized")

// Validation errors. User messages are returned to the client.
var (
	ErrPasswordRequired = aerr.NewSimple("missing password").WithTag(aerr.ValidationError).
				WithUserMsg("password is required")
	ErrTelegramRequired = aerr.NewSimple("missing telegram").WithTag(aerr.ValidationError).
				WithUserMsg("telegram username is required")
	ErrTelegramInvalid = aerr.NewSimple("invalid telegram").WithTag(aerr.ValidationError).
				WithUserMsg("telegram username is invalid")
	ErrUserIDRequired = aerr.NewSimple("missing user id").WithTag(aerr.ValidationError).
				WithUserMsg("id is required")
	ErrUnsupportedExportFormat = aerr.NewSimple("unsupported export format").WithTag(aerr.ValidationError).
					WithUserMsg("only csv and xlsx export is supported")
	ErrInvalidUser = aerr.NewSimple("invalid user").WithTag(aerr.ValidationError)
)

var ErrUserNotFound = aerr.NewSimple("user not found").WithTag(aerr.NotFoundError).WithUserMsg("user not found")

var ErrNoData = errors.New("no result")
