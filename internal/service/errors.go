package service

//
// errors.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"gitlab.com/kabes/softupkaran/internal/aerr"
)

var ErrRepositoryError = aerr.NewSimple("database error").
	WithTag(aerr.InternalError)

var ErrHashPassword = aerr.NewSimple("hash password failed").
	WithTag(aerr.InternalError)
