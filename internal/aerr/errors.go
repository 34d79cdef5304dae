package aerr

//
// errors.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

// Error categories. Tags decide how error is reported to the client.
const (
	InternalError      = "internal error"
	ValidationError    = "validation error"
	DataError          = "data error"
	ConfigurationError = "configuration error"
	NotFoundError      = "not found"
	AuthError          = "authentication error"
)

var (
	ErrValidation  = NewSimple("validation error").WithTag(ValidationError)
	ErrInvalidConf = NewSimple("invalid configuration").WithTag(ConfigurationError)
	ErrDatabase    = NewSimple("database error").WithTag(InternalError).WithUserMsg("database error")
)
