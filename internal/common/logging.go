package common

//
// logging.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

const (
	LogKeyUserID    = "user_id"
	LogKeyUserEmail = "user_email"
	LogKeyAdminUser = "admin_user"
	LogKeyRemote    = "remote"
	LogKeyPath      = "path"
	LogKeyModule    = "mod"
	LogKeyTaskID    = "task_id"
)

const (
	LogKeyAuthResult     = "auth_result"
	LogAuthResultSuccess = "success"
	LogAuthResultFailed  = "failed"
)

const (
	LogKeyReqID           = "req_id"
	LogKeyRequestHeaders  = "req_headers"
	LogKeyResponseHeaders = "resp_headers"
)
