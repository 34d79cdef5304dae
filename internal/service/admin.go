package service

//
// admin.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"crypto/subtle"

	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/softupkaran/internal/common"
	"gitlab.com/kabes/softupkaran/internal/config"
	"gitlab.com/kabes/softupkaran/internal/session"
)

// AdminAuthSrv authenticate the single configured administrator.
type AdminAuthSrv struct {
	user     []byte
	password []byte
	registry *session.Registry
}

func NewAdminAuthSrv(i do.Injector) (*AdminAuthSrv, error) {
	cfg := do.MustInvoke[*config.ServerConf](i)

	return &AdminAuthSrv{
		user:     []byte(cfg.Admin.User),
		password: []byte(cfg.Admin.Password),
		registry: do.MustInvoke[*session.Registry](i),
	}, nil
}

// Login check credentials and create new session. Return session token.
func (a *AdminAuthSrv) Login(ctx context.Context, username, password string) (string, error) {
	logger := log.Ctx(ctx)

	// both comparisons always run
	userOK := subtle.ConstantTimeCompare([]byte(username), a.user)
	passOK := subtle.ConstantTimeCompare([]byte(password), a.password)

	if userOK&passOK != 1 {
		logger.Debug().Str(common.LogKeyAdminUser, username).Msg("AdminAuthSrv: invalid credentials")

		return "", common.ErrUnauthorized
	}

	return a.registry.Create(), nil
}

// Logout end session; unknown or empty token is ignored.
func (a *AdminAuthSrv) Logout(_ context.Context, token string) {
	if token != "" {
		a.registry.Revoke(token)
	}
}
