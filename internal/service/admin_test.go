package service

//
// admin_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//
import (
	"errors"
	"testing"

	"github.com/samber/do/v2"

	"gitlab.com/kabes/softupkaran/internal/assert"
	"gitlab.com/kabes/softupkaran/internal/common"
	"gitlab.com/kabes/softupkaran/internal/session"
)

func TestAdminLogin(t *testing.T) {
	ctx, i := prepareTests(t)
	adminSrv := do.MustInvoke[*AdminAuthSrv](i)
	registry := do.MustInvoke[*session.Registry](i)

	_, err := adminSrv.Login(ctx, "admin", "bad")
	assert.True(t, errors.Is(err, common.ErrUnauthorized))

	_, err = adminSrv.Login(ctx, "admi", "secret")
	assert.True(t, errors.Is(err, common.ErrUnauthorized))

	_, err = adminSrv.Login(ctx, "", "")
	assert.Err(t, err)
	assert.Equal(t, registry.Count(), 0)

	token, err := adminSrv.Login(ctx, "admin", "secret")
	assert.NoErr(t, err)
	assert.True(t, registry.IsValid(token))

	token2, err := adminSrv.Login(ctx, "admin", "secret")
	assert.NoErr(t, err)
	assert.NotEqual(t, token, token2)

	adminSrv.Logout(ctx, token)
	assert.True(t, !registry.IsValid(token))
	assert.True(t, registry.IsValid(token2))

	adminSrv.Logout(ctx, "")
	adminSrv.Logout(ctx, token)
	assert.Equal(t, registry.Count(), 1)
}

func TestMaintenanceSweepSessions(t *testing.T) {
	ctx, i := prepareTests(t)
	maintSrv := do.MustInvoke[*MaintenanceSrv](i)
	registry := do.MustInvoke[*session.Registry](i)

	registry.Create()
	assert.Equal(t, maintSrv.SweepSessions(ctx), 0)
	assert.Equal(t, registry.Count(), 1)
}
