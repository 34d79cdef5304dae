package service

//
// maintenance.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/softupkaran/internal/session"
)

type MaintenanceSrv struct {
	registry *session.Registry
}

func NewMaintenanceSrv(i do.Injector) (*MaintenanceSrv, error) {
	return &MaintenanceSrv{
		registry: do.MustInvoke[*session.Registry](i),
	}, nil
}

// SweepSessions remove expired admin sessions.
func (m *MaintenanceSrv) SweepSessions(ctx context.Context) int {
	removed := m.registry.Sweep()

	log.Ctx(ctx).Debug().Msgf("MaintenanceSrv: expired sessions removed=%d left=%d", removed, m.registry.Count())

	return removed
}
