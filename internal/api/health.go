package api

//
// health.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/softupkaran/internal/config"
	"gitlab.com/kabes/softupkaran/internal/server/srvsupport"
)

// healthResource handle /api/health; run health checks of all services.
type healthResource struct {
	rootscope *do.RootScope
}

func newHealthResource(i do.Injector) (healthResource, error) {
	return healthResource{rootscope: i.RootScope()}, nil
}

func (h healthResource) Routes() *chi.Mux {
	r := chi.NewRouter()
	r.Get("/", srvsupport.WrapNamed(h.health, "api_health"))

	return r
}

type healthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
}

func (h healthResource) health(ctx context.Context, w http.ResponseWriter, r *http.Request,
	logger *zerolog.Logger,
) {
	status := http.StatusOK
	resp := healthResponse{OK: true, Service: config.ServiceName}

	for service, err := range h.rootscope.HealthCheckWithContext(ctx) {
		if err != nil {
			logger.Error().Err(err).Str("service", service).
				Msgf("HealthResource: service=%q failed on healthcheck: %s", service, err)

			status = http.StatusServiceUnavailable
			resp.OK = false
		}
	}

	srvsupport.RenderJSONStatus(w, r, status, &resp)
}
