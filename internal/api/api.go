// Package api handle request to json api endpoints.
package api

//
// api.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/softupkaran/internal/server/srvsupport"
	"gitlab.com/kabes/softupkaran/internal/session"
)

// API is handler for all /api endpoints.
type API struct {
	router *chi.Mux
}

func New(i do.Injector) (API, error) {
	auth := do.MustInvoke[*session.Authenticator](i)
	healthResource := do.MustInvoke[healthResource](i)
	signupResource := do.MustInvoke[signupResource](i)
	usersResource := do.MustInvoke[usersResource](i)
	exportResource := do.MustInvoke[exportResource](i)

	router := chi.NewRouter()
	router.Use(middleware.NoCache)

	router.Mount("/health", healthResource.Routes())
	router.Mount("/signup", signupResource.Routes())

	// resources authenticate per route, so rejected requests keep route pattern
	router.Mount("/users", usersResource.Routes(auth.Handler))
	router.Mount("/export", exportResource.Routes(auth.Handler))

	router.NotFound(srvsupport.NotFound)

	return API{router}, nil
}

func (a *API) Routes() *chi.Mux {
	return a.router
}
