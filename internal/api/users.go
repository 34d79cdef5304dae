package api

//
// users.go
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
	"gitlab.com/kabes/softupkaran/internal/command"
	"gitlab.com/kabes/softupkaran/internal/common"
	"gitlab.com/kabes/softupkaran/internal/model"
	"gitlab.com/kabes/softupkaran/internal/server/srvsupport"
	"gitlab.com/kabes/softupkaran/internal/service"
)

// usersResource handle /api/users; require admin session.
type usersResource struct {
	usersSrv *service.UsersSrv
}

func newUsersResource(i do.Injector) (usersResource, error) {
	return usersResource{
		usersSrv: do.MustInvoke[*service.UsersSrv](i),
	}, nil
}

func (u usersResource) Routes(auth func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.With(auth).Get("/", srvsupport.WrapNamed(u.list, "api_users_list"))
	// empty id is routed to delete handler to report validation error
	r.With(auth).Delete("/", srvsupport.WrapNamed(u.delete, "api_users_delete"))
	r.With(auth).Delete("/{id}", srvsupport.WrapNamed(u.delete, "api_users_delete"))

	return r
}

type usersListResponse struct {
	Count int         `json:"count"`
	Users model.Users `json:"users"`
}

func (u usersResource) list(ctx context.Context, w http.ResponseWriter, r *http.Request,
	_ *zerolog.Logger,
) {
	users, err := u.usersSrv.GetUsers(ctx)
	if err != nil {
		srvsupport.CheckAndWriteError(w, r, err)

		return
	}

	if users == nil {
		users = model.Users{}
	}

	srvsupport.RenderJSON(w, r, &usersListResponse{Count: len(users), Users: users})
}

type deleteUserResponse struct {
	OK      bool   `json:"ok"`
	Deleted string `json:"deleted"`
}

func (u usersResource) delete(ctx context.Context, w http.ResponseWriter, r *http.Request,
	logger *zerolog.Logger,
) {
	cmd := command.DeleteUserCmd{UserID: chi.URLParam(r, "id")}

	if err := u.usersSrv.DeleteUser(ctx, &cmd); err != nil {
		srvsupport.CheckAndWriteError(w, r, err)

		return
	}

	logger.Info().Str(common.LogKeyUserID, cmd.UserID).Msg("user deleted")

	srvsupport.RenderJSON(w, r, &deleteUserResponse{OK: true, Deleted: cmd.UserID})
}
