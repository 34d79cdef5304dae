package api

//
// signup.go
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

// signupResource handle public registration.
type signupResource struct {
	usersSrv *service.UsersSrv
}

func newSignupResource(i do.Injector) (signupResource, error) {
	return signupResource{
		usersSrv: do.MustInvoke[*service.UsersSrv](i),
	}, nil
}

func (s signupResource) Routes() *chi.Mux {
	r := chi.NewRouter()
	r.Post("/", srvsupport.WrapNamed(s.signup, "api_signup"))

	return r
}

type signupResponse struct {
	OK   bool        `json:"ok"`
	User *model.User `json:"user"`
}

func (s signupResource) signup(ctx context.Context, w http.ResponseWriter, r *http.Request,
	logger *zerolog.Logger,
) {
	var cmd command.SignupCmd
	if err := decodeBody(r, &cmd); err != nil {
		srvsupport.CheckAndWriteError(w, r, err)

		return
	}

	user, err := s.usersSrv.Signup(ctx, &cmd)
	if err != nil {
		srvsupport.CheckAndWriteError(w, r, err)

		return
	}

	logger.Info().
		Str(common.LogKeyUserID, user.ID).
		Str(common.LogKeyUserEmail, user.Email).
		Str(common.LogKeyRemote, r.RemoteAddr).
		Msg("signup succeeded")

	srvsupport.RenderJSONStatus(w, r, http.StatusCreated, &signupResponse{OK: true, User: user})
}
