package web

//
// index.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/softupkaran/internal/common"
	"gitlab.com/kabes/softupkaran/internal/model"
	"gitlab.com/kabes/softupkaran/internal/server/srvsupport"
	"gitlab.com/kabes/softupkaran/internal/service"
)

type indexPage struct {
	usersSrv *service.UsersSrv
	template templates
}

func newIndexPage(i do.Injector) (indexPage, error) {
	return indexPage{
		usersSrv: do.MustInvoke[*service.UsersSrv](i),
		template: do.MustInvoke[templates](i),
	}, nil
}

func (i indexPage) indexPage(ctx context.Context, w http.ResponseWriter, r *http.Request,
	logger *zerolog.Logger,
) {
	users, err := i.usersSrv.GetUsers(ctx)
	if err != nil {
		srvsupport.CheckAndWriteError(w, r, err)

		return
	}

	data := struct {
		Users model.Users
	}{users}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := i.template.executeTemplate(w, "index.tmpl", data); err != nil {
		logger.Error().Err(err).Str(common.LogKeyModule, "web").Msg("execute template error")
		srvsupport.WriteInternalError(w, r)
	}
}
