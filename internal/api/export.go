package api

//
// export.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"bytes"
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/softupkaran/internal/aerr"
	"gitlab.com/kabes/softupkaran/internal/formats"
	"gitlab.com/kabes/softupkaran/internal/query"
	"gitlab.com/kabes/softupkaran/internal/server/srvsupport"
	"gitlab.com/kabes/softupkaran/internal/service"
)

// exportResource handle /api/export; return the same listing as /api/users
// as downloadable file.
type exportResource struct {
	usersSrv *service.UsersSrv
}

func newExportResource(i do.Injector) (exportResource, error) {
	return exportResource{
		usersSrv: do.MustInvoke[*service.UsersSrv](i),
	}, nil
}

func (e exportResource) Routes(auth func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.With(auth).Get("/", srvsupport.WrapNamed(e.export, "api_export"))

	return r
}

func (e exportResource) export(ctx context.Context, w http.ResponseWriter, r *http.Request,
	logger *zerolog.Logger,
) {
	q := query.ExportUsersQuery{Format: r.URL.Query().Get("format")}

	format, err := q.Validate()
	if err != nil {
		srvsupport.CheckAndWriteError(w, r, err)

		return
	}

	users, err := e.usersSrv.GetUsers(ctx)
	if err != nil {
		srvsupport.CheckAndWriteError(w, r, err)

		return
	}

	// render into buffer so failure can still be reported as error response
	var buf bytes.Buffer
	if err := formats.WriterFor(format)(&buf, users); err != nil {
		srvsupport.CheckAndWriteError(w, r, aerr.Wrapf(err, "export users failed").WithTag(aerr.InternalError))

		return
	}

	logger.Debug().Msgf("ExportResource: exported users=%d format=%s", len(users), format)

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+format.Filename()+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)

	if _, err := buf.WriteTo(w); err != nil {
		logger.Warn().Err(err).Msg("ExportResource: write response failed")
	}
}
