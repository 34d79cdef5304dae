// Package srvsupport provide helpers for http handlers.
package srvsupport

//
// httpsupport.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"net/http"

	"github.com/go-chi/render"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"gitlab.com/kabes/softupkaran/internal/aerr"
)

const internalServerError = "internal server error"

// ErrorResponse is body of every error response.
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

type routeMatchKey struct{}

type routeMatch struct {
	unmatched bool
}

// WithRouteMatch prepare request for tracking whether any route handled it.
func WithRouteMatch(r *http.Request) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), routeMatchKey{}, &routeMatch{}))
}

// RouteUnmatched report that request ended in NotFound handler.
func RouteUnmatched(r *http.Request) bool {
	m, ok := r.Context().Value(routeMatchKey{}).(*routeMatch)

	return ok && m.unmatched
}

// NotFound write json 404 response and mark request as not matching any route.
func NotFound(w http.ResponseWriter, r *http.Request) {
	if m, ok := r.Context().Value(routeMatchKey{}).(*routeMatch); ok {
		m.unmatched = true
	}

	WriteError(w, r, http.StatusNotFound, "")
}

// WrapNamed add context and logger to handler. `name` is put as `handler` in logger context.
func WrapNamed(
	handler func(ctx context.Context, w http.ResponseWriter, r *http.Request, logger *zerolog.Logger),
	name string,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := hlog.FromRequest(r).
			With().Str("handler", name).
			Logger()

		ctx := logger.WithContext(r.Context())
		r = r.WithContext(ctx)

		handler(ctx, w, r, &logger)
	}
}

// WriteError write json error response `{ok:false,error:msg}`.
func WriteError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	if msg == "" {
		msg = http.StatusText(code)
	}

	render.Status(r, code)
	RenderJSON(w, r, &ErrorResponse{OK: false, Error: msg})
}

// WriteInternalError write generic 500 response; details are never returned to the client.
func WriteInternalError(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, http.StatusInternalServerError, internalServerError)
}

// CheckAndWriteError decode, log and write error to ResponseWriter.
func CheckAndWriteError(w http.ResponseWriter, r *http.Request, err error) {
	logger := hlog.FromRequest(r)
	msg := aerr.GetUserMessage(err)

	switch {
	case aerr.HasTag(err, aerr.InternalError):
		logger.Error().Err(err).Msgf("request failed: %s", err)
		WriteInternalError(w, r)

	case aerr.HasTag(err, aerr.ValidationError), aerr.HasTag(err, aerr.DataError):
		logger.Info().Err(err).Msgf("invalid request: %s", msg)
		WriteError(w, r, http.StatusBadRequest, msg)

	case aerr.HasTag(err, aerr.NotFoundError):
		logger.Debug().Err(err).Msgf("not found: %s", msg)
		WriteError(w, r, http.StatusNotFound, msg)

	case aerr.HasTag(err, aerr.AuthError):
		logger.Warn().Str("path", r.URL.Path).Str("remote", r.RemoteAddr).Msg("unauthorized")
		WriteError(w, r, http.StatusUnauthorized, msg)

	default:
		// unknown error; never show details
		logger.Error().Err(err).Msgf("request failed: %s", err)
		WriteInternalError(w, r)
	}
}
