package server

//
// middlewares.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"gitlab.com/kabes/softupkaran/internal/common"
	"gitlab.com/kabes/softupkaran/internal/config"
	"gitlab.com/kabes/softupkaran/internal/server/srvsupport"
)

const hstsMaxAge = "max-age=63072000"

// quietPrefixes list paths excluded from access log and tracing.
var quietPrefixes = []string{"/metrics", "/ping", "/debug", "/admin/static"} //nolint:gochecknoglobals

func shouldSkipLogRequest(request *http.Request) bool {
	return slices.ContainsFunc(quietPrefixes, func(prefix string) bool {
		return strings.HasPrefix(request.URL.Path, prefix)
	})
}

func requestLogger(request *http.Request) zerolog.Logger {
	requestID, _ := hlog.IDFromRequest(request)

	return log.Logger.With().Str(common.LogKeyReqID, requestID.String()).Logger()
}

// statusLogLevel map response status to log level; 404 is not a warning.
func statusLogLevel(status int) zerolog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zerolog.ErrorLevel
	case status == http.StatusNotFound:
		return zerolog.InfoLevel
	case status >= http.StatusBadRequest:
		return zerolog.WarnLevel
	}

	return zerolog.InfoLevel
}

//-------------------------------------------------------------

// bodyCapture keep copy of request and response bodies for debug log.
type bodyCapture struct {
	request, response bytes.Buffer
}

func (b *bodyCapture) attach(request *http.Request, writer middleware.WrapResponseWriter) {
	request.Body = io.NopCloser(io.TeeReader(request.Body, &b.request))
	writer.Tee(&b.response)
}

// newLogMiddleware put request logger into context and write access log.
// With DebugMsgBody flag headers and bodies are logged too.
func newLogMiddleware(cfg *config.ServerConf) func(http.Handler) http.Handler {
	withBodies := cfg.DebugFlags.HasFlag(config.DebugMsgBody)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			logger := requestLogger(request)
			request = request.WithContext(logger.WithContext(request.Context()))

			if shouldSkipLogRequest(request) {
				next.ServeHTTP(writer, request)

				return
			}

			start := time.Now()
			wrw := middleware.NewWrapResponseWriter(writer, request.ProtoMajor)

			var capture *bodyCapture

			startEvent := logger.Debug()
			if withBodies {
				capture = &bodyCapture{}
				capture.attach(request, wrw)
				startEvent = logger.Info().Interface(common.LogKeyRequestHeaders, request.Header)
			}

			startEvent.Str("method", request.Method).
				Str("url", request.URL.Redacted()).
				Str(common.LogKeyRemote, request.RemoteAddr).
				Msg("access: request started")

			defer func() {
				if capture != nil {
					logger.Debug().
						Interface(common.LogKeyResponseHeaders, wrw.Header()).
						Str("request_body", capture.request.String()).
						Str("response_body", capture.response.String()).
						Msg("access: request data")
				}

				logger.WithLevel(statusLogLevel(wrw.Status())).
					Str("method", request.Method).
					Str("uri", request.RequestURI).
					Str(common.LogKeyRemote, request.RemoteAddr).
					Int("status", wrw.Status()).
					Int("size", wrw.BytesWritten()).
					Dur("duration", time.Since(start)).
					Msg("access: request finished")
			}()

			next.ServeHTTP(wrw, request)
		})
	}
}

//-------------------------------------------------------------

// newRecoverMiddleware turn panics into 500 response; http.ErrAbortHandler
// is propagated to net/http.
func newRecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			event := log.Ctx(req.Context()).Error().Str(common.LogKeyPath, req.URL.Path)
			if err, ok := rec.(error); ok {
				event = event.Err(err)
			} else {
				event = event.Interface("panic", rec)
			}

			event.Msg("panic when handling request")

			if req.Header.Get("Connection") != "Upgrade" {
				srvsupport.WriteInternalError(w, req)
			}
		}()

		next.ServeHTTP(w, req)
	})
}

//-------------------------------------------------------------

func newSecurityHeadersMiddleware(cfg *config.ServerConf) []func(http.Handler) http.Handler {
	mws := []func(http.Handler) http.Handler{
		middleware.SetHeader("X-Content-Type-Options", "nosniff"),
		middleware.SetHeader("X-Frame-Options", "DENY"),
		middleware.SetHeader("Referrer-Policy", "same-origin"),
	}

	if cfg.Listen.TLSEnabled() {
		mws = append(mws, middleware.SetHeader("Strict-Transport-Security", hstsMaxAge))
	}

	return mws
}
