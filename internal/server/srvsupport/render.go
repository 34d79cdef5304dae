package srvsupport

//
// render.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/render"
	"github.com/rs/zerolog"
)

// RenderJSON marshals 'v' to JSON, automatically escaping HTML and setting the
// Content-Type as application/json. Status is taken from render.StatusCtxKey.
// based on go-chi/render but not use temporary buffer.
func RenderJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	ctx := r.Context()

	if status, ok := ctx.Value(render.StatusCtxKey).(int); ok {
		w.WriteHeader(status)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)

	if err := enc.Encode(v); err != nil {
		logger := zerolog.Ctx(ctx)
		logger.Error().Err(err).Msg("encode json failed")
	}
}

// RenderJSONStatus render `v` as json with given http status.
func RenderJSONStatus(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	RenderJSON(w, r, v)
}
