package api

//
// parsing.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"

	"gitlab.com/kabes/softupkaran/internal/aerr"
)

const maxBodySize = 1 << 20

var ErrInvalidBody = aerr.NewSimple("invalid request body").
	WithTag(aerr.ValidationError).
	WithUserMsg("invalid request body")

// decodeBody load json or form encoded body into `target`. Form fields are
// matched by target json field names.
func decodeBody(r *http.Request, target any) error {
	mediatype, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediatype {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		return decodeForm(r, target)
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(target); err != nil {
		if err == io.EOF { //nolint:errorlint
			// empty body; validation report missing fields
			return nil
		}

		return aerr.ApplyFor(ErrInvalidBody, err)
	}

	return nil
}

// decodeForm map form fields to json fields of target.
func decodeForm(r *http.Request, target any) error {
	if err := r.ParseMultipartForm(maxBodySize); err != nil && err != http.ErrNotMultipart { //nolint:errorlint
		return aerr.ApplyFor(ErrInvalidBody, err)
	}

	values := make(map[string]string, len(r.Form))
	for key := range r.Form {
		values[key] = r.Form.Get(key)
	}

	data, err := json.Marshal(values)
	if err != nil {
		return aerr.ApplyFor(ErrInvalidBody, err)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return aerr.ApplyFor(ErrInvalidBody, err)
	}

	return nil
}
