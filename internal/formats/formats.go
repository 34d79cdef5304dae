// Package formats write users listing in export formats.
package formats

//
// formats.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"io"
	"strings"

	"gitlab.com/kabes/softupkaran/internal/model"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const DefaultFormat = FormatCSV

// ParseFormat parse format name (case insensitive); empty value means default format.
func ParseFormat(name string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "":
		return DefaultFormat, true
	case FormatCSV:
		return FormatCSV, true
	case FormatXLSX:
		return FormatXLSX, true
	}

	return "", false
}

// ContentType return mime type of format.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Filename return name of file used in Content-Disposition header.
func (f Format) Filename() string {
	return "users." + string(f)
}

// Writer write users into `w`.
type Writer func(w io.Writer, users model.Users) error

// WriterFor return writer for format.
func WriterFor(f Format) Writer {
	switch f {
	case FormatXLSX:
		return WriteXLSX
	default:
		return WriteCSV
	}
}
