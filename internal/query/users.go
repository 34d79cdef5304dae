// Package query define read-only requests.
package query

//
// users.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//
import (
	"gitlab.com/kabes/softupkaran/internal/common"
	"gitlab.com/kabes/softupkaran/internal/formats"
)

// ExportUsersQuery request users listing in given format.
type ExportUsersQuery struct {
	Format string
}

// Validate check format and return parsed value.
func (q *ExportUsersQuery) Validate() (formats.Format, error) {
	format, ok := formats.ParseFormat(q.Format)
	if !ok {
		return "", common.ErrUnsupportedExportFormat.WithMeta("format", q.Format)
	}

	return format, nil
}
