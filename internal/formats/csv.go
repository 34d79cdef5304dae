package formats

//
// csv.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"gitlab.com/kabes/softupkaran/internal/model"
)

var newlineReplacer = strings.NewReplacer("\r\n", " ", "\n", " ")

// WriteCSV write header and one row per user. New lines in values are replaced by space.
func WriteCSV(w io.Writer, users model.Users) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(model.ExportColumns); err != nil {
		return fmt.Errorf("write csv header error: %w", err)
	}

	for _, u := range users {
		row := u.ExportRow()
		for i, v := range row {
			row[i] = newlineReplacer.Replace(v)
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row error: %w", err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv error: %w", err)
	}

	return nil
}
