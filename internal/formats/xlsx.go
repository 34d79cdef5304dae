package formats

//
// xlsx.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"gitlab.com/kabes/softupkaran/internal/model"
)

const xlsxSheetName = "Users"

var xlsxColWidths = []float64{20, 30, 18, 20, 22, 34}

// WriteXLSX write users as single-sheet workbook.
func WriteXLSX(w io.Writer, users model.Users) error {
	f := excelize.NewFile()

	defer func() {
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Msg("close xlsx file failed")
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), xlsxSheetName); err != nil {
		return fmt.Errorf("rename sheet error: %w", err)
	}

	for col, name := range model.ExportColumns {
		if err := setCell(f, col+1, 1, name); err != nil {
			return err
		}
	}

	for idx, u := range users {
		for col, value := range u.ExportRow() {
			if err := setCell(f, col+1, idx+2, value); err != nil { //nolint:mnd
				return err
			}
		}
	}

	for col, width := range xlsxColWidths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return fmt.Errorf("get column name error: %w", err)
		}

		if err := f.SetColWidth(xlsxSheetName, name, name, width); err != nil {
			return fmt.Errorf("set column width error: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx error: %w", err)
	}

	return nil
}

func setCell(f *excelize.File, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("get cell name error: %w", err)
	}

	if err := f.SetCellStr(xlsxSheetName, cell, value); err != nil {
		return fmt.Errorf("set cell %s error: %w", cell, err)
	}

	return nil
}
