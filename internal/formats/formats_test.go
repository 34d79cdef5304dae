package formats

//
// formats_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"gitlab.com/kabes/softupkaran/internal/assert"
	"gitlab.com/kabes/softupkaran/internal/model"
)

func testUsers() model.Users {
	return model.Users{
		{
			ID:        "id2",
			Name:      "Jan, \"Kowalski\"",
			Email:     "jan@example.com",
			Telegram:  "@jan_kowalski",
			CreatedAt: time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC),
		},
		{
			ID:        "id1",
			Name:      "multi\nline\r\nname",
			Whatsapp:  "+48 600",
			Telegram:  "@multiline",
			CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, ok := ParseFormat("")
	assert.True(t, ok)
	assert.Equal(t, f, DefaultFormat)
	assert.Equal(t, f, FormatCSV)

	f, ok = ParseFormat("CSV")
	assert.True(t, ok)
	assert.Equal(t, f, FormatCSV)

	f, ok = ParseFormat(" Xlsx ")
	assert.True(t, ok)
	assert.Equal(t, f, FormatXLSX)

	_, ok = ParseFormat("json")
	assert.True(t, !ok)

	assert.Equal(t, FormatCSV.Filename(), "users.csv")
	assert.Equal(t, FormatCSV.ContentType(), "text/csv; charset=utf-8")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer

	assert.NoErr(t, WriteCSV(&buf, testUsers()))

	want := "name,email,whatsapp,telegram,createdAt,id\n" +
		"\"Jan, \"\"Kowalski\"\"\",jan@example.com,,@jan_kowalski,2025-02-03T04:05:06.000Z,id2\n" +
		"multi line name,,+48 600,@multiline,2025-01-02T03:04:05.000Z,id1\n"
	assert.Equal(t, buf.String(), want)
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer

	assert.NoErr(t, WriteCSV(&buf, nil))
	assert.Equal(t, buf.String(), "name,email,whatsapp,telegram,createdAt,id\n")
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer

	assert.NoErr(t, WriteXLSX(&buf, testUsers()))

	f, err := excelize.OpenReader(&buf)
	assert.NoErr(t, err)

	defer f.Close()

	rows, err := f.GetRows(xlsxSheetName)
	assert.NoErr(t, err)
	assert.Equal(t, len(rows), 3)
	assert.Equal(t, rows[0], model.ExportColumns)
	assert.Equal(t, rows[1][0], "Jan, \"Kowalski\"")
	assert.Equal(t, rows[2][5], "id1")
}
