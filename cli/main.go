package main

//
// main.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"gitlab.com/kabes/softupkaran/internal/cli"
)

func main() {
	if err := cli.Main(); err != nil {
		os.Exit(1)
	}
}
