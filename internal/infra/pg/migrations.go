package pg

//
// migrations.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"embed"
	"io/fs"
)

//go:embed "migrations/*.sql"
var embedMigrations embed.FS

func migrations() fs.FS {
	sub, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		panic(err)
	}

	return sub
}
