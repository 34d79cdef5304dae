package cli

//
// database.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"
	"github.com/urfave/cli/v3"
	"gitlab.com/kabes/softupkaran/internal/aerr"
	"gitlab.com/kabes/softupkaran/internal/config"
	"gitlab.com/kabes/softupkaran/internal/infra"
	"gitlab.com/kabes/softupkaran/internal/repository"
	"gitlab.com/kabes/softupkaran/internal/service"
)

func newMigrateCmd() *cli.Command {
	return &cli.Command{
		Name:   "migrate",
		Usage:  "create or update database schema",
		Action: wrap(migrateCmd),
	}
}

//nolint:forbidigo
func migrateCmd(ctx context.Context, _ *cli.Command, injector do.Injector) error {
	db := do.MustInvoke[repository.Database](injector)

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate error: %w", err)
	}

	fmt.Println("Migration finished")

	return nil
}

//---------------------------------------------------------------------

func newCopyCmd() *cli.Command {
	return &cli.Command{
		Name:  "copy",
		Usage: "copy all users from other database into configured database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "source-driver",
				Value:    "sqlite",
				Usage:    "source database driver (sqlite, postgres)",
				Config:   cli.StringConfig{TrimSpace: true},
			},
			&cli.StringFlag{
				Name:     "source-connstr",
				Usage:    "source database connection string",
				Config:   cli.StringConfig{TrimSpace: true},
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "migrate",
				Value: true,
				Usage: "update target database schema before copy",
			},
		},
		Action: wrap(copyCmd),
	}
}

//nolint:forbidigo
func copyCmd(ctx context.Context, clicmd *cli.Command, injector do.Injector) error {
	srcconf := config.NewDBConfig(clicmd.String("source-driver"), clicmd.String("source-connstr"))
	if err := srcconf.Validate(); err != nil {
		return aerr.Wrapf(err, "invalid source database configuration")
	}

	if clicmd.Bool("migrate") {
		if err := do.MustInvoke[repository.Database](injector).Migrate(ctx); err != nil {
			return fmt.Errorf("migrate target database error: %w", err)
		}
	}

	srcInjector := do.New(infra.Package)
	do.ProvideValue(srcInjector, srcconf)

	defer shutdownInjector(ctx, srcInjector)

	srcdb := do.MustInvoke[repository.Database](srcInjector)
	if _, err := srcdb.Open(ctx); err != nil {
		return aerr.Wrapf(err, "connect to source database failed")
	}

	usersrv := do.MustInvoke[*service.UsersSrv](injector)

	copied, err := usersrv.CopyUsersFrom(ctx, srcdb, do.MustInvoke[repository.UsersRepository](srcInjector))
	if err != nil {
		return fmt.Errorf("copy users error: %w", err)
	}

	total, err := usersrv.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("count users error: %w", err)
	}

	fmt.Printf("Copied %d users; target database contains %d users\n", copied, total)

	return nil
}
