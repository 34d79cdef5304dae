// Package cli define command line interface for softupkaran backend.
package cli

//
// main.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//
import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"gitlab.com/kabes/softupkaran/internal/aerr"
	"gitlab.com/kabes/softupkaran/internal/config"
)

// Main run application; returned error means program should exit with non-zero code.
//
//nolint:forbidigo
func Main() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error: load .env file failed: %s\n", err)
	}

	cli.VersionFlag = &cli.BoolFlag{
		Name:    "print-version",
		Aliases: []string{"V"},
		Usage:   "Print version.",
	}

	cmd := &cli.Command{
		Name:    "softupkaran",
		Usage:   "softupkaran account registration backend",
		Version: config.VersionString(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db.driver",
				Value:   "sqlite",
				Usage:   "Database driver (sqlite, postgres)",
				Sources: cli.EnvVars("SOFTUPKARAN_DB_DRIVER"),
				Config:  cli.StringConfig{TrimSpace: true},
			},
			&cli.StringFlag{
				Name:      "db.connstr",
				Value:     config.DefaultSqliteConnstr,
				Usage:     "Database connection string",
				Aliases:   []string{"D"},
				Sources:   cli.EnvVars("SOFTUPKARAN_DB_CONNSTR", "DATABASE_URL"),
				Validator: dbConnstrValidator,
				Config:    cli.StringConfig{TrimSpace: true},
			},
			&cli.StringFlag{
				Name:    "log.level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("SOFTUPKARAN_LOG_LEVEL", "LOG_LEVEL"),
				Config:  cli.StringConfig{TrimSpace: true},
			},
			&cli.StringFlag{
				Name:    "log.format",
				Value:   "console",
				Usage:   "Log format (console, logfmt, json, journald, syslog)",
				Sources: cli.EnvVars("SOFTUPKARAN_LOG_FORMAT"),
				Config:  cli.StringConfig{TrimSpace: true},
			},
			&cli.StringFlag{
				Name:    "debug",
				Usage:   "Debug flags (logbody, do, go, router, querymetrics, all)",
				Sources: cli.EnvVars("SOFTUPKARAN_DEBUG"),
			},
		},
		Commands: []*cli.Command{
			newServeCmd(),
			usersSubCmd(),
			databaseSubCmd(),
		},
	}

	err := cmd.Run(context.Background(), os.Args)
	if err == nil {
		return nil
	}

	fmt.Fprintf(os.Stderr, "Error: %s\n", aerr.GetUserMessageOr(err, err.Error()))

	if cmd.String("log.level") == "debug" {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
	}

	return err
}

func usersSubCmd() *cli.Command {
	return &cli.Command{
		Name:  "user",
		Usage: "manage registered users",
		Commands: []*cli.Command{
			newListUsersCmd(),
			newAddUserCmd(),
			newDeleteUserCmd(),
			newImportUsersCmd(),
		},
	}
}

func databaseSubCmd() *cli.Command {
	return &cli.Command{
		Name:  "database",
		Usage: "manage database",
		Commands: []*cli.Command{
			newMigrateCmd(),
			newCopyCmd(),
		},
	}
}

//---------------------------------------------------------------------

func dbConnstrValidator(connstr string) error {
	if connstr == "" {
		return aerr.ErrInvalidConf.WithUserMsg("database connection string cannot be empty")
	}

	return nil
}
