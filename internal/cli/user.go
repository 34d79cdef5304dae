package cli

//
// user.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/samber/do/v2"
	"github.com/urfave/cli/v3"
	"gitlab.com/kabes/softupkaran/internal/aerr"
	"gitlab.com/kabes/softupkaran/internal/command"
	"gitlab.com/kabes/softupkaran/internal/model"
	"gitlab.com/kabes/softupkaran/internal/service"
	"golang.org/x/term"
)

func newListUsersCmd() *cli.Command {
	return &cli.Command{
		Name:   "list",
		Usage:  "list registered users",
		Action: wrap(listUsersCmd),
	}
}

func listUsersCmd(ctx context.Context, _ *cli.Command, injector do.Injector) error {
	usersrv := do.MustInvoke[*service.UsersSrv](injector)

	users, err := usersrv.GetUsers(ctx)
	if err != nil {
		return fmt.Errorf("get users error: %w", err)
	}

	printUsers(os.Stdout, users)

	return nil
}

func printUsers(out io.Writer, users model.Users) {
	fmt.Fprintf(out, "%-32s | %-20s | %-25s | %-15s | %-20s | %s\n",
		"ID", "Name", "Email", "WhatsApp", "Telegram", "Created")
	fmt.Fprintln(out, strings.Repeat("-", 140))

	for _, u := range users {
		fmt.Fprintf(out, "%-32s | %-20s | %-25s | %-15s | %-20s | %s\n",
			u.ID, u.Name, u.Email, u.Whatsapp, u.Telegram, u.CreatedAt.Local().Format(time.DateTime))
	}

	fmt.Fprintf(out, "Total: %d\n", len(users))
}

// ---------------------------------------------------------------------

func newAddUserCmd() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "register new user",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "telegram", Required: true, Aliases: []string{"t"}},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "password; prompted when empty"},
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}},
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}},
			&cli.StringFlag{Name: "whatsapp", Aliases: []string{"w"}},
		},
		Action: wrap(addUserCmd),
	}
}

//nolint:forbidigo
func addUserCmd(ctx context.Context, clicmd *cli.Command, injector do.Injector) error {
	password, err := readPassword(clicmd.String("password"))
	if err != nil {
		return err
	}

	usersrv := do.MustInvoke[*service.UsersSrv](injector)

	user, err := usersrv.Signup(ctx, &command.SignupCmd{
		Name:     clicmd.String("name"),
		Email:    clicmd.String("email"),
		Whatsapp: clicmd.String("whatsapp"),
		Telegram: clicmd.String("telegram"),
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("add user error: %w", err)
	}

	fmt.Printf("User %s created; id: %s\n", user.Telegram, user.ID)

	return nil
}

// readPassword return `pass` or ask user for password when it is empty.
func readPassword(pass string) (string, error) {
	if pass == "" && term.IsTerminal(syscall.Stdin) {
		fmt.Print("Enter password: ") //nolint:forbidigo

		bytepw, err := term.ReadPassword(syscall.Stdin)

		fmt.Println() //nolint:forbidigo

		if err != nil {
			return "", fmt.Errorf("read password error: %w", err)
		}

		pass = string(bytepw)
	}

	if strings.TrimSpace(pass) == "" {
		return "", aerr.ErrValidation.WithUserMsg("password can't be empty")
	}

	return pass, nil
}

// ---------------------------------------------------------------------

func newDeleteUserCmd() *cli.Command {
	return &cli.Command{
		Name:  "delete",
		Usage: "delete user",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "id", Required: true, Aliases: []string{"i"}},
		},
		Action: wrap(deleteUserCmd),
	}
}

//nolint:forbidigo
func deleteUserCmd(ctx context.Context, clicmd *cli.Command, injector do.Injector) error {
	userid := clicmd.String("id")
	usersrv := do.MustInvoke[*service.UsersSrv](injector)

	if err := usersrv.DeleteUser(ctx, &command.DeleteUserCmd{UserID: userid}); err != nil {
		return fmt.Errorf("delete user error: %w", err)
	}

	fmt.Printf("User %s deleted\n", userid)

	return nil
}

// ---------------------------------------------------------------------

func newImportUsersCmd() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "import users from json file (array of user objects)",
		ArgsUsage: "<file.json>",
		Action:    wrap(importUsersCmd),
	}
}

//nolint:forbidigo
func importUsersCmd(ctx context.Context, clicmd *cli.Command, injector do.Injector) error {
	filename := clicmd.Args().First()
	if filename == "" {
		return aerr.ErrValidation.WithUserMsg("missing input file name")
	}

	cmds, err := loadImportFile(filename)
	if err != nil {
		return err
	}

	usersrv := do.MustInvoke[*service.UsersSrv](injector)

	res, err := usersrv.ImportUsers(ctx, cmds)
	if err != nil {
		return fmt.Errorf("import users error: %w", err)
	}

	fmt.Printf("Imported: %d; skipped: %d\n", res.Imported, res.Skipped)

	return nil
}

func loadImportFile(filename string) ([]command.ImportUserCmd, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, aerr.ApplyFor(aerr.ErrValidation, err, "", "can't open input file").
			WithMeta("filename", filename)
	}
	defer file.Close()

	return decodeImportUsers(file)
}

func decodeImportUsers(r io.Reader) ([]command.ImportUserCmd, error) {
	var cmds []command.ImportUserCmd

	if err := json.NewDecoder(r).Decode(&cmds); err != nil {
		return nil, aerr.ApplyFor(aerr.ErrValidation, err, "", "invalid input file; expected json array of users")
	}

	return cmds, nil
}
