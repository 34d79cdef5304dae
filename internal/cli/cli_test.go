package cli

//
// cli_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v3"

	"gitlab.com/kabes/softupkaran/internal/aerr"
	"gitlab.com/kabes/softupkaran/internal/assert"
	"gitlab.com/kabes/softupkaran/internal/config"
	"gitlab.com/kabes/softupkaran/internal/model"
)

func parseServeArgs(t *testing.T, args ...string) (*config.ServerConf, error) {
	t.Helper()

	var (
		cfg    *config.ServerConf
		cfgErr error
	)

	cmd := newServeCmd()
	cmd.Before = nil
	cmd.Action = func(_ context.Context, clicmd *cli.Command) error {
		cfg, cfgErr = newServerConf(clicmd)

		return nil
	}

	if err := cmd.Run(t.Context(), append([]string{"serve"}, args...)); err != nil {
		t.Fatalf("run command error: %v", err)
	}

	return cfg, cfgErr
}

func TestServerConfFromFlags(t *testing.T) {
	cfg, err := parseServeArgs(t,
		"--admin-user", "admin", "--admin-pass", "secret", "--session-cookie", "sid", "--mode", "production",
		"--port", "8080", "--session-ttl", "120", "--cors-origin", "https://a.example, https://b.example")
	assert.NoErr(t, err)

	assert.Equal(t, cfg.Listen.Address, ":8080")
	assert.Equal(t, cfg.Admin.User, "admin")
	assert.Equal(t, cfg.Session.CookieName, "sid")
	assert.Equal(t, cfg.Session.TTL, 120*time.Second)
	assert.Equal(t, cfg.Session.SweepInterval, config.DefaultSweepInterval)
	assert.Equal(t, cfg.Mode, config.ModeProduction)
	assert.True(t, cfg.UseSecureCookie())
	assert.True(t, cfg.EnableCORS)
	assert.Equal(t, cfg.CORSOrigins, []string{"https://a.example", "https://b.example"})
}

func TestServerConfFailFast(t *testing.T) {
	tests := [][]string{
		{"--admin-pass", "secret", "--session-cookie", "sid"},
		{"--admin-user", "admin", "--session-cookie", "sid"},
		{"--admin-user", "admin", "--admin-pass", "secret"},
		{"--admin-user", "admin", "--admin-pass", "secret", "--session-cookie", "sid", "--session-ttl", "0"},
		{"--admin-user", "admin", "--admin-pass", "secret", "--session-cookie", "sid", "--cert", "server.crt"},
		{"--admin-user", "admin", "--admin-pass", "secret", "--session-cookie", "sid", "--port", "abc"},
	}

	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			_, err := parseServeArgs(t, args...)
			assert.Err(t, err)
			assert.True(t, aerr.HasTag(err, aerr.ConfigurationError))
		})
	}
}

func TestDecodeImportUsers(t *testing.T) {
	input := `[
		{"id":"u1","name":"Jan","telegram":"@jan_user","password":"p","createdAt":"2024-01-02T03:04:05Z"},
		{"id":"u2","passwordHash":"$2a$10$abc"}
	]`

	cmds, err := decodeImportUsers(strings.NewReader(input))
	assert.NoErr(t, err)
	assert.Equal(t, len(cmds), 2)
	assert.Equal(t, cmds[0].Telegram, "@jan_user")
	assert.Equal(t, cmds[0].CreatedAt, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	assert.Equal(t, cmds[1].PasswordHash, "$2a$10$abc")

	_, err = decodeImportUsers(strings.NewReader(`{"id":"u1"}`))
	assert.Err(t, err)
	assert.Equal(t, aerr.GetUserMessage(err), "invalid input file; expected json array of users")
}

func TestPrintUsers(t *testing.T) {
	var buf bytes.Buffer

	printUsers(&buf, model.Users{
		{ID: "abc", Name: "Jan", Telegram: "@jan_user", CreatedAt: time.Now()},
	})

	out := buf.String()
	assert.Contains(t, out, "@jan_user")
	assert.Contains(t, out, "Total: 1")
}

func TestReadPasswordGiven(t *testing.T) {
	pass, err := readPassword("secret")
	assert.NoErr(t, err)
	assert.Equal(t, pass, "secret")
}
