package config

//
// server.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/kabes/softupkaran/internal/aerr"
)

const (
	DefaultPort          = 5050
	DefaultSessionTTL    = 3600 * time.Second
	DefaultSweepInterval = 5 * time.Minute
)

// Mode is deployment mode; production enable secure cookies.
type Mode string

const (
	ModeDevelopment = Mode("development")
	ModeProduction  = Mode("production")
	ModeTest        = Mode("test")
)

func ParseMode(mode string) Mode {
	switch m := Mode(strings.ToLower(strings.TrimSpace(mode))); m {
	case ModeProduction, ModeTest:
		return m
	default:
		return ModeDevelopment
	}
}

//-------------------------------------------------------------

// ListenConf configure address on which server listen.
type ListenConf struct {
	Address        string
	TLSKey         string
	TLSCert        string
	MaxConnections int
}

func (c *ListenConf) Validate() error {
	if c.Address == "" {
		return aerr.ErrInvalidConf.WithUserMsg("listen address can't be empty")
	}

	if _, _, err := net.SplitHostPort(c.Address); err != nil {
		return aerr.ApplyFor(aerr.ErrInvalidConf, err, "", "invalid listen address")
	}

	if (c.TLSKey != "") != (c.TLSCert != "") {
		return aerr.ErrInvalidConf.WithUserMsg("both tls key and cert must be defined")
	}

	if c.MaxConnections < 0 {
		return aerr.ErrInvalidConf.WithUserMsg("max connections can't be negative")
	}

	return nil
}

func (c *ListenConf) TLSEnabled() bool {
	return c.TLSKey != ""
}

// ApplyPort replace port in Address when port is given.
func (c *ListenConf) ApplyPort(port string) error {
	port = strings.TrimSpace(port)
	if port == "" {
		return nil
	}

	if p, err := strconv.Atoi(port); err != nil || p <= 0 || p > 65535 {
		return aerr.ErrInvalidConf.WithUserMsg("invalid port %q", port)
	}

	host, _, err := net.SplitHostPort(c.Address)
	if err != nil {
		host = ""
	}

	c.Address = net.JoinHostPort(host, port)

	return nil
}

//-------------------------------------------------------------

// AdminConf hold credentials of the single admin account.
type AdminConf struct {
	User     string
	Password string
}

func (a AdminConf) MarshalZerologObject(event *zerolog.Event) {
	event.Str("user", a.User).Bool("password_set", a.Password != "")
}

// SessionConf configure admin sessions.
type SessionConf struct {
	CookieName    string
	TTL           time.Duration
	SweepInterval time.Duration
}

//-------------------------------------------------------------

// ServerConf configure http server.
type ServerConf struct {
	Listen  ListenConf
	Admin   AdminConf
	Session SessionConf
	Mode    Mode

	DebugFlags  DebugFlags
	EnableCORS  bool
	CORSOrigins []string

	SetSecurityHeaders bool
	TracingEndpoint    string
}

func (c *ServerConf) Validate() error {
	if err := c.Listen.Validate(); err != nil {
		return fmt.Errorf("validate listen configuration failed: %w", err)
	}

	if c.Admin.User == "" {
		return aerr.ErrInvalidConf.WithUserMsg("admin user (ADMIN_USER) must be set")
	}

	if c.Admin.Password == "" {
		return aerr.ErrInvalidConf.WithUserMsg("admin password (ADMIN_PASS) must be set")
	}

	if strings.TrimSpace(c.Session.CookieName) == "" {
		return aerr.ErrInvalidConf.WithUserMsg("session cookie name (SESSION_COOKIE) must be set")
	}

	if strings.ContainsAny(c.Session.CookieName, " ;=,\t") {
		return aerr.ErrInvalidConf.WithUserMsg("invalid session cookie name %q", c.Session.CookieName)
	}

	if c.Session.TTL <= 0 {
		return aerr.ErrInvalidConf.WithUserMsg("session ttl (SESSION_TTL_SEC) must be positive")
	}

	if c.Session.SweepInterval < 0 {
		return aerr.ErrInvalidConf.WithUserMsg("session sweep interval can't be negative")
	}

	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"*"}
	}

	return nil
}

// UseSecureCookie return true when cookie should be marked as Secure; only
// production mode set it.
func (c *ServerConf) UseSecureCookie() bool {
	return c.Mode == ModeProduction
}

func (c *ServerConf) MarshalZerologObject(event *zerolog.Event) {
	event.Str("address", c.Listen.Address).
		Bool("tls", c.Listen.TLSEnabled()).
		Str("mode", string(c.Mode)).
		Object("admin", c.Admin).
		Str("session_cookie", c.Session.CookieName).
		Dur("session_ttl", c.Session.TTL).
		Bool("cors", c.EnableCORS).
		Strs("debug", c.DebugFlags)
}

// SessionTTLFromSeconds convert ttl given in seconds.
func SessionTTLFromSeconds(sec int64) time.Duration {
	return time.Duration(sec) * time.Second
}
