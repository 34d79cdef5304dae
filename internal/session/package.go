package session

//
// package.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"github.com/samber/do/v2"
	"gitlab.com/kabes/softupkaran/internal/config"
)

var Package = do.Package(
	do.Lazy(func(i do.Injector) (*Registry, error) {
		cfg := do.MustInvoke[*config.ServerConf](i)

		return NewRegistry(cfg.Session.TTL)
	}),
	do.Lazy(func(i do.Injector) (*Authenticator, error) {
		cfg := do.MustInvoke[*config.ServerConf](i)

		return NewAuthenticator(do.MustInvoke[*Registry](i), cfg.Session.CookieName), nil
	}),
	do.Lazy(func(i do.Injector) (CookieFactory, error) {
		cfg := do.MustInvoke[*config.ServerConf](i)

		return CookieFactory{Name: cfg.Session.CookieName, Secure: cfg.UseSecureCookie()}, nil
	}),
)
