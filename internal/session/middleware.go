package session

//
// middleware.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"net/http"

	"github.com/munnerz/goautoneg"
	"github.com/rs/zerolog/hlog"
	"gitlab.com/kabes/softupkaran/internal/common"
	"gitlab.com/kabes/softupkaran/internal/server/srvsupport"
)

const LoginPath = "/admin/login"

const (
	reasonNoCookie = "missing session cookie"
	reasonInvalid  = "invalid or expired session"
)

type AuthResult struct {
	Authenticated bool
	// Reason is set for failed authentication; only for logs.
	Reason string
}

// Authenticator check requests against session registry.
type Authenticator struct {
	registry   *Registry
	cookieName string
}

func NewAuthenticator(registry *Registry, cookieName string) *Authenticator {
	return &Authenticator{registry: registry, cookieName: cookieName}
}

// Authenticate check session cookie in request.
func (a *Authenticator) Authenticate(r *http.Request) AuthResult {
	token := CookieValue(r, a.cookieName)
	if token == "" {
		return AuthResult{Reason: reasonNoCookie}
	}

	if !a.registry.IsValid(token) {
		return AuthResult{Reason: reasonInvalid}
	}

	return AuthResult{Authenticated: true}
}

// Handler pass only authenticated requests. Other are redirected to login
// page (html clients) or get 401 json response.
func (a *Authenticator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res := a.Authenticate(r)
		if res.Authenticated {
			next.ServeHTTP(w, r)

			return
		}

		logger := hlog.FromRequest(r)
		logger.Warn().
			Str(common.LogKeyPath, r.URL.Path).
			Str(common.LogKeyRemote, r.RemoteAddr).
			Str(common.LogKeyAuthResult, res.Reason).
			Msg("unauthorized admin access")

		if AcceptsHTML(r.Header.Get("Accept")) {
			http.Redirect(w, r, LoginPath, http.StatusFound)

			return
		}

		srvsupport.WriteError(w, r, http.StatusUnauthorized, common.ErrUnauthorized.String())
	})
}

// AcceptsHTML check is text/html acceptable according to Accept header.
// Empty header accept everything.
func AcceptsHTML(accept string) bool {
	if accept == "" {
		return true
	}

	for _, a := range goautoneg.ParseAccept(accept) {
		if a.Q <= 0 {
			continue
		}

		switch {
		case a.Type == "*" && a.SubType == "*":
			return true
		case a.Type == "text" && (a.SubType == "html" || a.SubType == "*"):
			return true
		}
	}

	return false
}
