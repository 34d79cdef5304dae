package web

//
// login.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/softupkaran/internal/common"
	"gitlab.com/kabes/softupkaran/internal/server/srvsupport"
	"gitlab.com/kabes/softupkaran/internal/service"
	"gitlab.com/kabes/softupkaran/internal/session"
)

const (
	adminPath        = "/admin"
	loginFailurePath = session.LoginPath + "?error=1"
	maxLoginBodySize = 64 << 10
)

type loginPages struct {
	adminSrv *service.AdminAuthSrv
	cookies  session.CookieFactory
	template templates
}

func newLoginPages(i do.Injector) (loginPages, error) {
	return loginPages{
		adminSrv: do.MustInvoke[*service.AdminAuthSrv](i),
		cookies:  do.MustInvoke[session.CookieFactory](i),
		template: do.MustInvoke[templates](i),
	}, nil
}

func (l loginPages) Routes() *chi.Mux {
	r := chi.NewRouter()
	r.Get(`/`, srvsupport.WrapNamed(l.loginPage, "web_login_page"))
	r.Post(`/`, srvsupport.WrapNamed(l.login, "web_login"))

	return r
}

func (l loginPages) logoutHandler() http.HandlerFunc {
	return srvsupport.WrapNamed(l.logout, "web_logout")
}

func (l loginPages) loginPage(_ context.Context, w http.ResponseWriter, r *http.Request,
	logger *zerolog.Logger,
) {
	data := struct {
		Failed bool
	}{r.URL.Query().Get("error") != ""}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := l.template.executeTemplate(w, "login.tmpl", data); err != nil {
		logger.Error().Err(err).Str(common.LogKeyModule, "web").Msg("execute template error")
		srvsupport.WriteInternalError(w, r)
	}
}

func (l loginPages) login(ctx context.Context, w http.ResponseWriter, r *http.Request,
	logger *zerolog.Logger,
) {
	creds, err := readCredentials(w, r)
	if err != nil {
		logger.Warn().Err(err).
			Str(common.LogKeyRemote, r.RemoteAddr).
			Str(common.LogKeyAuthResult, common.LogAuthResultFailed).
			Msg("invalid login request")
		http.Redirect(w, r, loginFailurePath, http.StatusFound)

		return
	}

	token, err := l.adminSrv.Login(ctx, creds.Username, creds.Password)
	if errors.Is(err, common.ErrUnauthorized) {
		logger.Warn().
			Str(common.LogKeyAdminUser, creds.Username).
			Str(common.LogKeyRemote, r.RemoteAddr).
			Str(common.LogKeyAuthResult, common.LogAuthResultFailed).
			Msg("admin login failure")
		http.Redirect(w, r, loginFailurePath, http.StatusFound)

		return
	} else if err != nil {
		srvsupport.CheckAndWriteError(w, r, err)

		return
	}

	http.SetCookie(w, l.cookies.New(token))

	logger.Info().
		Str(common.LogKeyAdminUser, creds.Username).
		Str(common.LogKeyRemote, r.RemoteAddr).
		Str(common.LogKeyAuthResult, common.LogAuthResultSuccess).
		Msg("admin login success")

	http.Redirect(w, r, adminPath, http.StatusFound)
}

func (l loginPages) logout(ctx context.Context, w http.ResponseWriter, r *http.Request,
	logger *zerolog.Logger,
) {
	if token := session.CookieValue(r, l.cookies.Name); token != "" {
		l.adminSrv.Logout(ctx, token)
		logger.Info().Str(common.LogKeyRemote, r.RemoteAddr).Msg("admin logout")
	}

	http.SetCookie(w, l.cookies.Clear())
	http.Redirect(w, r, session.LoginPath, http.StatusFound)
}

//-----------------------------------------------

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// readCredentials load username and password from form or json body.
func readCredentials(w http.ResponseWriter, r *http.Request) (credentials, error) {
	var creds credentials

	mediatype, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediatype == "application/json" {
		dec := json.NewDecoder(io.LimitReader(r.Body, maxLoginBodySize))
		if err := dec.Decode(&creds); err != nil && !errors.Is(err, io.EOF) {
			return creds, err //nolint:wrapcheck
		}

		return creds, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxLoginBodySize)

	if err := r.ParseMultipartForm(maxLoginBodySize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return creds, err //nolint:wrapcheck
	}

	creds.Username = r.PostFormValue("username")
	creds.Password = r.PostFormValue("password")

	return creds, nil
}
