// Package web serve admin pages: login form and admin panel.
package web

//
// web.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/softupkaran/internal/server/srvsupport"
	"gitlab.com/kabes/softupkaran/internal/session"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// WEB handle /admin endpoints.
type WEB struct {
	router *chi.Mux
}

func New(i do.Injector) (WEB, error) {
	auth := do.MustInvoke[*session.Authenticator](i)
	loginPages := do.MustInvoke[loginPages](i)
	indexPage := do.MustInvoke[indexPage](i)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return WEB{}, fmt.Errorf("prepare static fs error: %w", err)
	}

	router := chi.NewRouter()
	router.Use(middleware.NoCache)

	router.Mount("/login", loginPages.Routes())
	router.Post("/logout", loginPages.logoutHandler())

	router.Group(func(r chi.Router) {
		r.Use(auth.Handler)
		r.Get("/", srvsupport.WrapNamed(indexPage.indexPage, "web_index"))
		r.Method(http.MethodGet, "/static/*",
			http.StripPrefix(adminPath+"/static/", http.FileServerFS(static)))
	})

	router.NotFound(srvsupport.NotFound)

	return WEB{router: router}, nil
}

func (w *WEB) Routes() *chi.Mux {
	return w.router
}

//-----------------------------------------------

type templates map[string]*template.Template

var templateFuncs = template.FuncMap{ //nolint:gochecknoglobals
	"formatDateTime": func(t time.Time) string { return t.UTC().Format(time.DateTime) },
}

// newTemplatesI parse every page template (templates/*.tmpl not starting
// with "_") on top of own copy of shared _base templates.
func newTemplatesI(_ do.Injector) (templates, error) {
	base, err := template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/_base*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse base templates error: %w", err)
	}

	pages, err := fs.Glob(templatesFS, "templates/[^_]*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("list templates error: %w", err)
	}

	res := make(templates, len(pages))

	for _, page := range pages {
		tmpl, err := template.Must(base.Clone()).ParseFS(templatesFS, page)
		if err != nil {
			return nil, fmt.Errorf("parse template %q error: %w", page, err)
		}

		res[path.Base(page)] = tmpl
	}

	log.Logger.Debug().Int("count", len(res)).Msg("web: templates loaded")

	return res, nil
}

func (t templates) executeTemplate(wr io.Writer, name string, data any) error {
	tmpl, ok := t[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name) //nolint:err113
	}

	if err := tmpl.ExecuteTemplate(wr, name, data); err != nil {
		return fmt.Errorf("execute template %q error: %w", name, err)
	}

	return nil
}
