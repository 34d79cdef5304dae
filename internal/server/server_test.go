package server

//
// server_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"

	"gitlab.com/kabes/softupkaran/internal/api"
	"gitlab.com/kabes/softupkaran/internal/assert"
	"gitlab.com/kabes/softupkaran/internal/config"
	"gitlab.com/kabes/softupkaran/internal/infra"
	"gitlab.com/kabes/softupkaran/internal/repository"
	"gitlab.com/kabes/softupkaran/internal/service"
	"gitlab.com/kabes/softupkaran/internal/session"
	"gitlab.com/kabes/softupkaran/internal/web"
)

func prepareServer(t *testing.T, modify func(*config.ServerConf)) (http.Handler, do.Injector) {
	t.Helper()

	ctx := log.Logger.WithContext(context.Background())
	i := do.New(infra.Package, service.Package, session.Package, api.Package, web.Package, Package)

	cfg := &config.ServerConf{
		Listen:      config.ListenConf{Address: ":0"},
		Admin:       config.AdminConf{User: "admin", Password: "secret"},
		Session:     config.SessionConf{CookieName: "sid", TTL: time.Hour},
		EnableCORS:  true,
		CORSOrigins: []string{"*"},
	}
	if modify != nil {
		modify(cfg)
	}

	do.ProvideValue(i, config.NewDBConfig(config.DriverSqlite, ":memory:"))
	do.ProvideValue(i, cfg)

	db := do.MustInvoke[repository.Database](i)
	if _, err := db.Open(ctx); err != nil {
		t.Fatalf("connect to db error: %#+v", err)
	}

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("prepare db error: %#+v", err)
	}

	t.Cleanup(func() { _ = i.Shutdown() })

	srv := do.MustInvoke[*Server](i)

	return srv.Handler(), i
}

func serve(handler http.Handler, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func TestServerRoutes(t *testing.T) {
	handler, _ := prepareServer(t, nil)

	rec := serve(handler, http.MethodGet, "/api/health", nil)
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Contains(t, rec.Body.String(), `"service":"softupkaran-backend"`)
	assert.True(t, rec.Header().Get("Request-Id") != "")

	rec = serve(handler, http.MethodGet, "/ping", nil)
	assert.Equal(t, rec.Code, http.StatusOK)

	rec = serve(handler, http.MethodGet, "/", nil)
	assert.Equal(t, rec.Code, http.StatusFound)
	assert.Equal(t, rec.Header().Get("Location"), "/admin")

	rec = serve(handler, http.MethodGet, "/admin", map[string]string{"Accept": "text/html"})
	assert.Equal(t, rec.Code, http.StatusFound)
	assert.Equal(t, rec.Header().Get("Location"), "/admin/login")

	rec = serve(handler, http.MethodGet, "/admin/login", nil)
	assert.Equal(t, rec.Code, http.StatusOK)

	rec = serve(handler, http.MethodGet, "/api/users", map[string]string{"Accept": "application/json"})
	assert.Equal(t, rec.Code, http.StatusUnauthorized)

	rec = serve(handler, http.MethodGet, "/not-existing", nil)
	assert.Equal(t, rec.Code, http.StatusNotFound)
	assert.Contains(t, rec.Body.String(), `"ok":false`)
}

func TestServerAuthenticatedAPI(t *testing.T) {
	handler, i := prepareServer(t, nil)

	token := do.MustInvoke[*session.Registry](i).Create()

	rec := serve(handler, http.MethodGet, "/api/users", map[string]string{
		"Accept": "application/json", "Cookie": "other=1; sid=" + token,
	})
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Contains(t, rec.Body.String(), `"count":0`)
}

func TestServerCORS(t *testing.T) {
	handler, _ := prepareServer(t, nil)

	rec := serve(handler, http.MethodOptions, "/api/signup", map[string]string{
		"Origin":                        "https://example.com",
		"Access-Control-Request-Method": http.MethodPost,
	})
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Equal(t, rec.Header().Get("Access-Control-Allow-Origin"), "*")
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)

	// admin pages are not covered by cors
	rec = serve(handler, http.MethodGet, "/admin/login", map[string]string{"Origin": "https://example.com"})
	assert.Equal(t, rec.Header().Get("Access-Control-Allow-Origin"), "")
}

func TestServerCORSDisabled(t *testing.T) {
	handler, _ := prepareServer(t, func(c *config.ServerConf) { c.EnableCORS = false })

	rec := serve(handler, http.MethodGet, "/api/health", map[string]string{"Origin": "https://example.com"})
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Equal(t, rec.Header().Get("Access-Control-Allow-Origin"), "")
}

func TestServerSecurityHeaders(t *testing.T) {
	handler, _ := prepareServer(t, func(c *config.ServerConf) { c.SetSecurityHeaders = true })

	rec := serve(handler, http.MethodGet, "/api/health", nil)
	assert.Equal(t, rec.Header().Get("X-Content-Type-Options"), "nosniff")
	assert.Equal(t, rec.Header().Get("X-Frame-Options"), "DENY")
	assert.Equal(t, rec.Header().Get("Strict-Transport-Security"), "")
}

func TestServerMetricsEndpoint(t *testing.T) {
	handler, i := prepareServer(t, nil)

	do.MustInvoke[*session.Registry](i).Create()
	serve(handler, http.MethodGet, "/api/health", nil)

	rec := serve(handler, http.MethodGet, "/metrics", nil)
	assert.Equal(t, rec.Code, http.StatusOK)

	body := rec.Body.String()
	assert.Contains(t, body, "softupkaran_backend_active_sessions 1")
	assert.Contains(t, body, `softupkaran_backend_requests_total{method="GET",route="/api/health",statusCode="200"} 1`)
	assert.Contains(t, body, "softupkaran_backend_request_duration_seconds_bucket")
	assert.Contains(t, body, "softupkaran_backend_go_goroutines")
	assert.Contains(t, body, "go_sql_open_connections")
	assert.True(t, !strings.Contains(body, "\ngo_goroutines"))
}

func TestNewListener(t *testing.T) {
	cfg := config.ListenConf{Address: "127.0.0.1:0", MaxConnections: 2}

	listener, err := newListener(t.Context(), &cfg)
	assert.NoErr(t, err)
	assert.NoErr(t, listener.Close())

	cfg = config.ListenConf{Address: "127.0.0.1:0", TLSKey: "missing.key", TLSCert: "missing.crt"}
	_, err = newListener(t.Context(), &cfg)
	assert.Err(t, err)
}

func TestServerStartShutdown(t *testing.T) {
	ctx := log.Logger.WithContext(context.Background())
	_, i := prepareServer(t, func(c *config.ServerConf) { c.Listen.Address = "127.0.0.1:0" })

	srv := do.MustInvoke[*Server](i)
	assert.NoErr(t, srv.Start(ctx))

	sctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	assert.NoErr(t, srv.Shutdown(sctx))
}

func TestServerLoginFlow(t *testing.T) {
	handler, _ := prepareServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/admin/login",
		strings.NewReader(`{"username":"admin","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, rec.Code, http.StatusFound)
	assert.Equal(t, rec.Header().Get("Location"), "/admin")

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected session cookie, got %v", rec.Header())
	}

	cookie := cookies[0].Name + "=" + cookies[0].Value

	rec = serve(handler, http.MethodGet, "/api/users", map[string]string{"Cookie": cookie})
	assert.Equal(t, rec.Code, http.StatusOK)

	rec = serve(handler, http.MethodGet, "/api/export?format=xml", map[string]string{"Cookie": cookie})
	assert.Equal(t, rec.Code, http.StatusBadRequest)

	rec = serve(handler, http.MethodGet, "/api/export?format=csv", map[string]string{"Cookie": cookie})
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "name,email,whatsapp,telegram,createdAt,id\n"))

	req = httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	req.Header.Set("Cookie", cookie)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, rec.Code, http.StatusFound)

	rec = serve(handler, http.MethodGet, "/api/users", map[string]string{"Cookie": cookie, "Accept": "application/json"})
	assert.Equal(t, rec.Code, http.StatusUnauthorized)
}
