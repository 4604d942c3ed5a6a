package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pipeline_backend/internal/auth/token"
	apphttp "pipeline_backend/internal/http"
	"pipeline_backend/platform/httpkit"
	"pipeline_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const testSecret = "router-test-secret"

type testConfig struct{}

func (testConfig) GetHTTPAddr() string           { return ":0" }
func (testConfig) GetCORSAllowAll() bool         { return false }
func (testConfig) GetCORSOrigins() []string      { return []string{"http://localhost:5173"} }
func (testConfig) GetCORSAllowCreds() bool       { return true }
func (testConfig) GetPublicIntakePerMinute() int { return 1 }
func (testConfig) GetJWTAccessSecret() string    { return testSecret }

type probeModule struct{}

func (probeModule) Name() string { return "probe" }

func (probeModule) RegisterRoutes(ctx *apphttp.RouterContext) {
	ok := func(c *gin.Context) { httpkit.OK(c, gin.H{"ok": true}) }
	ctx.Public.POST("/probe", ok)
	ctx.Protected.GET("/probe", ok)
	ctx.Admin.GET("/probe", ok)
}

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return New(&apphttp.App{
		Config:  testConfig{},
		Logger:  logger.Discard(),
		Modules: []apphttp.Module{probeModule{}},
	})
}

func bearer(t *testing.T, roles ...string) string {
	t.Helper()
	raw, _, err := token.NewIssuer(testSecret, time.Hour).Issue(uuid.New(), roles)
	if err != nil {
		t.Fatalf("expected token, got %v", err)
	}
	return "Bearer " + raw
}

func serve(engine *gin.Engine, method, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestRouteGroupsEnforceRoles(t *testing.T) {
	engine := newTestEngine(t)

	cases := []struct {
		name   string
		path   string
		auth   string
		status int
	}{
		{"protected without token", "/api/v1/probe", "", http.StatusUnauthorized},
		{"protected as vendedor", "/api/v1/probe", bearer(t, httpkit.RoleVendedor), http.StatusOK},
		{"protected without a role", "/api/v1/probe", bearer(t), http.StatusForbidden},
		{"admin as vendedor", "/api/v1/admin/probe", bearer(t, httpkit.RoleVendedor), http.StatusForbidden},
		{"admin as admin", "/api/v1/admin/probe", bearer(t, httpkit.RoleAdmin), http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(engine, http.MethodGet, tc.path, tc.auth)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestPublicGroupIsRateLimited(t *testing.T) {
	engine := newTestEngine(t)

	if rec := serve(engine, http.MethodPost, "/api/v1/public/probe", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", rec.Code)
	}
	if rec := serve(engine, http.MethodPost, "/api/v1/public/probe", ""); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be limited, got %d", rec.Code)
	}
}

func TestHealthAndRequestID(t *testing.T) {
	engine := newTestEngine(t)

	rec := serve(engine, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if _, err := uuid.Parse(rec.Header().Get(httpkit.HeaderRequestID)); err != nil {
		t.Fatalf("expected a generated request id, got %q", rec.Header().Get(httpkit.HeaderRequestID))
	}
}
