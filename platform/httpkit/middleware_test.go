package httpkit

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pipeline_backend/platform/apperr"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "test-secret"

type testJWTConfig struct{}

func (testJWTConfig) GetJWTAccessSecret() string { return testSecret }

func init() {
	gin.SetMode(gin.TestMode)
}

func signTestToken(t *testing.T, sub string, tokenType string, roles []string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   sub,
		"type":  tokenType,
		"roles": roles,
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func newProtectedEngine(mw ...gin.HandlerFunc) *gin.Engine {
	engine := gin.New()
	handlers := append([]gin.HandlerFunc{AuthRequired(testJWTConfig{})}, mw...)
	handlers = append(handlers, func(c *gin.Context) {
		id := MustGetIdentity(c)
		if id == nil {
			return
		}
		OK(c, gin.H{"userId": id.UserID().String(), "admin": id.IsAdmin()})
	})
	engine.GET("/protected", handlers...)
	return engine
}

func doRequest(engine *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestAuthRequired(t *testing.T) {
	engine := newProtectedEngine()
	userID := uuid.New()

	if rec := doRequest(engine, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	if rec := doRequest(engine, signTestToken(t, userID.String(), "refresh", nil)); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for non-access token, got %d", rec.Code)
	}
	if rec := doRequest(engine, signTestToken(t, "not-a-uuid", AccessTokenType, nil)); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid subject, got %d", rec.Code)
	}
	if rec := doRequest(engine, signTestToken(t, userID.String(), AccessTokenType, []string{RoleVendedor})); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for valid token, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	engine := newProtectedEngine(RequireRole(RoleAdmin))
	userID := uuid.New().String()

	if rec := doRequest(engine, signTestToken(t, userID, AccessTokenType, []string{RoleVendedor})); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for vendedor, got %d", rec.Code)
	}
	if rec := doRequest(engine, signTestToken(t, userID, AccessTokenType, []string{RoleAdmin})); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", rec.Code)
	}
}

func TestHandleError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.Validation("select at least one service"), http.StatusBadRequest},
		{apperr.ReferencedInUse("service"), http.StatusConflict},
		{apperr.Forbidden("nope"), http.StatusForbidden},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		if !HandleError(c, tc.err) {
			t.Fatalf("expected error to be handled")
		}
		if rec.Code != tc.want {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.want, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	if HandleError(c, nil) {
		t.Fatal("nil error must not be handled")
	}
}

func TestRateLimit(t *testing.T) {
	engine := gin.New()
	engine.GET("/limited", NewPerMinuteLimiter(2, nil).RateLimit(), func(c *gin.Context) { OK(c, gin.H{}) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/limited", nil))
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("expected [200 200 429], got %v", codes)
	}
}
