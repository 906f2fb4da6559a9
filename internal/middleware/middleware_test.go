package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pareto_backend/internal/auth"
	"pareto_backend/internal/logger"
	"pareto_backend/internal/models"
)

func newRouter(tokens *auth.TokenManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger.Init("test")

	r := gin.New()
	r.Use(RequestIDMiddleware(), CORSMiddleware([]string{"https://pareto.test"}))

	staff := r.Group("/admin", AuthMiddleware(tokens), RequirePasswordChanged(), RequireRoles(auth.StaffRoles...))
	staff.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, GetUserID(c)) })

	session := r.Group("/api/v1", AuthMiddleware(tokens), RequirePasswordChanged())
	session.GET("/auth/session", func(c *gin.Context) { c.String(http.StatusOK, string(GetRole(c))) })
	session.GET("/portal/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	session.GET("/portal/auth/session", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func token(t *testing.T, tokens *auth.TokenManager, role models.Role, mustChange bool) string {
	t.Helper()
	user := &models.User{Email: "u@test.com", MustChangePassword: mustChange}
	user.ID = "user-1"
	tok, _, err := tokens.Generate(user, role)
	require.NoError(t, err)
	return tok
}

func serve(r http.Handler, method, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	r := newRouter(tokens)

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/admin/ping", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/admin/ping", "garbage").Code)

	other := auth.NewTokenManager("other-secret", time.Hour)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/admin/ping", token(t, other, models.RoleAdmin, false)).Code)

	rec := serve(r, http.MethodGet, "/admin/ping", token(t, tokens, models.RoleAdmin, false))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", rec.Body.String())
}

func TestRequireRoles(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	r := newRouter(tokens)

	for role, want := range map[models.Role]int{
		models.RoleFellow:     http.StatusForbidden,
		models.RoleAlumni:     http.StatusForbidden,
		models.RoleAdmin:      http.StatusOK,
		models.RoleSuperAdmin: http.StatusOK,
	} {
		assert.Equal(t, want, serve(r, http.MethodGet, "/admin/ping", token(t, tokens, role, false)).Code, role)
	}
}

func TestRequirePasswordChanged(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	r := newRouter(tokens)
	pending := token(t, tokens, models.RoleFellow, true)

	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/api/v1/portal/ping", pending).Code)

	rec := serve(r, http.MethodGet, "/api/v1/auth/session", pending)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fellow", rec.Body.String())

	// only the exact route is exempt, not any path ending like it
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/api/v1/portal/auth/session", pending).Code)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/v1/portal/ping", token(t, tokens, models.RoleFellow, false)).Code)
}

func TestRequestID(t *testing.T) {
	r := newRouter(auth.NewTokenManager("secret", time.Hour))

	rec := serve(r, http.MethodGet, "/api/v1/auth/session", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	r := newRouter(auth.NewTokenManager("secret", time.Hour))

	req := httptest.NewRequest(http.MethodOptions, "/admin/ping", nil)
	req.Header.Set("Origin", "https://pareto.test")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "https://pareto.test", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEqual(t, http.StatusUnauthorized, rec.Code, "preflight never reaches auth")
}
