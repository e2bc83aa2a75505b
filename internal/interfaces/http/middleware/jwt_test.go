package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret: "test-secret-key-at-least-32-chars",
		Issuer: "test-issuer",
	})
}

func newTestToken(t *testing.T, svc *auth.JWTService, userID uuid.UUID, isStaff bool, ttl time.Duration) string {
	t.Helper()
	token, err := svc.GenerateToken(userID, isStaff, ttl)
	require.NoError(t, err)
	return token
}

// newAuthRouter mounts the middleware chain in front of a handler echoing the caller
func newAuthRouter(svc *auth.JWTService, guards ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), JWTAuth(JWTMiddlewareConfig{Verifier: svc}))
	handlers := append(guards, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetJWTUserID(c), "is_staff": IsStaff(c)})
	})
	router.Any("/test", handlers...)
	return router
}

func serve(router *gin.Engine, method, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/test", nil)
	if token != "" {
		req.Header.Set(AuthHeaderKey, token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestJWTAuth_ValidToken(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	rec := serve(newAuthRouter(svc), http.MethodGet, BearerPrefix+newTestToken(t, svc, userID, true, time.Minute))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":"`+userID.String()+`","is_staff":true}`, rec.Body.String())
}

func TestJWTAuth_AnonymousPassesThrough(t *testing.T) {
	rec := serve(newAuthRouter(newTestJWTService()), http.MethodGet, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":"","is_staff":false}`, rec.Body.String())
}

func TestJWTAuth_RejectsBadCredentials(t *testing.T) {
	svc := newTestJWTService()
	other := auth.NewJWTService(config.JWTConfig{Secret: "another-secret-key-at-least-32-chars", Issuer: "test-issuer"})

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"not bearer", "Basic dXNlcjpwYXNz", dto.ErrCodeTokenInvalid},
		{"empty bearer", "Bearer ", dto.ErrCodeTokenInvalid},
		{"garbage", "Bearer not.a.token", dto.ErrCodeTokenInvalid},
		{"wrong secret", BearerPrefix + newTestToken(t, other, uuid.New(), false, time.Minute), dto.ErrCodeTokenInvalid},
		{"expired", BearerPrefix + newTestToken(t, svc, uuid.New(), false, -time.Minute), dto.ErrCodeTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(newAuthRouter(svc), http.MethodGet, tt.header)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.code, errorCode(t, rec))
		})
	}
}

func TestRequireAuth(t *testing.T) {
	svc := newTestJWTService()
	router := newAuthRouter(svc, RequireAuth())

	rec := serve(router, http.MethodGet, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, dto.ErrCodeUnauthorized, errorCode(t, rec))

	rec = serve(router, http.MethodGet, BearerPrefix+newTestToken(t, svc, uuid.New(), false, time.Minute))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireStaff(t *testing.T) {
	svc := newTestJWTService()
	router := newAuthRouter(svc, RequireStaff())

	rec := serve(router, http.MethodGet, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(router, http.MethodGet, BearerPrefix+newTestToken(t, svc, uuid.New(), false, time.Minute))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, dto.ErrCodeForbidden, errorCode(t, rec))

	rec = serve(router, http.MethodGet, BearerPrefix+newTestToken(t, svc, uuid.New(), true, time.Minute))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStaffOrReadOnly(t *testing.T) {
	svc := newTestJWTService()
	router := newAuthRouter(svc, StaffOrReadOnly())
	customer := BearerPrefix + newTestToken(t, svc, uuid.New(), false, time.Minute)
	staff := BearerPrefix + newTestToken(t, svc, uuid.New(), true, time.Minute)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "").Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, customer).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodPost, "").Code)
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodDelete, customer).Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodPatch, staff).Code)
}

func TestGetJWTUserUUID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetJWTUserUUID(c)
	assert.False(t, ok)

	id := uuid.New()
	SetPrincipal(c, auth.Principal{UserID: id, IsStaff: true})
	got, ok := GetJWTUserUUID(c)
	assert.True(t, ok)
	assert.Equal(t, id, got)
	assert.Equal(t, id.String(), GetJWTUserID(c))
	assert.True(t, IsStaff(c))
}
