package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evote/internal/auth"
	"evote/internal/cache"
	apperrors "evote/internal/errors"
	"evote/internal/model"
)

func newTestServer(t *testing.T) (*echo.Echo, *auth.JWTService, *auth.TokenStore) {
	t.Helper()
	srv := miniredis.RunT(t)
	jwtService := auth.NewJWTService("test-secret", 0)
	store := auth.NewTokenStore(cache.New(srv.Addr(), "", 0), 0)

	e := echo.New()
	secured := e.Group("", Authenticate(jwtService, store))
	secured.GET("/me", func(c echo.Context) error {
		return c.JSON(http.StatusOK, IdentityFrom(c))
	})
	secured.GET("/admin", func(c echo.Context) error {
		return c.String(http.StatusOK, "admin area")
	}, RequireAdmin)
	return e, jwtService, store
}

func do(e *echo.Echo, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

func TestAuthenticate(t *testing.T) {
	e, jwtService, _ := newTestServer(t)
	valid, err := jwtService.GenerateToken("voter-1", model.RoleVoter)
	require.NoError(t, err)
	foreign, err := auth.NewJWTService("other", 0).GenerateToken("voter-1", model.RoleAdmin)
	require.NoError(t, err)

	tests := []struct {
		name     string
		token    string
		wantCode int
		wantErr  string
	}{
		{"valid raw token", valid, http.StatusOK, ""},
		{"missing header", "", http.StatusUnauthorized, "MISSING_CREDENTIAL"},
		{"garbage", "not-a-token", http.StatusUnauthorized, "INVALID_CREDENTIAL"},
		{"wrong signature", foreign, http.StatusUnauthorized, "INVALID_CREDENTIAL"},
		{"bearer prefix is not stripped", "Bearer " + valid, http.StatusUnauthorized, "INVALID_CREDENTIAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, "/me", tt.token)
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, errorCode(t, rec))
				return
			}
			var claims auth.Claims
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &claims))
			assert.Equal(t, "voter-1", claims.VoterID)
			assert.Equal(t, model.RoleVoter, claims.Role)
		})
	}
}

func TestAuthenticate_RevokedCredential(t *testing.T) {
	e, jwtService, store := newTestServer(t)
	token, err := jwtService.GenerateToken("voter-1", model.RoleVoter)
	require.NoError(t, err)

	require.NoError(t, store.RevokeVoter(t.Context(), "voter-1", time.Now().Add(time.Second)))

	rec := do(e, "/me", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIAL", errorCode(t, rec))
}

func TestRequireAdmin(t *testing.T) {
	e, jwtService, _ := newTestServer(t)
	voterToken, _ := jwtService.GenerateToken("voter-1", model.RoleVoter)
	adminToken, _ := jwtService.GenerateToken("admin-1", model.RoleAdmin)

	rec := do(e, "/admin", voterToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", errorCode(t, rec))

	rec = do(e, "/admin", adminToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin area", rec.Body.String())

	rec = do(e, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
