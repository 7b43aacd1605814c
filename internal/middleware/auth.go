package middleware

import (
	"errors"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"evote/internal/auth"
	apperrors "evote/internal/errors"
)

// IdentityKey is the echo context key holding the caller's *auth.Claims.
const IdentityKey = "identity"

var errRevoked = errors.New("credential revoked")

// Authenticate verifies the raw Authorization header value as a signed
// credential and stores the decoded claims under IdentityKey. A missing
// header yields 401 MISSING_CREDENTIAL; anything that fails verification,
// including a revoked credential, yields 401 INVALID_CREDENTIAL.
func Authenticate(jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  IdentityKey,
		TokenLookup: "header:" + echo.HeaderAuthorization,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := jwtService.ValidateToken(token)
			if err != nil {
				return nil, err
			}
			var issuedAt time.Time
			if claims.IssuedAt != nil {
				issuedAt = claims.IssuedAt.Time
			}
			revoked, err := tokenStore.IsRevoked(c.Request().Context(), claims.VoterID, issuedAt)
			if err != nil {
				return nil, err
			}
			if revoked {
				return nil, errRevoked
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
				return httpError(apperrors.ErrMissingCredential)
			}
			return httpError(apperrors.ErrInvalidCredential)
		},
	})
}

// RequireAdmin stops the chain with 403 FORBIDDEN unless the authenticated
// caller holds the admin role. It must run after Authenticate.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := IdentityFrom(c)
		if claims == nil || !claims.IsAdmin() {
			return httpError(apperrors.ErrForbidden)
		}
		return next(c)
	}
}

// IdentityFrom returns the authenticated caller, or nil on public routes.
func IdentityFrom(c echo.Context) *auth.Claims {
	claims, _ := c.Get(IdentityKey).(*auth.Claims)
	return claims
}

func httpError(err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
