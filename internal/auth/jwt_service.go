package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"evote/internal/model"
)

// Claims represents JWT claims. The id and role keys match the credentials
// issued by earlier deployments.
type Claims struct {
	VoterID string     `json:"id"`
	Role    model.Role `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the credential carries the admin role.
func (c *Claims) IsAdmin() bool {
	return c.Role == model.RoleAdmin
}

// JWTService handles JWT token generation and validation.
type JWTService struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewJWTService creates a new JWT service with the given secret. A zero
// expiry issues tokens without an exp claim.
func NewJWTService(secret string, expiry time.Duration) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		expiry: expiry,
		now:    time.Now,
	}
}

// Expiry returns the configured token lifetime.
func (s *JWTService) Expiry() time.Duration {
	return s.expiry
}

// GenerateToken issues a signed credential for the voter.
func (s *JWTService) GenerateToken(voterID string, role model.Role) (string, error) {
	now := s.now()
	claims := &Claims{
		VoterID: voterID,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  voterID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.expiry > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.expiry))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken validates a JWT token and returns the claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.VoterID == "" {
		return nil, errors.New("token has no voter id")
	}

	return claims, nil
}
