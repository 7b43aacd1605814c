package auth

import (
	"context"
	"strconv"
	"time"

	"evote/internal/cache"
)

const revokedKeyPrefix = "revoked_before:voter:"

// TokenStoreInterface defines the interface for credential revocation.
type TokenStoreInterface interface {
	// RevokeVoter voids every credential issued to voterID before at.
	RevokeVoter(ctx context.Context, voterID string, at time.Time) error
	// IsRevoked reports whether a credential issued at issuedAt has been voided.
	IsRevoked(ctx context.Context, voterID string, issuedAt time.Time) (bool, error)
}

// TokenStore keeps revocation markers in Redis.
type TokenStore struct {
	cache *cache.Client
	ttl   time.Duration
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store. Markers live for ttl, which should
// match the token lifetime; zero keeps them until deleted.
func NewTokenStore(cache *cache.Client, ttl time.Duration) *TokenStore {
	return &TokenStore{cache: cache, ttl: ttl}
}

// RevokeVoter stores the revocation cut-off for a voter.
func (s *TokenStore) RevokeVoter(ctx context.Context, voterID string, at time.Time) error {
	key := revokedKeyPrefix + voterID
	return s.cache.Set(ctx, key, []byte(strconv.FormatInt(at.Unix(), 10)), s.ttl)
}

// IsRevoked checks the cut-off for a voter. Tokens carry second precision, so a
// token issued in the same second as the revocation is still accepted.
func (s *TokenStore) IsRevoked(ctx context.Context, voterID string, issuedAt time.Time) (bool, error) {
	key := revokedKeyPrefix + voterID
	data, err := s.cache.Get(ctx, key)
	if err != nil || data == nil {
		return false, nil // Not revoked if error (fail safe)
	}
	cutoff, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return false, nil
	}
	return issuedAt.Unix() < cutoff, nil
}
