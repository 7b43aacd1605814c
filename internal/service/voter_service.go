package service

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"time"

	"evote/internal/auth"
	"evote/internal/cache"
	apperrors "evote/internal/errors"
	"evote/internal/model"
	"evote/internal/repository"
)

// VoterService handles voter profile operations.
type VoterService interface {
	GetProfile(ctx context.Context, id string) (*model.Voter, error)
	List(ctx context.Context, query url.Values) ([]model.Voter, error)
	Delete(ctx context.Context, id string) error
	ToggleRole(ctx context.Context, id string) (*model.Voter, error)
}

type voterService struct {
	repo       repository.VoterRepository
	cache      *cache.Client
	tokenStore auth.TokenStoreInterface
	cacheTTL   time.Duration
}

// NewVoterService creates a new voter service. cache may be nil.
func NewVoterService(repo repository.VoterRepository, cache *cache.Client, tokenStore auth.TokenStoreInterface, cacheTTL time.Duration) VoterService {
	return &voterService{
		repo:       repo,
		cache:      cache,
		tokenStore: tokenStore,
		cacheTTL:   cacheTTL,
	}
}

func (s *voterService) cacheKey(id string) string {
	return fmt.Sprintf("voter:%s", id)
}

// GetProfile retrieves a voter by ID with caching.
func (s *voterService) GetProfile(ctx context.Context, id string) (*model.Voter, error) {
	var cached model.Voter
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	voter, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrap("find voter", err)
	}

	s.cache.SetJSON(ctx, s.cacheKey(id), voter, s.cacheTTL)
	return voter, nil
}

// List returns voters matching every query parameter exactly.
func (s *voterService) List(ctx context.Context, query url.Values) ([]model.Voter, error) {
	filter, err := ParseVoterFilter(query)
	if err != nil {
		return nil, err
	}
	voters, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, wrap("list voters", err)
	}
	return voters, nil
}

// Delete removes a voter and revokes the credentials issued to them.
func (s *voterService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return wrap("delete voter", err)
	}
	s.forget(ctx, id)
	return nil
}

// ToggleRole flips the voter between the voter and admin roles. Credentials
// carrying the previous role stop working.
func (s *voterService) ToggleRole(ctx context.Context, id string) (*model.Voter, error) {
	voter, err := s.repo.ToggleRole(ctx, id)
	if err != nil {
		return nil, wrap("toggle role", err)
	}
	s.forget(ctx, id)
	return voter, nil
}

func (s *voterService) forget(ctx context.Context, id string) {
	if err := s.tokenStore.RevokeVoter(ctx, id, time.Now()); err != nil {
		log.Printf("revoke credentials for voter %s: %v", id, err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
}

// ParseVoterFilter turns query parameters into an exact-match filter. Unknown
// fields and non-numeric values for numeric fields are rejected with
// ErrInvalidArgument. Only the first value of a repeated parameter is used.
func ParseVoterFilter(query url.Values) (model.VoterFilter, error) {
	filter := model.VoterFilter{}
	for field, values := range query {
		numeric, ok := model.VoterFilterFields[field]
		if !ok {
			return nil, fmt.Errorf("%w: unknown filter field %q", apperrors.ErrInvalidArgument, field)
		}
		if len(values) == 0 {
			continue
		}
		if !numeric {
			filter[field] = values[0]
			continue
		}
		n, err := strconv.Atoi(values[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a number", apperrors.ErrInvalidArgument, field)
		}
		filter[field] = n
	}
	return filter, nil
}
