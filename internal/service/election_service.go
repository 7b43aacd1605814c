package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"evote/internal/auth"
	"evote/internal/cache"
	apperrors "evote/internal/errors"
	"evote/internal/model"
	"evote/internal/repository"
)

// ElectionService handles elections, their candidates and votes.
type ElectionService interface {
	Create(ctx context.Context, name string) (*model.Election, error)
	Get(ctx context.Context, id string) (*model.Election, error)
	List(ctx context.Context) ([]model.Election, error)
	Stop(ctx context.Context, id string) (*model.Election, error)
	Delete(ctx context.Context, id string) error
	AddCandidate(ctx context.Context, electionID, candidateID string) (*model.Election, error)
	RemoveCandidate(ctx context.Context, electionID, candidateID string) (*model.Election, error)
	Candidates(ctx context.Context, electionID string) ([]model.Candidate, error)
	CastVote(ctx context.Context, caller *auth.Claims, electionID, candidateID, voterID string) (*model.Election, error)
}

type electionService struct {
	repo     repository.ElectionRepository
	cache    *cache.Client
	cacheTTL time.Duration
}

// NewElectionService creates a new election service. cache may be nil.
func NewElectionService(repo repository.ElectionRepository, cache *cache.Client, cacheTTL time.Duration) ElectionService {
	return &electionService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

func (s *electionService) cacheKey(id string) string {
	return fmt.Sprintf("election:%s", id)
}

// Create starts a new ongoing election with no candidates.
func (s *electionService) Create(ctx context.Context, name string) (*model.Election, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: election name is required", apperrors.ErrInvalidArgument)
	}
	election := &model.Election{Name: name}
	if err := s.repo.Create(ctx, election); err != nil {
		return nil, wrap("create election", err)
	}
	return election, nil
}

// Get retrieves an election by ID with caching.
func (s *electionService) Get(ctx context.Context, id string) (*model.Election, error) {
	var cached model.Election
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		cached.Normalize()
		return &cached, nil
	}

	election, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrap("find election", err)
	}

	s.cache.SetJSON(ctx, s.cacheKey(id), election, s.cacheTTL)
	return election, nil
}

func (s *electionService) List(ctx context.Context) ([]model.Election, error) {
	elections, err := s.repo.List(ctx)
	if err != nil {
		return nil, wrap("list elections", err)
	}
	return elections, nil
}

// Stop completes the election. Stopping it again is a no-op.
func (s *electionService) Stop(ctx context.Context, id string) (*model.Election, error) {
	election, err := s.repo.Complete(ctx, id)
	s.invalidate(ctx, id)
	if err != nil {
		return nil, wrap("complete election", err)
	}
	return election, nil
}

func (s *electionService) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	s.invalidate(ctx, id)
	if err != nil {
		return wrap("delete election", err)
	}
	return nil
}

// AddCandidate registers a candidate with zero votes.
func (s *electionService) AddCandidate(ctx context.Context, electionID, candidateID string) (*model.Election, error) {
	candidateID = strings.TrimSpace(candidateID)
	if candidateID == "" {
		return nil, fmt.Errorf("%w: candidateId is required", apperrors.ErrInvalidArgument)
	}
	election, err := s.repo.AddCandidate(ctx, electionID, candidateID)
	s.invalidate(ctx, electionID)
	if err != nil {
		return nil, wrap("add candidate", err)
	}
	return election, nil
}

// RemoveCandidate drops a candidate. Removing an absent candidate is not an error.
func (s *electionService) RemoveCandidate(ctx context.Context, electionID, candidateID string) (*model.Election, error) {
	election, err := s.repo.RemoveCandidate(ctx, electionID, candidateID)
	s.invalidate(ctx, electionID)
	if err != nil {
		return nil, wrap("remove candidate", err)
	}
	return election, nil
}

// Candidates reads the current tally straight from the store.
func (s *electionService) Candidates(ctx context.Context, electionID string) ([]model.Candidate, error) {
	election, err := s.repo.FindByID(ctx, electionID)
	if err != nil {
		return nil, wrap("find election", err)
	}
	return election.Candidates, nil
}

// CastVote records one vote for candidateID on behalf of voterID. Voters can
// only vote as themselves; admins may record a vote for any voter.
func (s *electionService) CastVote(ctx context.Context, caller *auth.Claims, electionID, candidateID, voterID string) (*model.Election, error) {
	if electionID == "" || candidateID == "" || voterID == "" {
		return nil, fmt.Errorf("%w: missing path parameter", apperrors.ErrInvalidArgument)
	}
	if caller == nil || (!caller.IsAdmin() && caller.VoterID != voterID) {
		return nil, apperrors.ErrForbidden
	}

	election, err := s.repo.CastVote(ctx, electionID, candidateID, voterID)
	s.invalidate(ctx, electionID)
	if err != nil {
		return nil, wrap("cast vote", err)
	}
	return election, nil
}

// invalidate drops the cached election. It runs on failure too, since a
// store error may leave the outcome unknown.
func (s *electionService) invalidate(ctx context.Context, id string) {
	_ = s.cache.Delete(ctx, s.cacheKey(id))
}
