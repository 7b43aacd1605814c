package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"evote/internal/model"
)

// MockVoterRepository is a mock implementation of VoterRepository.
type MockVoterRepository struct {
	mock.Mock
}

func (m *MockVoterRepository) Create(ctx context.Context, voter *model.Voter) error {
	args := m.Called(ctx, voter)
	return args.Error(0)
}

func (m *MockVoterRepository) FindByID(ctx context.Context, id string) (*model.Voter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Voter), args.Error(1)
}

func (m *MockVoterRepository) FindByEmail(ctx context.Context, email string) (*model.Voter, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Voter), args.Error(1)
}

func (m *MockVoterRepository) List(ctx context.Context, filter model.VoterFilter) ([]model.Voter, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Voter), args.Error(1)
}

func (m *MockVoterRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVoterRepository) ToggleRole(ctx context.Context, id string) (*model.Voter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Voter), args.Error(1)
}

func (m *MockVoterRepository) Promote(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockElectionRepository is a mock implementation of ElectionRepository.
type MockElectionRepository struct {
	mock.Mock
}

func (m *MockElectionRepository) election(args mock.Arguments) (*model.Election, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Election), args.Error(1)
}

func (m *MockElectionRepository) Create(ctx context.Context, election *model.Election) error {
	args := m.Called(ctx, election)
	return args.Error(0)
}

func (m *MockElectionRepository) FindByID(ctx context.Context, id string) (*model.Election, error) {
	return m.election(m.Called(ctx, id))
}

func (m *MockElectionRepository) List(ctx context.Context) ([]model.Election, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Election), args.Error(1)
}

func (m *MockElectionRepository) Complete(ctx context.Context, id string) (*model.Election, error) {
	return m.election(m.Called(ctx, id))
}

func (m *MockElectionRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockElectionRepository) AddCandidate(ctx context.Context, electionID, candidateID string) (*model.Election, error) {
	return m.election(m.Called(ctx, electionID, candidateID))
}

func (m *MockElectionRepository) RemoveCandidate(ctx context.Context, electionID, candidateID string) (*model.Election, error) {
	return m.election(m.Called(ctx, electionID, candidateID))
}

func (m *MockElectionRepository) CastVote(ctx context.Context, electionID, candidateID, voterID string) (*model.Election, error) {
	return m.election(m.Called(ctx, electionID, candidateID, voterID))
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) RevokeVoter(ctx context.Context, voterID string, at time.Time) error {
	args := m.Called(ctx, voterID, at)
	return args.Error(0)
}

func (m *MockTokenStore) IsRevoked(ctx context.Context, voterID string, issuedAt time.Time) (bool, error) {
	args := m.Called(ctx, voterID, issuedAt)
	return args.Bool(0), args.Error(1)
}
