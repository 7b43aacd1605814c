package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"evote/internal/auth"
	apperrors "evote/internal/errors"
	"evote/internal/model"
)

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockVoterRepository)
		expectedError error
	}{
		{
			name:     "successful registration",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(m *MockVoterRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, apperrors.ErrVoterNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Voter")).Return(nil)
			},
		},
		{
			name:     "email already registered",
			email:    "existing@example.com",
			password: "password123",
			setupMock: func(m *MockVoterRepository) {
				m.On("FindByEmail", mock.Anything, "existing@example.com").Return(&model.Voter{Email: "existing@example.com"}, nil)
			},
			expectedError: apperrors.ErrDuplicateEmail,
		},
		{
			name:     "lost registration race",
			email:    "race@example.com",
			password: "password123",
			setupMock: func(m *MockVoterRepository) {
				m.On("FindByEmail", mock.Anything, "race@example.com").Return(nil, apperrors.ErrVoterNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Voter")).Return(apperrors.ErrDuplicateEmail)
			},
			expectedError: apperrors.ErrDuplicateEmail,
		},
		{
			name:          "missing password",
			email:         "test@example.com",
			setupMock:     func(m *MockVoterRepository) {},
			expectedError: apperrors.ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockVoterRepository)
			tt.setupMock(mockRepo)

			service := NewAuthService(mockRepo, auth.NewJWTService("test-secret", 0))
			input := &model.Voter{Name: "Test User", Email: tt.email, Role: model.RoleAdmin}
			voter, err := service.Register(context.Background(), input, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, voter)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.email, voter.Email)
				assert.Equal(t, model.RoleVoter, voter.Role, "registration never grants admin")
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(voter.PasswordHash), []byte(tt.password)))
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	stored := &model.Voter{ID: "voter-1", Email: "test@example.com", PasswordHash: string(hashedPassword), Role: model.RoleAdmin}

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockVoterRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(m *MockVoterRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(stored, nil)
			},
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "wrong",
			setupMock: func(m *MockVoterRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(stored, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "password123",
			setupMock: func(m *MockVoterRepository) {
				m.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, apperrors.ErrVoterNotFound)
			},
			expectedError: apperrors.ErrVoterNotFound,
		},
		{
			name:     "store failure",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(m *MockVoterRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, errors.New("connection refused"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockVoterRepository)
			tt.setupMock(mockRepo)
			jwtService := auth.NewJWTService("test-secret", 0)

			service := NewAuthService(mockRepo, jwtService)
			token, voter, err := service.Login(context.Background(), tt.email, tt.password)

			switch {
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
			case tt.name == "store failure":
				require.Error(t, err)
				assert.True(t, apperrors.IsInternal(err))
			default:
				require.NoError(t, err)
				assert.Equal(t, "voter-1", voter.ID)
				claims, err := jwtService.ValidateToken(token)
				require.NoError(t, err)
				assert.Equal(t, "voter-1", claims.VoterID)
				assert.Equal(t, model.RoleAdmin, claims.Role)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}
