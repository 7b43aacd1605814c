package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"evote/internal/auth"
	apperrors "evote/internal/errors"
	"evote/internal/model"
	"evote/internal/repository"
)

const bcryptCost = 10

// AuthService handles voter registration and login.
type AuthService interface {
	Register(ctx context.Context, voter *model.Voter, password string) (*model.Voter, error)
	Login(ctx context.Context, email, password string) (token string, voter *model.Voter, err error)
}

type authService struct {
	voterRepo  repository.VoterRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(voterRepo repository.VoterRepository, jwtService *auth.JWTService) AuthService {
	return &authService{
		voterRepo:  voterRepo,
		jwtService: jwtService,
	}
}

// Register creates a new voter with a hashed password. New voters always
// start with the voter role.
func (s *authService) Register(ctx context.Context, voter *model.Voter, password string) (*model.Voter, error) {
	voter.Email = strings.TrimSpace(voter.Email)
	if voter.Email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", apperrors.ErrInvalidArgument)
	}

	// Check if the email is already taken
	existing, err := s.voterRepo.FindByEmail(ctx, voter.Email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrDuplicateEmail
	}
	if err != nil && !errors.Is(err, apperrors.ErrVoterNotFound) {
		return nil, fmt.Errorf("check voter existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	voter.ID = ""
	voter.PasswordHash = string(hashedPassword)
	voter.Role = model.RoleVoter

	// A concurrent registration can still win the race; the unique index
	// reports it as ErrDuplicateEmail.
	if err := s.voterRepo.Create(ctx, voter); err != nil {
		return nil, wrap("create voter", err)
	}

	return voter, nil
}

// Login verifies the password and issues a signed credential.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.Voter, error) {
	voter, err := s.voterRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", nil, wrap("find voter", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(voter.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(voter.ID, voter.Role)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	return token, voter, nil
}

// wrap adds context to infrastructure errors and passes domain errors through
// untouched so their message reaches the client as is.
func wrap(op string, err error) error {
	if apperrors.IsInternal(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return err
}
