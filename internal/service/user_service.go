package service

import (
	"context"
	"strings"

	"votely-be/internal/domain"
	"votely-be/internal/repository"
	"votely-be/internal/service/auth"
	"votely-be/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService handles account signup and login.
type UserService struct {
	users  repository.UserRepository
	tokens *auth.Service
	logger *zap.Logger
}

func NewUserService(users repository.UserRepository, tokens *auth.Service, logger *zap.Logger) *UserService {
	return &UserService{users: users, tokens: tokens, logger: logger}
}

// Signup registers a new voter account and issues a token.
func (s *UserService) Signup(ctx context.Context, req *domain.SignupRequest) (*domain.AuthResponse, error) {
	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		return nil, errors.NewValidationError("Please provide email and password", nil)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, errors.NewInternalError("An unexpected error occurred please try again!", err)
	}
	if existing != nil {
		return nil, errors.NewValidationError("User with email already exists, please login", nil)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, errors.NewInternalError("An unexpected error occurred please try again!", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
		Role:         domain.RoleVoter,
	}

	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error("failed to create user", zap.String("email", email), zap.Error(err))
		return nil, errors.NewInternalError("An unexpected error occurred please try again!", err)
	}

	token, err := s.tokens.IssueToken(user, auth.SignupTokenTTL)
	if err != nil {
		return nil, errors.NewInternalError("An unexpected error occurred please try again!", err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))

	return &domain.AuthResponse{Status: true, User: user, Token: token}, nil
}

// Login verifies credentials, stamps the visit and issues a token.
func (s *UserService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, errors.NewValidationError("Please provide email and password", nil)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, errors.NewInternalError("An unexpected error occurred please try again!", err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("User not found, please signup and try again!")
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		s.logger.Error("failed to verify password", zap.String("user_id", user.ID), zap.Error(err))
		return nil, errors.NewInternalError("An unexpected error occurred please try again!", err)
	}
	if !ok {
		return nil, errors.NewAuthenticationError("Invalid password, please check and try again!")
	}

	if err := s.users.TouchLastVisited(ctx, user.ID); err != nil {
		s.logger.Warn("failed to stamp last visit", zap.String("user_id", user.ID), zap.Error(err))
	}

	token, err := s.tokens.IssueToken(user, auth.LoginTokenTTL)
	if err != nil {
		return nil, errors.NewInternalError("An unexpected error occurred please try again!", err)
	}

	return &domain.AuthResponse{Status: true, User: user, Token: token}, nil
}

// GetUser resolves a user by ID, returning (nil, nil) when unknown.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}
