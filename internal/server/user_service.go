package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/store"
	"github.com/jonathan/interview-coach/internal/types"
)

// UserStore is the persistence surface UserService needs.
type UserStore interface {
	store.AccountStore
	store.MetricsStore
}

// UserService provides registration, login and profile operations.
type UserService struct {
	store          UserStore
	passwordConfig *config.PasswordConfig
	now            func() time.Time
}

// NewUserService creates a new UserService with the given dependencies.
func NewUserService(s UserStore, passwordConfig *config.PasswordConfig) *UserService {
	return &UserService{store: s, passwordConfig: passwordConfig, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account together with its empty performance record.
func (s *UserService) Register(ctx context.Context, req *types.CreateUserRequest) (*types.User, error) {
	hash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := types.NewUser(strings.TrimSpace(req.Name), normalizeEmail(req.Email), hash, now)
	metrics := types.NewPerformanceMetrics(user.ID, now)

	if err := s.store.CreateAccount(ctx, user, metrics); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return nil, &types.ConflictError{Message: "user already exists"}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login authenticates a user. Unknown email and wrong password return the
// same error.
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.User, error) {
	user, err := s.store.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	if user == nil || !s.passwordConfig.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, &types.InvalidCredentialsError{}
	}
	return user, nil
}

// GetProfile returns the user's account record.
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, &types.NotFoundError{Resource: "user", ID: userID}
	}
	return user, nil
}

// UpdateProfile changes name, email and password. Empty fields keep their
// current value.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*types.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	if req.Email != "" {
		user.Email = normalizeEmail(req.Email)
	}
	if req.Password != "" {
		hash, err := s.passwordConfig.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.store.UpdateProfile(ctx, user); err != nil {
		switch {
		case errors.Is(err, store.ErrEmailTaken):
			return nil, &types.ConflictError{Message: "email already in use"}
		case errors.Is(err, store.ErrNotFound):
			return nil, &types.NotFoundError{Resource: "user", ID: userID}
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// Performance returns the user's metrics record.
func (s *UserService) Performance(ctx context.Context, userID uuid.UUID) (*types.PerformanceMetrics, error) {
	metrics, err := s.store.GetMetrics(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get performance metrics: %w", err)
	}
	if metrics == nil {
		return nil, &types.NotFoundError{Resource: "performance metrics", ID: userID}
	}
	return metrics, nil
}
