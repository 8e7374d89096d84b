package server

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/store/memory"
	"github.com/jonathan/interview-coach/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUserService(t *testing.T) (*UserService, *memory.Store) {
	t.Helper()
	st := memory.New()
	return NewUserService(st, &config.PasswordConfig{BcryptCost: 4, Pepper: "pepper"}), st
}

func TestUserService_RegisterCreatesMetrics(t *testing.T) {
	svc, st := setupUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.CreateUserRequest{Name: " Lin ", Email: "Lin@Example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "Lin", user.Name)
	assert.Equal(t, "lin@example.com", user.Email)
	assert.NotEqual(t, "password123", user.PasswordHash)

	metrics, err := st.GetMetrics(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, metrics)
	assert.Empty(t, metrics.Scores)
	assert.Equal(t, types.LevelBeginner, metrics.ProgressLevel)

	_, err = svc.Register(ctx, &types.CreateUserRequest{Name: "Dup", Email: "lin@example.com", Password: "password123"})
	var conflict *types.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestUserService_Login(t *testing.T) {
	svc, _ := setupUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &types.CreateUserRequest{Name: "Lin", Email: "lin@example.com", Password: "password123"})
	require.NoError(t, err)

	user, err := svc.Login(ctx, &types.LoginRequest{Email: "LIN@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "lin@example.com", user.Email)

	var invalid *types.InvalidCredentialsError
	_, err = svc.Login(ctx, &types.LoginRequest{Email: "lin@example.com", Password: "nope-nope"})
	assert.ErrorAs(t, err, &invalid)

	_, err = svc.Login(ctx, &types.LoginRequest{Email: "ghost@example.com", Password: "password123"})
	assert.ErrorAs(t, err, &invalid)
}

func TestUserService_UnknownUser(t *testing.T) {
	svc, _ := setupUserService(t)
	ctx := context.Background()
	var notFound *types.NotFoundError

	_, err := svc.GetProfile(ctx, uuid.New())
	assert.ErrorAs(t, err, &notFound)

	_, err = svc.Performance(ctx, uuid.New())
	assert.ErrorAs(t, err, &notFound)

	_, err = svc.UpdateProfile(ctx, uuid.New(), &types.UpdateProfileRequest{Name: "x"})
	assert.ErrorAs(t, err, &notFound)
}

func TestUserService_UpdateProfileKeepsEmptyFields(t *testing.T) {
	svc, _ := setupUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.CreateUserRequest{Name: "Lin", Email: "lin@example.com", Password: "password123"})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, user.ID, &types.UpdateProfileRequest{Email: "New@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Lin", updated.Name)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.Equal(t, user.PasswordHash, updated.PasswordHash)

	_, err = svc.Login(ctx, &types.LoginRequest{Email: "new@example.com", Password: "password123"})
	assert.NoError(t, err)
}
