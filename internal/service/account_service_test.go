package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackw9829/academic-tracker/internal/models"
	"github.com/jackw9829/academic-tracker/internal/service/integration"
)

type fakeIdentityProvider struct {
	tokens    map[string]*models.Identity
	createErr error
	nextID    string
}

func (f *fakeIdentityProvider) Resolve(_ context.Context, accessToken string) (*models.Identity, error) {
	identity, ok := f.tokens[accessToken]
	if !ok {
		return nil, integration.ErrTokenRejected
	}
	return identity, nil
}

func (f *fakeIdentityProvider) CreateUser(_ context.Context, email, _, _, _ string) (*models.Identity, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Identity{ID: f.nextID, Email: email}, nil
}

func TestAccountService_Signup(t *testing.T) {
	env := newTestEnv(t)
	provider := &fakeIdentityProvider{nextID: "u1"}
	svc := NewAccountService(env.userRepo, provider, zerolog.Nop())
	ctx := context.Background()

	user, err := svc.Signup(ctx, &models.SignupRequest{
		Email:    "sam@example.com",
		Password: "password123",
		Name:     "Sam Student",
		Role:     "student",
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "student", user.Role)

	// Профиль записан в store
	saved, err := env.userRepo.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "Sam Student", saved.Name)
}

func TestAccountService_SignupValidation(t *testing.T) {
	env := newTestEnv(t)

	t.Run("invalid role", func(t *testing.T) {
		svc := NewAccountService(env.userRepo, &fakeIdentityProvider{nextID: "u1"}, zerolog.Nop())
		_, err := svc.Signup(context.Background(), &models.SignupRequest{
			Email: "x@example.com", Password: "password123", Name: "X", Role: "superuser",
		})
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})

	t.Run("provider failure maps to upstream", func(t *testing.T) {
		provider := &fakeIdentityProvider{createErr: errors.New("boom")}
		svc := NewAccountService(env.userRepo, provider, zerolog.Nop())
		_, err := svc.Signup(context.Background(), &models.SignupRequest{
			Email: "x@example.com", Password: "password123", Name: "X", Role: "student",
		})
		assert.True(t, errors.Is(err, ErrUpstream))
	})
}

func TestAccountService_GetProfileFallsBackToStudent(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAccountService(env.userRepo, &fakeIdentityProvider{}, zerolog.Nop())

	user, err := svc.GetProfile(context.Background(), &models.Identity{ID: "ghost", Email: "ghost@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "ghost", user.ID)
	assert.Equal(t, models.RoleStudent.String(), user.Role)
}

func TestResolveToken(t *testing.T) {
	env := newTestEnv(t)
	provider := &fakeIdentityProvider{
		tokens: map[string]*models.Identity{
			"good-token": {ID: "u1", Email: "sam@example.com"},
		},
	}
	accounts := NewAccountService(env.userRepo, provider, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, env.userRepo.Save(ctx, &models.User{
		ID: "u1", Email: "sam@example.com", Name: "Sam", Role: "instructor",
	}))

	t.Run("valid token resolves actor with stored role", func(t *testing.T) {
		actor, err := ResolveToken(ctx, provider, accounts, "good-token")
		require.NoError(t, err)
		assert.Equal(t, "u1", actor.ID)
		assert.Equal(t, models.RoleInstructor, actor.Role)
	})

	t.Run("rejected token is unauthenticated", func(t *testing.T) {
		_, err := ResolveToken(ctx, provider, accounts, "bad-token")
		assert.True(t, errors.Is(err, ErrUnauthenticated))
	})
}
