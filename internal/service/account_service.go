package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jackw9829/academic-tracker/internal/models"
	"github.com/jackw9829/academic-tracker/internal/repository"
	"github.com/jackw9829/academic-tracker/internal/service/integration"
)

type AccountService interface {
	Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error)
	// ResolveActor превращает проверенную identity в актора с ролью.
	// Отсутствующий профиль — задокументированный fallback на роль student.
	ResolveActor(ctx context.Context, identity *models.Identity) (*models.Actor, error)
	GetProfile(ctx context.Context, identity *models.Identity) (*models.User, error)
}

type accountService struct {
	userRepo repository.UserRepository
	identity integration.IdentityProvider
	logger   zerolog.Logger
}

func NewAccountService(
	userRepo repository.UserRepository,
	identity integration.IdentityProvider,
	logger zerolog.Logger,
) AccountService {
	return &accountService{
		userRepo: userRepo,
		identity: identity,
		logger:   logger,
	}
}

func (s *accountService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	if !models.IsValidRole(req.Role) {
		return nil, fmt.Errorf("%w: invalid role", ErrInvalidInput)
	}

	created, err := s.identity.CreateUser(ctx, req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		s.logger.Error().Err(err).Str("email", req.Email).Msg("Failed to create user in identity provider")
		return nil, fmt.Errorf("%w: identity provider", ErrUpstream)
	}

	user := &models.User{
		ID:        created.ID,
		Email:     req.Email,
		Name:      req.Name,
		Role:      req.Role,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user profile: %w", err)
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("role", user.Role).
		Msg("User signed up")

	return user, nil
}

func (s *accountService) GetProfile(ctx context.Context, identity *models.Identity) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}
	if user == nil {
		// Fallback-политика: профиль ещё не записан — считаем пользователя
		// студентом, не ошибкой
		return &models.User{
			ID:    identity.ID,
			Email: identity.Email,
			Role:  models.RoleStudent.String(),
		}, nil
	}
	return user, nil
}

func (s *accountService) ResolveActor(ctx context.Context, identity *models.Identity) (*models.Actor, error) {
	if identity == nil || identity.ID == "" {
		return nil, ErrUnauthenticated
	}

	user, err := s.GetProfile(ctx, identity)
	if err != nil {
		return nil, err
	}

	role := models.Role(user.Role)
	if !models.IsValidRole(user.Role) {
		role = models.RoleStudent
	}

	return &models.Actor{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  role,
	}, nil
}

// ResolveToken проверяет bearer токен у identity provider и возвращает актора.
func ResolveToken(ctx context.Context, provider integration.IdentityProvider, accounts AccountService, accessToken string) (*models.Actor, error) {
	identity, err := provider.Resolve(ctx, accessToken)
	if err != nil {
		if errors.Is(err, integration.ErrTokenRejected) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("%w: identity provider", ErrUpstream)
	}

	return accounts.ResolveActor(ctx, identity)
}
