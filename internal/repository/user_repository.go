package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jackw9829/academic-tracker/internal/models"
	"github.com/jackw9829/academic-tracker/internal/store"
)

type UserRepository interface {
	Save(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type userRepository struct {
	store  store.RecordStore
	logger zerolog.Logger
}

func NewUserRepository(store store.RecordStore, logger zerolog.Logger) UserRepository {
	return &userRepository{
		store:  store,
		logger: logger,
	}
}

func (r *userRepository) Save(ctx context.Context, user *models.User) error {
	if err := r.store.Put(ctx, models.UserKey(user.ID), user); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	user := &models.User{}
	found, err := r.store.Get(ctx, models.UserKey(id), user)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !found {
		return nil, nil
	}
	return user, nil
}
