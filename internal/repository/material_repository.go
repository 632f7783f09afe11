package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jackw9829/academic-tracker/internal/models"
	"github.com/jackw9829/academic-tracker/internal/store"
)

type MaterialRepository interface {
	Save(ctx context.Context, material *models.Material) error
	GetByID(ctx context.Context, id string) (*models.Material, error)
	GetAll(ctx context.Context) ([]models.Material, error)
}

type materialRepository struct {
	store  store.RecordStore
	logger zerolog.Logger
}

func NewMaterialRepository(store store.RecordStore, logger zerolog.Logger) MaterialRepository {
	return &materialRepository{
		store:  store,
		logger: logger,
	}
}

func (r *materialRepository) Save(ctx context.Context, material *models.Material) error {
	if err := r.store.Put(ctx, models.MaterialKey(material.ID), material); err != nil {
		return fmt.Errorf("failed to save material: %w", err)
	}
	return nil
}

func (r *materialRepository) GetByID(ctx context.Context, id string) (*models.Material, error) {
	material := &models.Material{}
	found, err := r.store.Get(ctx, models.MaterialKey(id), material)
	if err != nil {
		return nil, fmt.Errorf("failed to get material: %w", err)
	}
	if !found {
		return nil, nil
	}
	return material, nil
}

func (r *materialRepository) GetAll(ctx context.Context) ([]models.Material, error) {
	records, err := r.store.ScanPrefix(ctx, models.MaterialKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to scan materials: %w", err)
	}

	materials := make([]models.Material, 0, len(records))
	for _, data := range records {
		var material models.Material
		if err := json.Unmarshal(data, &material); err != nil {
			return nil, fmt.Errorf("failed to unmarshal material: %w", err)
		}
		materials = append(materials, material)
	}

	return materials, nil
}
