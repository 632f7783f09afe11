package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jackw9829/academic-tracker/internal/models"
	"github.com/jackw9829/academic-tracker/internal/repository"
)

type MaterialService interface {
	Upload(ctx context.Context, actor *models.Actor, req *models.UploadMaterialRequest) (*models.Material, error)
	List(ctx context.Context, courseID string) ([]models.Material, error)
	DownloadURL(ctx context.Context, id string) (*models.DownloadResponse, error)
}

type materialService struct {
	materialRepo repository.MaterialRepository
	blobRepo     repository.BlobRepository
	bucket       string
	urlExpiry    time.Duration
	logger       zerolog.Logger
}

func NewMaterialService(
	materialRepo repository.MaterialRepository,
	blobRepo repository.BlobRepository,
	bucket string,
	urlExpiry time.Duration,
	logger zerolog.Logger,
) MaterialService {
	return &materialService{
		materialRepo: materialRepo,
		blobRepo:     blobRepo,
		bucket:       bucket,
		urlExpiry:    urlExpiry,
		logger:       logger,
	}
}

func (s *materialService) Upload(ctx context.Context, actor *models.Actor, req *models.UploadMaterialRequest) (*models.Material, error) {
	if !PolicyAllows(actor.Role, OpUploadMaterial) {
		return nil, fmt.Errorf("%w: instructor or admin role required", ErrForbidden)
	}

	if len(req.FileContent) == 0 || req.Title == "" {
		return nil, fmt.Errorf("%w: file and title are required", ErrInvalidInput)
	}

	objectName := fmt.Sprintf("%d-%s", time.Now().UnixNano(), req.FileName)
	path, err := s.blobRepo.Upload(ctx, s.bucket, objectName, bytes.NewReader(req.FileContent), int64(len(req.FileContent)), req.FileType)
	if err != nil {
		s.logger.Error().Err(err).Str("object", objectName).Msg("Failed to upload material file")
		return nil, fmt.Errorf("%w: blob store upload", ErrUpstream)
	}

	material := &models.Material{
		ID:             uuid.New().String(),
		Title:          req.Title,
		Description:    req.Description,
		CourseID:       req.CourseID,
		FileName:       req.FileName,
		FileSize:       int64(len(req.FileContent)),
		FileType:       req.FileType,
		FilePath:       path,
		UploadedBy:     actor.ID,
		UploadedByName: actor.Name,
		UploadedAt:     time.Now().UTC(),
	}

	if err := s.materialRepo.Save(ctx, material); err != nil {
		return nil, fmt.Errorf("failed to save material: %w", err)
	}

	s.logger.Info().
		Str("material_id", material.ID).
		Str("course_id", material.CourseID).
		Str("uploaded_by", actor.ID).
		Msg("Material uploaded")

	return material, nil
}

func (s *materialService) List(ctx context.Context, courseID string) ([]models.Material, error) {
	materials, err := s.materialRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}

	if courseID != "" {
		filtered := materials[:0]
		for _, m := range materials {
			if m.CourseID == courseID {
				filtered = append(filtered, m)
			}
		}
		materials = filtered
	}

	sort.Slice(materials, func(i, j int) bool {
		return materials[i].UploadedAt.After(materials[j].UploadedAt)
	})

	return materials, nil
}

func (s *materialService) DownloadURL(ctx context.Context, id string) (*models.DownloadResponse, error) {
	material, err := s.materialRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get material: %w", err)
	}
	if material == nil {
		return nil, fmt.Errorf("material %w", ErrNotFound)
	}

	url, err := s.blobRepo.PresignedURL(ctx, s.bucket, material.FilePath, s.urlExpiry)
	if err != nil {
		s.logger.Error().Err(err).Str("material_id", id).Msg("Failed to create signed URL for material")
		return nil, fmt.Errorf("%w: blob store signed URL", ErrUpstream)
	}

	return &models.DownloadResponse{
		URL:      url,
		FileName: material.FileName,
	}, nil
}
