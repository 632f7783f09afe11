package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jackw9829/academic-tracker/internal/models"
	"github.com/jackw9829/academic-tracker/internal/store"
)

type NotificationRepository interface {
	Save(ctx context.Context, notification *models.Notification) error
	// GetByID ищет сначала среди нотификаций пользователя, затем среди глобальных.
	GetByID(ctx context.Context, userID, id string) (*models.Notification, error)
	GetForUser(ctx context.Context, userID string) ([]models.Notification, error)
}

type notificationRepository struct {
	store  store.RecordStore
	logger zerolog.Logger
}

func NewNotificationRepository(store store.RecordStore, logger zerolog.Logger) NotificationRepository {
	return &notificationRepository{
		store:  store,
		logger: logger,
	}
}

func notificationKey(n *models.Notification) string {
	if n.UserID != "" {
		return models.StudentNotificationKey(n.UserID, n.ID)
	}
	return models.NotificationKey(n.ID)
}

func (r *notificationRepository) Save(ctx context.Context, notification *models.Notification) error {
	if err := r.store.Put(ctx, notificationKey(notification), notification); err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) GetByID(ctx context.Context, userID, id string) (*models.Notification, error) {
	notification := &models.Notification{}

	found, err := r.store.Get(ctx, models.StudentNotificationKey(userID, id), notification)
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	if found {
		return notification, nil
	}

	found, err = r.store.Get(ctx, models.NotificationKey(id), notification)
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	if !found {
		return nil, nil
	}
	return notification, nil
}

// GetForUser возвращает пользовательскую ленту плюс глобальные нотификации.
// Глобальный скан захватывает и пользовательские записи других студентов,
// поэтому фильтруем по пустому UserID.
func (r *notificationRepository) GetForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	var notifications []models.Notification

	userRecords, err := r.store.ScanPrefix(ctx, models.StudentNotificationPrefix(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to scan user notifications: %w", err)
	}
	for _, data := range userRecords {
		var n models.Notification
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, fmt.Errorf("failed to unmarshal notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	globalRecords, err := r.store.ScanPrefix(ctx, models.NotificationKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to scan global notifications: %w", err)
	}
	for _, data := range globalRecords {
		var n models.Notification
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, fmt.Errorf("failed to unmarshal notification: %w", err)
		}
		if n.UserID == "" {
			notifications = append(notifications, n)
		}
	}

	return notifications, nil
}
