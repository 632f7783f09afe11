package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jackw9829/academic-tracker/internal/models"
	"github.com/jackw9829/academic-tracker/internal/repository"
	"github.com/jackw9829/academic-tracker/internal/service/integration"
)

type NotificationService interface {
	// Emit пишет нотификацию в store и best-effort публикует событие в брокер.
	// userID == "" означает глобальную (broadcast) нотификацию.
	Emit(ctx context.Context, userID, notifType, message, targetID string) error
	ListForUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, id string) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	publisher        integration.EventPublisher
	logger           zerolog.Logger
}

func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	publisher integration.EventPublisher,
	logger zerolog.Logger,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		publisher:        publisher,
		logger:           logger,
	}
}

func (s *notificationService) Emit(ctx context.Context, userID, notifType, message, targetID string) error {
	notification := &models.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      notifType,
		Message:   message,
		TargetID:  targetID,
		Read:      false,
		Timestamp: time.Now().UTC(),
	}

	if err := s.notificationRepo.Save(ctx, notification); err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}

	if s.publisher != nil {
		event := &models.NotificationEvent{
			NotificationID: notification.ID,
			UserID:         userID,
			Type:           notifType,
			Message:        message,
			TargetID:       targetID,
			Timestamp:      notification.Timestamp.Unix(),
		}
		if err := s.publisher.PublishNotification(ctx, event); err != nil {
			// Лента в store — источник истины, потерю события только логируем
			s.logger.Error().Err(err).Str("type", notifType).Msg("Failed to publish notification event")
		}
	}

	s.logger.Info().
		Str("notification_id", notification.ID).
		Str("user_id", userID).
		Str("type", notifType).
		Msg("Notification emitted")

	return nil
}

func (s *notificationService) ListForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	notifications, err := s.notificationRepo.GetForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].Timestamp.After(notifications[j].Timestamp)
	})

	return notifications, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, id string) error {
	notification, err := s.notificationRepo.GetByID(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to get notification: %w", err)
	}
	if notification == nil {
		return fmt.Errorf("notification %w", ErrNotFound)
	}

	notification.Read = true
	if err := s.notificationRepo.Save(ctx, notification); err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}

	return nil
}
