package notification

import (
	"Mumkin/internal/app_errors"
	"Mumkin/internal/models"
	"Mumkin/internal/storage/realtime"
	"Mumkin/pkg/logger"
	"context"
	"fmt"

	"github.com/google/uuid"
)

type notificationRepo interface {
	ForUser(ctx context.Context, userID uuid.UUID) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error
}

type subscriber interface {
	Subscribe(ctx context.Context, table, owner string) (<-chan realtime.Event, func() error, error)
}

type NotificationService struct {
	log  logger.Log
	repo notificationRepo
	feed subscriber
}

func NewNotificationService(log logger.Log, repo notificationRepo, feed subscriber) *NotificationService {
	return &NotificationService{log: log, repo: repo, feed: feed}
}

// ForUser returns the user's notifications, newest first.
func (s *NotificationService) ForUser(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	items, err := s.repo.ForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch notifications: %w", err)
	}
	if items == nil {
		items = []models.Notification{}
	}
	return items, nil
}

// MarkAllRead marks every unread notification of the user as read and
// returns how many were marked.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error) {
	items, err := s.ForUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	ids := unreadIDs(items)
	if err := s.markRead(ctx, userID, ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (s *NotificationService) markRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.repo.MarkRead(ctx, userID, ids); err != nil {
		return &app_errors.PersistenceError{Op: "mark notifications read", Err: err}
	}
	return nil
}

func unreadIDs(items []models.Notification) []uuid.UUID {
	var ids []uuid.UUID
	for _, n := range items {
		if !n.IsRead {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

func countUnread(items []models.Notification) int {
	return len(unreadIDs(items))
}
