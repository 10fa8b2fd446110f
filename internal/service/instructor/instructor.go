package instructor

import (
	"Mumkin/internal/app_errors"
	"Mumkin/internal/models"
	"Mumkin/internal/storage/realtime"
	"Mumkin/pkg/logger"
	"Mumkin/pkg/sanitize"
	"context"
	"fmt"

	"github.com/google/uuid"
)

type profileRepo interface {
	ProfilesByRole(ctx context.Context, role string) ([]models.Profile, error)
	SetRole(ctx context.Context, id uuid.UUID, role string) error
}

type notificationRepo interface {
	Create(ctx context.Context, n models.Notification) (uuid.UUID, error)
}

type publisher interface {
	Publish(ctx context.Context, table, owner, op string) error
}

type InstructorService struct {
	log           logger.Log
	profiles      profileRepo
	notifications notificationRepo
	feed          publisher
}

// NewInstructorService accepts a nil feed; notifications are then only
// seen on the recipient's next fetch.
func NewInstructorService(log logger.Log, profiles profileRepo, notifications notificationRepo, feed publisher) *InstructorService {
	return &InstructorService{log: log, profiles: profiles, notifications: notifications, feed: feed}
}

func (s *InstructorService) List(ctx context.Context) ([]models.AppUser, error) {
	profiles, err := s.profiles.ProfilesByRole(ctx, models.RoleInstructor)
	if err != nil {
		return nil, fmt.Errorf("list instructors: %w", err)
	}
	out := make([]models.AppUser, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p.AppUser())
	}
	return out, nil
}

// Suspend demotes an instructor back to a regular user. Their courses stay.
func (s *InstructorService) Suspend(ctx context.Context, id uuid.UUID) error {
	if err := s.profiles.SetRole(ctx, id, models.RoleUser); err != nil {
		return &app_errors.PersistenceError{Op: "suspend instructor", Err: err}
	}
	s.log.Info("instructor suspended", "user_id", id)
	return nil
}

func (s *InstructorService) Notify(ctx context.Context, userID uuid.UUID, message string, courseID *uuid.UUID) (uuid.UUID, error) {
	message = sanitize.Text(message)
	if message == "" {
		return uuid.Nil, &app_errors.ValidationError{Field: "message", Message: "is required"}
	}
	id, err := s.notifications.Create(ctx, models.Notification{
		UserID:   userID,
		Message:  message,
		CourseID: courseID,
	})
	if err != nil {
		return uuid.Nil, &app_errors.PersistenceError{Op: "send notification", Err: err}
	}
	if s.feed != nil {
		if err := s.feed.Publish(ctx, realtime.TableNotifications, userID.String(), "insert"); err != nil {
			s.log.ErrorErr("failed to publish notification event", err, "user_id", userID)
		}
	}
	return id, nil
}
