package postgres

import (
	"Mumkin/internal/models"
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationPostgres struct {
	db *pgxpool.Pool
}

func NewNotificationPostgres(db *pgxpool.Pool) *NotificationPostgres {
	return &NotificationPostgres{db: db}
}

func (r *NotificationPostgres) Create(ctx context.Context, n models.Notification) (uuid.UUID, error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	query := `
		INSERT INTO notifications (id, user_id, message, is_read, course_id, lesson_title)
		VALUES ($1, $2, $3, false, $4, $5)
	`
	if _, err := r.db.Exec(ctx, query, n.ID, n.UserID, n.Message, n.CourseID, n.LessonTitle); err != nil {
		return uuid.Nil, err
	}
	return n.ID, nil
}

func (r *NotificationPostgres) ForUser(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, message, is_read, created_at, course_id, lesson_title
		  FROM notifications
		 WHERE user_id = $1
		 ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.IsRead, &n.CreatedAt, &n.CourseID, &n.LessonTitle); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// MarkRead only touches rows owned by userID.
func (r *NotificationPostgres) MarkRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE user_id = $1 AND id = ANY($2)`, userID, ids)
	return err
}
