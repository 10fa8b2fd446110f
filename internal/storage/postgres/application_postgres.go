package postgres

import (
	"Mumkin/internal/app_errors"
	"Mumkin/internal/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ApplicationPostgres struct {
	db *pgxpool.Pool
}

func NewApplicationPostgres(db *pgxpool.Pool) *ApplicationPostgres {
	return &ApplicationPostgres{db: db}
}

func (r *ApplicationPostgres) Create(ctx context.Context, a models.InstructorApplication) (uuid.UUID, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	answers, err := json.Marshal(a.Answers)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal answers: %w", err)
	}
	query := `
		INSERT INTO instructor_applications (
			id, user_id, status, cv_url, linkedin_url, bio, expertise_field, video_answers
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.db.Exec(ctx, query,
		a.ID, a.UserID, a.Status, a.CVURL, a.LinkedinURL, a.Bio, a.ExpertiseField, json.RawMessage(answers),
	)
	if err != nil {
		if pgErr := UnwrapPgError(err); pgErr != nil && pgErr.Code == uniqueViolation {
			return uuid.Nil, app_errors.ErrAlreadyApplied
		}
		return uuid.Nil, err
	}
	return a.ID, nil
}

func (r *ApplicationPostgres) ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM instructor_applications WHERE user_id = $1)`, userID,
	).Scan(&exists)
	return exists, err
}

func (r *ApplicationPostgres) List(ctx context.Context) ([]models.InstructorApplication, error) {
	query := `
		SELECT id, user_id, created_at, status, coalesce(cv_url, ''), coalesce(linkedin_url, ''),
		       coalesce(bio, ''), coalesce(expertise_field, ''), video_answers
		  FROM instructor_applications
		 ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []models.InstructorApplication
	for rows.Next() {
		var (
			a       models.InstructorApplication
			answers []byte
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.CreatedAt, &a.Status, &a.CVURL, &a.LinkedinURL,
			&a.Bio, &a.ExpertiseField, &answers); err != nil {
			return nil, err
		}
		if len(answers) > 0 {
			// a malformed answers column should not hide the whole application
			_ = json.Unmarshal(answers, &a.Answers)
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

func (r *ApplicationPostgres) UserID(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var userID uuid.UUID
	err := r.db.QueryRow(ctx, `SELECT user_id FROM instructor_applications WHERE id = $1`, id).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, app_errors.ErrApplicationNotFound
		}
		return uuid.Nil, err
	}
	return userID, nil
}

func (r *ApplicationPostgres) SetStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE instructor_applications SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrApplicationNotFound
	}
	return nil
}

func (r *ApplicationPostgres) CountByStatus(ctx context.Context, status models.ApplicationStatus) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM instructor_applications WHERE status = $1`, status).Scan(&n)
	return n, err
}
