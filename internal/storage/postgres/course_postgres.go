package postgres

import (
	"Mumkin/internal/app_errors"
	"Mumkin/internal/models"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CoursePostgres struct {
	db *pgxpool.Pool
}

func NewCoursePostgres(db *pgxpool.Pool) *CoursePostgres {
	return &CoursePostgres{db: db}
}

// updatableColumns guards the dynamic SET clause built in Update.
var updatableColumns = map[string]struct{}{
	"title":               {},
	"category":            {},
	"instructor_name":     {},
	"instructor_image":    {},
	"duration":            {},
	"level":               {},
	"description":         {},
	"what_you_will_learn": {},
	"has_certificate":     {},
	"status":              {},
	"course_image":        {},
	"video_url":           {},
	"lessons":             {},
	"lessons_count":       {},
}

const courseColumns = `
	id, title, category, instructor_name, instructor_image, duration,
	course_image, level, lessons_count, rating, reviews_count, description,
	what_you_will_learn, video_url, has_certificate, lessons, instructor_id,
	status, created_at`

func (r *CoursePostgres) List(ctx context.Context) ([]models.CourseRecord, error) {
	query := `SELECT ` + courseColumns + ` FROM courses ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.CourseRecord
	for rows.Next() {
		var (
			c       models.CourseRecord
			learn   []byte
			lessons []byte
		)
		if err := rows.Scan(
			&c.ID, &c.Title, &c.Category, &c.InstructorName, &c.InstructorImage, &c.Duration,
			&c.CourseImage, &c.Level, &c.LessonsCount, &c.Rating, &c.ReviewsCount, &c.Description,
			&learn, &c.VideoURL, &c.HasCertificate, &lessons, &c.InstructorID,
			&c.Status, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		c.WhatYouWillLearn = learn
		c.Lessons = lessons
		records = append(records, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *CoursePostgres) Insert(ctx context.Context, c models.CourseRecord) (uuid.UUID, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	query := `
		INSERT INTO courses (
			id, title, category, instructor_name, instructor_image, duration,
			course_image, level, lessons_count, rating, reviews_count, description,
			what_you_will_learn, video_url, has_certificate, lessons, instructor_id, status
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18
		)
		RETURNING id
	`
	var id uuid.UUID
	err := r.db.QueryRow(ctx, query,
		c.ID, c.Title, c.Category, c.InstructorName, c.InstructorImage, c.Duration,
		c.CourseImage, c.Level, c.LessonsCount, c.Rating, c.ReviewsCount, c.Description,
		c.WhatYouWillLearn, c.VideoURL, c.HasCertificate, c.Lessons, c.InstructorID, c.Status,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// Update writes exactly the given columns. Unknown column names are rejected
// before anything is sent.
func (r *CoursePostgres) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	cols := make([]string, 0, len(fields))
	for col := range fields {
		if _, ok := updatableColumns[col]; !ok {
			return fmt.Errorf("column %q is not updatable", col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	sets := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols)+1)
	args = append(args, id)
	for i, col := range cols {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+2))
		args = append(args, fields[col])
	}
	query := `UPDATE courses SET ` + strings.Join(sets, ", ") + ` WHERE id = $1`

	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrCourseNotFound
	}
	return nil
}

func (r *CoursePostgres) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrCourseNotFound
	}
	return nil
}
