package postgres

import (
	"Mumkin/internal/app_errors"
	"Mumkin/internal/models"
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfilePostgres struct {
	db *pgxpool.Pool
}

func NewProfilePostgres(db *pgxpool.Pool) *ProfilePostgres {
	return &ProfilePostgres{db: db}
}

const profileColumns = `id, full_name, coalesce(avatar_url, ''), coalesce(role, ''),
	coalesce(title, ''), coalesce(bio, ''), coalesce(linkedin_url, '')`

func scanProfile(row pgx.Row) (models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.ID, &p.FullName, &p.AvatarURL, &p.Role, &p.Title, &p.Bio, &p.LinkedinURL)
	return p, err
}

func (r *ProfilePostgres) ProfileByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	p, err := scanProfile(r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProfilePostgres) ProfilesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Profile, error) {
	return r.query(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ANY($1)`, ids)
}

func (r *ProfilePostgres) ProfilesByRole(ctx context.Context, role string) ([]models.Profile, error) {
	return r.query(ctx, `SELECT `+profileColumns+` FROM profiles WHERE role = $1 ORDER BY full_name`, role)
}

func (r *ProfilePostgres) CreateProfile(ctx context.Context, p models.Profile) (*models.Profile, error) {
	query := `
		INSERT INTO profiles (id, full_name, avatar_url, role)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + profileColumns
	created, err := scanProfile(r.db.QueryRow(ctx, query, p.ID, p.FullName, p.AvatarURL, p.Role))
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *ProfilePostgres) SetRole(ctx context.Context, id uuid.UUID, role string) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE profiles SET role = $2 WHERE id = $1`, id, role)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrProfileNotFound
	}
	return nil
}

func (r *ProfilePostgres) query(ctx context.Context, query string, arg any) ([]models.Profile, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
