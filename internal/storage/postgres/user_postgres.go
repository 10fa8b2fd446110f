package postgres

import (
	"Mumkin/internal/app_errors"
	"Mumkin/internal/models"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserPostgres struct {
	db *pgxpool.Pool
}

func NewUserPostgres(db *pgxpool.Pool) *UserPostgres {
	return &UserPostgres{db: db}
}

const userColumns = `id, email, coalesce(password_hash, ''), provider, full_name, coalesce(avatar_url, '')`

func scanUser(row pgx.Row) (*models.AuthUser, error) {
	var u models.AuthUser
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Provider, &u.Metadata.FullName, &u.Metadata.AvatarURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserPostgres) UserByID(ctx context.Context, id uuid.UUID) (*models.AuthUser, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserPostgres) UserByEmail(ctx context.Context, email string) (*models.AuthUser, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
}

func (r *UserPostgres) CreateUser(ctx context.Context, user models.AuthUser) (*models.AuthUser, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	query := `
		INSERT INTO users (id, email, password_hash, provider, full_name, avatar_url)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6)
		RETURNING ` + userColumns
	created, err := scanUser(r.db.QueryRow(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Provider, user.Metadata.FullName, user.Metadata.AvatarURL,
	))
	if err != nil {
		if pgErr := UnwrapPgError(err); pgErr != nil && pgErr.Code == uniqueViolation {
			return nil, app_errors.ErrUserExists
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return created, nil
}
