package session

import (
	"Mumkin/internal/app_errors"
	"Mumkin/internal/models"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const defaultDisplayName = "User"

type profileRepo interface {
	ProfileByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	CreateProfile(ctx context.Context, p models.Profile) (*models.Profile, error)
}

// ProvisionError means the profile could not be read or created. The user
// returned next to it is still usable, built from the auth identity alone.
type ProvisionError struct {
	UserID uuid.UUID
	Err    error
}

func (e *ProvisionError) Error() string {
	return fmt.Sprintf("provision profile for %s: %v", e.UserID, e.Err)
}

func (e *ProvisionError) Unwrap() error { return e.Err }

type Resolver struct {
	profiles   profileRepo
	adminEmail string
}

func NewResolver(profiles profileRepo, adminEmail string) *Resolver {
	return &Resolver{profiles: profiles, adminEmail: strings.TrimSpace(adminEmail)}
}

func (r *Resolver) IsAdminEmail(email string) bool {
	return r.adminEmail != "" && strings.EqualFold(strings.TrimSpace(email), r.adminEmail)
}

// Resolve loads the profile of an authenticated user, creating it on first
// sight. It always returns a user; a non-nil error is a *ProvisionError.
func (r *Resolver) Resolve(ctx context.Context, u models.AuthUser) (models.AppUser, error) {
	profile, err := r.profiles.ProfileByID(ctx, u.ID)
	if errors.Is(err, app_errors.ErrProfileNotFound) {
		profile, err = r.profiles.CreateProfile(ctx, models.Profile{
			ID:        u.ID,
			FullName:  firstNonEmpty(u.Metadata.FullName, localPart(u.Email)),
			AvatarURL: u.Metadata.AvatarURL,
			Role:      r.defaultRole(u.Email),
		})
	}
	if err != nil {
		return r.build(u, nil), &ProvisionError{UserID: u.ID, Err: err}
	}
	return r.build(u, profile), nil
}

func (r *Resolver) build(u models.AuthUser, p *models.Profile) models.AppUser {
	if p == nil {
		p = &models.Profile{}
	}
	role := firstNonEmpty(p.Role, r.defaultRole(u.Email))
	return models.AppUser{
		UID:         u.ID,
		Email:       u.Email,
		DisplayName: firstNonEmpty(p.FullName, u.Metadata.FullName, defaultDisplayName),
		PhotoURL:    firstNonEmpty(p.AvatarURL, u.Metadata.AvatarURL),
		Role:        role,
		IsAdmin:     role == models.RoleAdmin,
		Title:       p.Title,
		Bio:         p.Bio,
		LinkedinURL: p.LinkedinURL,
	}
}

func (r *Resolver) defaultRole(email string) string {
	if r.IsAdminEmail(email) {
		return models.RoleAdmin
	}
	return models.RoleUser
}

func localPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
