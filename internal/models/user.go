package models

import "github.com/google/uuid"

const (
	RoleUser       = "user"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

type AppUser struct {
	UID         uuid.UUID `json:"uid"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"displayName"`
	PhotoURL    string    `json:"photoURL"`
	Role        string    `json:"role"`
	IsAdmin     bool      `json:"isAdmin"`
	Title       string    `json:"title,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	LinkedinURL string    `json:"linkedinUrl,omitempty"`
}

// Profile is a row of the profiles table.
type Profile struct {
	ID          uuid.UUID
	FullName    string
	AvatarURL   string
	Role        string
	Title       string
	Bio         string
	LinkedinURL string
}

func (p Profile) AppUser() AppUser {
	return AppUser{
		UID:         p.ID,
		DisplayName: p.FullName,
		PhotoURL:    p.AvatarURL,
		Role:        p.Role,
		IsAdmin:     p.Role == RoleAdmin,
		Title:       p.Title,
		Bio:         p.Bio,
		LinkedinURL: p.LinkedinURL,
	}
}

type UserMetadata struct {
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

// AuthUser is an identity known to the auth backend.
type AuthUser struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Provider     string
	Metadata     UserMetadata
}
