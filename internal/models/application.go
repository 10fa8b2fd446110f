package models

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// InterviewAnswer holds either a recorded video URL or a written answer.
type InterviewAnswer struct {
	Question string `json:"question"`
	URL      string `json:"url,omitempty"`
	Answer   string `json:"answer,omitempty"`
}

type ApplicantSnapshot struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url"`
}

type InstructorApplication struct {
	ID             uuid.UUID         `json:"id"`
	UserID         uuid.UUID         `json:"user_id"`
	CreatedAt      time.Time         `json:"created_at"`
	Status         ApplicationStatus `json:"status"`
	CVURL          string            `json:"cv_url"`
	LinkedinURL    string            `json:"linkedin_url"`
	Bio            string            `json:"bio"`
	ExpertiseField string            `json:"expertise_field"`
	Answers        []InterviewAnswer `json:"video_answers"`
	Applicant      ApplicantSnapshot `json:"user"`
}
