package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type CourseStatus string

const (
	StatusDraft     CourseStatus = "draft"
	StatusPublished CourseStatus = "published"
	StatusArchived  CourseStatus = "archived"
)

func (s CourseStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Lesson is embedded in its course and addressed by position only.
type Lesson struct {
	Title    string `json:"title" yaml:"title"`
	Duration string `json:"duration" yaml:"duration"`
	VideoURL string `json:"videoUrl" yaml:"video_url"`
	IsFree   bool   `json:"isFree" yaml:"is_free"`
}

type Course struct {
	ID               uuid.UUID    `json:"id"`
	Title            string       `json:"title"`
	Category         string       `json:"category"`
	InstructorName   string       `json:"instructorName"`
	InstructorImage  string       `json:"instructorImage"`
	Duration         string       `json:"duration"`
	CourseImage      string       `json:"courseImage"`
	Level            string       `json:"level"`
	LessonsCount     int          `json:"lessonsCount"`
	Rating           float64      `json:"rating"`
	ReviewsCount     int          `json:"reviewsCount"`
	Description      string       `json:"description"`
	WhatYouWillLearn []string     `json:"whatYouWillLearn"`
	VideoURL         string       `json:"videoUrl,omitempty"`
	HasCertificate   bool         `json:"hasCertificate"`
	Lessons          []Lesson     `json:"lessons"`
	InstructorID     uuid.UUID    `json:"instructorId"`
	Status           CourseStatus `json:"status"`
	Instructor       *AppUser     `json:"instructor,omitempty"`
	CreatedAt        time.Time    `json:"createdAt"`
}

// CourseDraft is a course as submitted for creation. Rating and review
// count are always reset by the repository.
type CourseDraft struct {
	Title            string
	Category         string
	InstructorName   string
	InstructorImage  string
	Duration         string
	CourseImage      string
	Level            string
	LessonsCount     int
	Description      string
	WhatYouWillLearn []string
	VideoURL         string
	HasCertificate   bool
	Lessons          []Lesson
	InstructorID     uuid.UUID
	Status           CourseStatus
}

// CoursePatch is a partial update. A nil field is left untouched; a non-nil
// field is written even when it points at an empty value.
type CoursePatch struct {
	Title            *string
	Category         *string
	InstructorName   *string
	InstructorImage  *string
	Duration         *string
	Level            *string
	Description      *string
	WhatYouWillLearn *[]string
	HasCertificate   *bool
	Status           *CourseStatus
	CourseImage      *string
	VideoURL         *string
	Lessons          *[]Lesson
	LessonsCount     *int
}

func (p CoursePatch) Empty() bool {
	return p == CoursePatch{}
}

// CourseRecord mirrors a row of the courses table.
type CourseRecord struct {
	ID               uuid.UUID
	Title            string
	Category         string
	InstructorName   string
	InstructorImage  string
	Duration         string
	CourseImage      string
	Level            string
	LessonsCount     int
	Rating           float64
	ReviewsCount     int
	Description      string
	WhatYouWillLearn json.RawMessage
	VideoURL         *string
	HasCertificate   *bool
	Lessons          json.RawMessage
	InstructorID     *uuid.UUID
	Status           *string
	CreatedAt        time.Time
}
