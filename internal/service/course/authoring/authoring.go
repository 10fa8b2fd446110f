// Package authoring turns a course form, with its attached files, into a
// persisted course.
package authoring

import (
	"Mumkin/internal/app_errors"
	"Mumkin/internal/models"
	"Mumkin/internal/service/course"
	"Mumkin/pkg/logger"
	"Mumkin/pkg/observable"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Mode int

const (
	// ModeAdmin edits any course and keeps the stored instructor identity.
	ModeAdmin Mode = iota
	// ModeInstructor always writes the current user as the instructor.
	ModeInstructor
)

type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

type State struct {
	Status  Status `json:"status"`
	Error   string `json:"error,omitempty"`
	Success string `json:"success,omitempty"`
}

const defaultInstructorName = "Instructor"

// LessonForm is one lesson row in form order. File, when set, replaces
// VideoURL once uploaded.
type LessonForm struct {
	Title    string
	Duration string
	IsFree   bool
	VideoURL string
	File     *models.Upload
}

type Submission struct {
	Title            string `validate:"required"`
	Category         string
	Duration         string
	Level            string
	Description      string
	WhatYouWillLearn string
	HasCertificate   bool
	InstructorName   string
	// Status is only honoured in instructor mode.
	Status models.CourseStatus `validate:"omitempty,oneof=draft published"`

	CourseImage     *models.Upload
	InstructorImage *models.Upload
	PromoVideo      *models.Upload
	Lessons         []LessonForm
}

type courseStore interface {
	Add(ctx context.Context, draft models.CourseDraft) error
	Update(ctx context.Context, id uuid.UUID, patch models.CoursePatch) error
	Delete(ctx context.Context, id uuid.UUID) error
	UploadAsset(ctx context.Context, u models.Upload, bucket string) (string, error)
}

var _ courseStore = (*course.CourseService)(nil)

type Submitter struct {
	log      logger.Log
	mode     Mode
	courses  courseStore
	validate *validator.Validate
	state    *observable.Value[State]
}

func NewSubmitter(log logger.Log, mode Mode, courses courseStore) *Submitter {
	return &Submitter{
		log:      log,
		mode:     mode,
		courses:  courses,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		state:    observable.New(State{Status: StatusIdle}),
	}
}

func (s *Submitter) State() observable.Reader[State] {
	return s.state
}

func (s *Submitter) Reset() {
	s.state.Publish(State{Status: StatusIdle})
}

// Submit validates locally, uploads every attached file concurrently and
// then adds or updates the course. Nothing is persisted when an upload
// fails.
func (s *Submitter) Submit(ctx context.Context, user *models.AppUser, editing *models.Course, sub Submission) error {
	if user == nil {
		return s.fail(app_errors.ErrNotAuthenticated)
	}
	if err := s.check(user, editing, sub); err != nil {
		return s.fail(err)
	}

	s.state.Publish(State{Status: StatusSubmitting})

	assets, err := s.upload(ctx, user, editing, sub)
	if err != nil {
		s.log.ErrorErr("Submit: upload failed", err, "title", sub.Title)
		return s.fail(err)
	}

	draft := s.build(user, editing, sub, assets)
	title := strings.TrimSpace(sub.Title)
	if editing != nil {
		if err := s.courses.Update(ctx, editing.ID, fullPatch(draft)); err != nil {
			return s.fail(err)
		}
		s.state.Publish(State{Status: StatusSuccess, Success: fmt.Sprintf("Course %q updated", title)})
		return nil
	}
	if err := s.courses.Add(ctx, draft); err != nil {
		return s.fail(err)
	}
	s.state.Publish(State{Status: StatusSuccess, Success: fmt.Sprintf("Course %q created", title)})
	return nil
}

// SetStatus publishes, drafts or archives an existing course.
func (s *Submitter) SetStatus(ctx context.Context, user *models.AppUser, c models.Course, status models.CourseStatus) error {
	if err := s.authorize(user, &c); err != nil {
		return s.fail(err)
	}
	if !status.Valid() {
		return s.fail(&app_errors.ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", status)})
	}
	if err := s.courses.Update(ctx, c.ID, models.CoursePatch{Status: &status}); err != nil {
		return s.fail(err)
	}
	s.state.Publish(State{Status: StatusSuccess, Success: "Course status updated"})
	return nil
}

func (s *Submitter) Delete(ctx context.Context, user *models.AppUser, c models.Course) error {
	if err := s.authorize(user, &c); err != nil {
		return s.fail(err)
	}
	if err := s.courses.Delete(ctx, c.ID); err != nil {
		return s.fail(err)
	}
	s.state.Publish(State{Status: StatusSuccess, Success: "Course deleted"})
	return nil
}

func (s *Submitter) fail(err error) error {
	s.state.Publish(State{Status: StatusError, Error: err.Error()})
	return err
}

func (s *Submitter) authorize(user *models.AppUser, editing *models.Course) error {
	if user == nil {
		return app_errors.ErrNotAuthenticated
	}
	if s.mode == ModeInstructor && editing != nil && editing.InstructorID != user.UID {
		return app_errors.ErrNotCourseOwner
	}
	return nil
}

func (s *Submitter) check(user *models.AppUser, editing *models.Course, sub Submission) error {
	if err := s.authorize(user, editing); err != nil {
		return err
	}
	sub.Title = strings.TrimSpace(sub.Title)
	if err := s.validate.Struct(sub); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &app_errors.ValidationError{Field: lowerFirst(fe.Field()), Message: describe(fe)}
		}
		return &app_errors.ValidationError{Message: err.Error()}
	}
	if s.mode == ModeAdmin && editing == nil && strings.TrimSpace(sub.InstructorName) == "" {
		return &app_errors.ValidationError{Field: "instructorName", Message: "is required"}
	}
	if editing == nil && sub.CourseImage == nil {
		return &app_errors.ValidationError{Field: "courseImage", Message: "a cover image is required"}
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	}
	return "is invalid"
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
