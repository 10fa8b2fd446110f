package application

import (
	"Mumkin/internal/app_errors"
	"Mumkin/internal/models"
	"Mumkin/pkg/logger"
	"Mumkin/pkg/sanitize"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type Method string

const (
	MethodWritten Method = "written"
	MethodVideo   Method = "video"
)

// minAnswerLen is exclusive: a written answer needs more runes than this.
const minAnswerLen = 5

var Questions = []string{
	"Introduce yourself and your experience in the field you chose.",
	"Why do you want to become an instructor on Mumkin?",
	"Explain a complex concept from your field as if to a complete beginner.",
}

type Form struct {
	Method         Method
	CV             *models.Upload
	LinkedinURL    string
	Bio            string
	ExpertiseField string
	// Written holds one answer per question for MethodWritten.
	Written []string
	// Recordings holds one video per question for MethodVideo.
	Recordings []*models.Upload
}

type applicationRepo interface {
	Create(ctx context.Context, a models.InstructorApplication) (uuid.UUID, error)
	ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error)
	List(ctx context.Context) ([]models.InstructorApplication, error)
	UserID(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	SetStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) error
	CountByStatus(ctx context.Context, status models.ApplicationStatus) (int, error)
}

type profileRepo interface {
	ProfilesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Profile, error)
	SetRole(ctx context.Context, id uuid.UUID, role string) error
}

type uploader interface {
	UploadAsset(ctx context.Context, u models.Upload, bucket string) (string, error)
}

type ApplicationService struct {
	log      logger.Log
	apps     applicationRepo
	profiles profileRepo
	uploader uploader
}

func NewApplicationService(log logger.Log, apps applicationRepo, profiles profileRepo, uploader uploader) *ApplicationService {
	return &ApplicationService{log: log, apps: apps, profiles: profiles, uploader: uploader}
}

// Submit files a pending application. A user may only ever apply once.
func (s *ApplicationService) Submit(ctx context.Context, user *models.AppUser, f Form) (uuid.UUID, error) {
	if user == nil {
		return uuid.Nil, app_errors.ErrNotAuthenticated
	}
	if err := validate(f); err != nil {
		return uuid.Nil, err
	}
	applied, err := s.apps.ExistsForUser(ctx, user.UID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("check previous application: %w", err)
	}
	if applied {
		return uuid.Nil, app_errors.ErrAlreadyApplied
	}

	var cvURL string
	answers := make([]models.InterviewAnswer, len(Questions))
	for i, q := range Questions {
		answers[i].Question = q
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		url, err := s.uploader.UploadAsset(gctx, *f.CV, models.BucketCVs)
		cvURL = url
		return err
	})
	switch f.Method {
	case MethodWritten:
		for i := range answers {
			answers[i].Answer = strings.TrimSpace(f.Written[i])
		}
	case MethodVideo:
		for i, rec := range f.Recordings {
			g.Go(func() error {
				url, err := s.uploader.UploadAsset(gctx, *rec, models.BucketInterviewVideos)
				answers[i].URL = url
				return err
			})
		}
	}
	if err := g.Wait(); err != nil {
		return uuid.Nil, err
	}

	id, err := s.apps.Create(ctx, models.InstructorApplication{
		UserID:         user.UID,
		Status:         models.ApplicationPending,
		CVURL:          cvURL,
		LinkedinURL:    strings.TrimSpace(f.LinkedinURL),
		Bio:            sanitize.Text(f.Bio),
		ExpertiseField: strings.TrimSpace(f.ExpertiseField),
		Answers:        answers,
	})
	if err != nil {
		return uuid.Nil, &app_errors.PersistenceError{Op: "submit application", Err: err}
	}
	s.log.Info("instructor application submitted", "application_id", id, "user_id", user.UID, "method", string(f.Method))
	return id, nil
}

func validate(f Form) error {
	if f.CV == nil {
		return &app_errors.ValidationError{Field: "cv", Message: "a CV file is required"}
	}
	switch f.Method {
	case MethodWritten:
		if len(f.Written) != len(Questions) {
			return &app_errors.ValidationError{Field: "answers", Message: "every question needs an answer"}
		}
		for _, a := range f.Written {
			if len([]rune(strings.TrimSpace(a))) <= minAnswerLen {
				return &app_errors.ValidationError{Field: "answers", Message: "every question needs an answer"}
			}
		}
	case MethodVideo:
		if len(f.Recordings) != len(Questions) {
			return &app_errors.ValidationError{Field: "recordings", Message: "every question needs a recording"}
		}
		for _, r := range f.Recordings {
			if r == nil {
				return &app_errors.ValidationError{Field: "recordings", Message: "every question needs a recording"}
			}
		}
	default:
		return &app_errors.ValidationError{Field: "method", Message: fmt.Sprintf("unknown method %q", f.Method)}
	}
	return nil
}

// List returns applications newest first with the applicant's profile
// snapshot. Applicants without a profile get a placeholder.
func (s *ApplicationService) List(ctx context.Context) ([]models.InstructorApplication, error) {
	apps, err := s.apps.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	if len(apps) == 0 {
		return []models.InstructorApplication{}, nil
	}

	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, a := range apps {
		if _, ok := seen[a.UserID]; !ok && a.UserID != uuid.Nil {
			seen[a.UserID] = struct{}{}
			ids = append(ids, a.UserID)
		}
	}
	byID := make(map[uuid.UUID]models.Profile)
	if len(ids) > 0 {
		profiles, err := s.profiles.ProfilesByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("load applicant profiles: %w", err)
		}
		for _, p := range profiles {
			byID[p.ID] = p
		}
	}

	for i, a := range apps {
		if a.UserID == uuid.Nil {
			apps[i].Applicant = models.ApplicantSnapshot{FullName: "User ID Missing"}
			continue
		}
		if p, ok := byID[a.UserID]; ok {
			apps[i].Applicant = models.ApplicantSnapshot{ID: p.ID, FullName: p.FullName, AvatarURL: p.AvatarURL}
		} else {
			apps[i].Applicant = models.ApplicantSnapshot{ID: a.UserID, FullName: "Profile Not Found"}
		}
	}
	return apps, nil
}

// Decide approves or rejects an application. Approval promotes the
// applicant to instructor.
func (s *ApplicationService) Decide(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) error {
	if status != models.ApplicationApproved && status != models.ApplicationRejected {
		return &app_errors.ValidationError{Field: "status", Message: "must be approved or rejected"}
	}
	userID, err := s.apps.UserID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.apps.SetStatus(ctx, id, status); err != nil {
		return &app_errors.PersistenceError{Op: "update application", Err: err}
	}
	if status == models.ApplicationApproved {
		if err := s.profiles.SetRole(ctx, userID, models.RoleInstructor); err != nil {
			return &app_errors.PersistenceError{Op: "update user role", Err: err}
		}
	}
	s.log.Info("instructor application decided", "application_id", id, "status", string(status))
	return nil
}

func (s *ApplicationService) PendingCount(ctx context.Context) (int, error) {
	return s.apps.CountByStatus(ctx, models.ApplicationPending)
}
