package course

import (
	"Mumkin/internal/app_errors"
	"Mumkin/internal/models"
	"Mumkin/internal/service/course/listing"
	"Mumkin/internal/storage/realtime"
	"Mumkin/pkg/logger"
	"Mumkin/pkg/observable"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
)

type courseRepo interface {
	List(ctx context.Context) ([]models.CourseRecord, error)
	Insert(ctx context.Context, c models.CourseRecord) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type profileRepo interface {
	ProfilesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Profile, error)
}

type assetRepo interface {
	Put(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) error
	PublicURL(ctx context.Context, bucket, key string) (string, error)
}

type searchRepo interface {
	Index(ctx context.Context, course models.Course) error
	Search(ctx context.Context, query string, size int) ([]uuid.UUID, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type changeFeed interface {
	Publish(ctx context.Context, table, owner, op string) error
	Subscribe(ctx context.Context, table, owner string) (<-chan realtime.Event, func() error, error)
}

// CourseService owns the published course collection. Every successful
// mutation is followed by a full refetch.
type CourseService struct {
	log         logger.Log
	courseRepo  courseRepo
	profileRepo profileRepo
	assetRepo   assetRepo
	searchRepo  searchRepo
	feed        changeFeed
	courses     *observable.Value[[]models.Course]
}

type Option func(*CourseService)

func WithSearch(r searchRepo) Option {
	return func(s *CourseService) { s.searchRepo = r }
}

func WithChangeFeed(f changeFeed) Option {
	return func(s *CourseService) { s.feed = f }
}

func NewCourseService(log logger.Log, courseRepo courseRepo, profileRepo profileRepo,
	assetRepo assetRepo, opts ...Option,
) *CourseService {
	s := &CourseService{
		log:         log,
		courseRepo:  courseRepo,
		profileRepo: profileRepo,
		assetRepo:   assetRepo,
		courses:     observable.New([]models.Course{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *CourseService) Courses() observable.Reader[[]models.Course] {
	return s.courses
}

func (s *CourseService) Course(id uuid.UUID) (models.Course, bool) {
	for _, c := range s.courses.Get() {
		if c.ID == id {
			return c, true
		}
	}
	return models.Course{}, false
}

func (s *CourseService) FetchAll(ctx context.Context) error {
	records, err := s.courseRepo.List(ctx)
	if err != nil {
		s.log.ErrorErr("FetchAll: failed to list courses", err)
		s.courses.Publish([]models.Course{})
		return fmt.Errorf("fetch courses: %w", err)
	}

	instructors := make(map[uuid.UUID]models.AppUser)
	if ids := instructorIDs(records); len(ids) > 0 {
		profiles, err := s.profileRepo.ProfilesByIDs(ctx, ids)
		if err != nil {
			s.log.ErrorErr("FetchAll: failed to load instructor profiles", err)
		} else {
			for _, p := range profiles {
				instructors[p.ID] = p.AppUser()
			}
		}
	}

	courses := make([]models.Course, 0, len(records))
	for _, r := range records {
		courses = append(courses, fromRecord(r, instructors))
	}
	s.courses.Publish(courses)
	return nil
}

func (s *CourseService) Add(ctx context.Context, draft models.CourseDraft) error {
	record, err := toRecord(draft)
	if err != nil {
		return &app_errors.PersistenceError{Op: "add course", Err: err}
	}
	id, err := s.courseRepo.Insert(ctx, record)
	if err != nil {
		s.log.ErrorErr("Add: failed to insert course", err)
		return &app_errors.PersistenceError{Op: "add course", Err: err}
	}
	return s.afterWrite(ctx, id, "insert")
}

func (s *CourseService) Update(ctx context.Context, id uuid.UUID, patch models.CoursePatch) error {
	fields, err := patchFields(patch)
	if err != nil {
		return &app_errors.PersistenceError{Op: "update course", Err: err}
	}
	if len(fields) > 0 {
		if err := s.courseRepo.Update(ctx, id, fields); err != nil {
			s.log.ErrorErr("Update: failed to update course", err, "course_id", id)
			return &app_errors.PersistenceError{Op: "update course", Err: err}
		}
	}
	return s.afterWrite(ctx, id, "update")
}

func (s *CourseService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.courseRepo.Delete(ctx, id); err != nil {
		s.log.ErrorErr("Delete: failed to delete course", err, "course_id", id)
		return &app_errors.PersistenceError{Op: "delete course", Err: err}
	}
	if s.searchRepo != nil {
		if err := s.searchRepo.Delete(ctx, id); err != nil {
			s.log.ErrorErr("Delete: failed to remove course from search index", err, "course_id", id)
		}
	}
	return s.afterWrite(ctx, uuid.Nil, "delete")
}

// afterWrite refetches, reindexes id when set and announces the change.
// The write is already committed, so a failed refetch only leaves the
// empty collection published and is logged, never returned.
func (s *CourseService) afterWrite(ctx context.Context, id uuid.UUID, op string) error {
	if err := s.FetchAll(ctx); err != nil {
		s.log.ErrorErr("refetch after write failed", err, "op", op)
	}

	if s.searchRepo != nil && id != uuid.Nil {
		if c, ok := s.Course(id); ok {
			if err := s.searchRepo.Index(ctx, c); err != nil {
				s.log.ErrorErr("failed to index course", err, "course_id", id)
			}
		}
	}
	if s.feed != nil {
		if err := s.feed.Publish(ctx, realtime.TableCourses, realtime.OwnerAll, op); err != nil {
			s.log.ErrorErr("failed to publish course change", err)
		}
	}
	return nil
}

// Search resolves ids through the index and maps them onto the published
// collection. Without an index it falls back to substring matching.
func (s *CourseService) Search(ctx context.Context, query string, size int) ([]models.Course, error) {
	all := s.courses.Get()
	if s.searchRepo == nil {
		found := listing.Match(all, listing.CategoryAll, query)
		if size > 0 && len(found) > size {
			found = found[:size]
		}
		return found, nil
	}

	ids, err := s.searchRepo.Search(ctx, query, size)
	if err != nil {
		return nil, fmt.Errorf("search courses: %w", err)
	}
	byID := make(map[uuid.UUID]models.Course, len(all))
	for _, c := range all {
		byID[c.ID] = c
	}
	found := make([]models.Course, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			found = append(found, c)
		}
	}
	return found, nil
}

// Reindex pushes the whole published collection into the search index.
func (s *CourseService) Reindex(ctx context.Context) error {
	if s.searchRepo == nil {
		return nil
	}
	var errs []error
	for _, c := range s.courses.Get() {
		if err := s.searchRepo.Index(ctx, c); err != nil {
			errs = append(errs, fmt.Errorf("course %s: %w", c.ID, err))
		}
	}
	return errors.Join(errs...)
}

// Watch refetches on every change announced by other writers until ctx is
// cancelled.
func (s *CourseService) Watch(ctx context.Context) error {
	if s.feed == nil {
		<-ctx.Done()
		return nil
	}
	events, cancel, err := s.feed.Subscribe(ctx, realtime.TableCourses, realtime.OwnerAll)
	if err != nil {
		return err
	}
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			s.log.Debug("course change received", "op", ev.Op)
			if err := s.FetchAll(ctx); err != nil && ctx.Err() == nil {
				s.log.ErrorErr("Watch: refetch failed", err)
			}
		}
	}
}

func instructorIDs(records []models.CourseRecord) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, r := range records {
		if r.InstructorID == nil || *r.InstructorID == uuid.Nil {
			continue
		}
		if _, ok := seen[*r.InstructorID]; ok {
			continue
		}
		seen[*r.InstructorID] = struct{}{}
		ids = append(ids, *r.InstructorID)
	}
	return ids
}
