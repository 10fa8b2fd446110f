package authoring

import (
	"Mumkin/internal/models"
	"Mumkin/internal/service/course"
	"Mumkin/pkg/sanitize"
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

type uploaded struct {
	courseImage     string
	instructorImage string
	videoURL        string
	lessons         []models.Lesson
}

// upload runs every file transfer of a submission on one errgroup. The
// first failure cancels the others.
func (s *Submitter) upload(ctx context.Context, user *models.AppUser, editing *models.Course, sub Submission) (uploaded, error) {
	var out uploaded
	if editing != nil {
		out.courseImage = editing.CourseImage
		out.videoURL = editing.VideoURL
	}
	switch {
	case s.mode == ModeInstructor:
		out.instructorImage = user.PhotoURL
	case editing != nil && editing.InstructorImage != "":
		out.instructorImage = editing.InstructorImage
	default:
		out.instructorImage = user.PhotoURL
	}

	g, gctx := errgroup.WithContext(ctx)
	put := func(u *models.Upload, bucket string, dst *string) {
		if u == nil {
			return
		}
		g.Go(func() error {
			url, err := s.courses.UploadAsset(gctx, *u, bucket)
			if err != nil {
				return err
			}
			*dst = url
			return nil
		})
	}
	put(sub.CourseImage, models.BucketCourseImages, &out.courseImage)
	if s.mode == ModeAdmin {
		put(sub.InstructorImage, models.BucketInstructorImages, &out.instructorImage)
	}
	put(sub.PromoVideo, models.BucketCourseVideos, &out.videoURL)

	// rows keep their form position; untitled rows stay nil and are
	// dropped after the join
	rows := make([]*models.Lesson, len(sub.Lessons))
	for i, form := range sub.Lessons {
		title := strings.TrimSpace(form.Title)
		if title == "" {
			continue
		}
		lesson := &models.Lesson{
			Title:    title,
			Duration: strings.TrimSpace(form.Duration),
			IsFree:   form.IsFree,
			VideoURL: form.VideoURL,
		}
		rows[i] = lesson
		put(form.File, models.BucketLessonVideos, &lesson.VideoURL)
	}

	if err := g.Wait(); err != nil {
		return uploaded{}, err
	}

	out.lessons = make([]models.Lesson, 0, len(rows))
	for _, l := range rows {
		if l != nil {
			out.lessons = append(out.lessons, *l)
		}
	}
	return out, nil
}

func (s *Submitter) build(user *models.AppUser, editing *models.Course, sub Submission, a uploaded) models.CourseDraft {
	draft := models.CourseDraft{
		Title:            strings.TrimSpace(sub.Title),
		Category:         strings.TrimSpace(sub.Category),
		Duration:         strings.TrimSpace(sub.Duration),
		Level:            strings.TrimSpace(sub.Level),
		Description:      sanitize.HTML(sub.Description),
		WhatYouWillLearn: course.SplitLines(sub.WhatYouWillLearn),
		HasCertificate:   sub.HasCertificate,
		CourseImage:      a.courseImage,
		InstructorImage:  a.instructorImage,
		VideoURL:         a.videoURL,
		Lessons:          a.lessons,
		LessonsCount:     len(a.lessons),
	}

	switch {
	case s.mode == ModeInstructor:
		draft.InstructorName = user.DisplayName
		if draft.InstructorName == "" {
			draft.InstructorName = defaultInstructorName
		}
		draft.InstructorID = user.UID
		draft.Status = sub.Status
		if draft.Status == "" {
			draft.Status = models.StatusDraft
		}
	case editing != nil:
		draft.InstructorName = editing.InstructorName
		draft.InstructorID = editing.InstructorID
		draft.Status = editing.Status
	default:
		draft.InstructorName = strings.TrimSpace(sub.InstructorName)
		draft.InstructorID = user.UID
		draft.Status = models.StatusPublished
	}
	return draft
}

// fullPatch sets every editable column from d.
func fullPatch(d models.CourseDraft) models.CoursePatch {
	return models.CoursePatch{
		Title:            &d.Title,
		Category:         &d.Category,
		InstructorName:   &d.InstructorName,
		InstructorImage:  &d.InstructorImage,
		Duration:         &d.Duration,
		Level:            &d.Level,
		Description:      &d.Description,
		WhatYouWillLearn: &d.WhatYouWillLearn,
		HasCertificate:   &d.HasCertificate,
		Status:           &d.Status,
		CourseImage:      &d.CourseImage,
		VideoURL:         &d.VideoURL,
		Lessons:          &d.Lessons,
		LessonsCount:     &d.LessonsCount,
	}
}
