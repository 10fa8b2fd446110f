package course

import (
	"Mumkin/internal/models"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NormalizeLearningPoints accepts a JSON array of strings or a JSON string
// holding one point per line. Anything else yields an empty list.
func NormalizeLearningPoints(raw json.RawMessage) []string {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && list != nil {
		return list
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return SplitLines(text)
	}
	return []string{}
}

// SplitLines keeps the non-blank lines of s in order. Lines are not trimmed.
func SplitLines(s string) []string {
	out := []string{}
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

func decodeLessons(raw json.RawMessage) []models.Lesson {
	var lessons []models.Lesson
	if err := json.Unmarshal(raw, &lessons); err != nil || lessons == nil {
		return []models.Lesson{}
	}
	return lessons
}

func fromRecord(r models.CourseRecord, instructors map[uuid.UUID]models.AppUser) models.Course {
	c := models.Course{
		ID:               r.ID,
		Title:            r.Title,
		Category:         r.Category,
		InstructorName:   r.InstructorName,
		InstructorImage:  r.InstructorImage,
		Duration:         r.Duration,
		CourseImage:      r.CourseImage,
		Level:            r.Level,
		LessonsCount:     r.LessonsCount,
		Rating:           r.Rating,
		ReviewsCount:     r.ReviewsCount,
		Description:      r.Description,
		WhatYouWillLearn: NormalizeLearningPoints(r.WhatYouWillLearn),
		Lessons:          decodeLessons(r.Lessons),
		Status:           models.StatusPublished,
		CreatedAt:        r.CreatedAt,
	}
	if r.VideoURL != nil {
		c.VideoURL = *r.VideoURL
	}
	if r.HasCertificate != nil {
		c.HasCertificate = *r.HasCertificate
	}
	if r.Status != nil && *r.Status != "" {
		c.Status = models.CourseStatus(*r.Status)
	}
	if r.InstructorID != nil {
		c.InstructorID = *r.InstructorID
		if instructor, ok := instructors[*r.InstructorID]; ok {
			c.Instructor = &instructor
			if instructor.DisplayName != "" {
				c.InstructorName = instructor.DisplayName
			}
			if instructor.PhotoURL != "" {
				c.InstructorImage = instructor.PhotoURL
			}
		}
	}
	return c
}

func toRecord(d models.CourseDraft) (models.CourseRecord, error) {
	learn, err := marshalJSON(nonNil(d.WhatYouWillLearn))
	if err != nil {
		return models.CourseRecord{}, err
	}
	lessons, err := marshalJSON(nonNilLessons(d.Lessons))
	if err != nil {
		return models.CourseRecord{}, err
	}
	status := string(d.Status)
	if status == "" {
		status = string(models.StatusPublished)
	}
	certificate := d.HasCertificate

	r := models.CourseRecord{
		Title:            d.Title,
		Category:         d.Category,
		InstructorName:   d.InstructorName,
		InstructorImage:  d.InstructorImage,
		Duration:         d.Duration,
		CourseImage:      d.CourseImage,
		Level:            d.Level,
		LessonsCount:     d.LessonsCount,
		Rating:           0,
		ReviewsCount:     0,
		Description:      d.Description,
		WhatYouWillLearn: learn,
		HasCertificate:   &certificate,
		Lessons:          lessons,
		Status:           &status,
	}
	if d.VideoURL != "" {
		video := d.VideoURL
		r.VideoURL = &video
	}
	if d.InstructorID != uuid.Nil {
		id := d.InstructorID
		r.InstructorID = &id
	}
	return r, nil
}

// patchFields maps the present fields of p to their column names.
func patchFields(p models.CoursePatch) (map[string]any, error) {
	fields := make(map[string]any)
	setString := func(col string, v *string) {
		if v != nil {
			fields[col] = *v
		}
	}
	setString("title", p.Title)
	setString("category", p.Category)
	setString("instructor_name", p.InstructorName)
	setString("instructor_image", p.InstructorImage)
	setString("duration", p.Duration)
	setString("level", p.Level)
	setString("description", p.Description)
	setString("course_image", p.CourseImage)

	if p.VideoURL != nil {
		if *p.VideoURL == "" {
			fields["video_url"] = nil
		} else {
			fields["video_url"] = *p.VideoURL
		}
	}
	if p.HasCertificate != nil {
		fields["has_certificate"] = *p.HasCertificate
	}
	if p.Status != nil {
		if !p.Status.Valid() {
			return nil, fmt.Errorf("unknown course status %q", *p.Status)
		}
		fields["status"] = string(*p.Status)
	}
	if p.LessonsCount != nil {
		fields["lessons_count"] = *p.LessonsCount
	}
	if p.WhatYouWillLearn != nil {
		raw, err := marshalJSON(nonNil(*p.WhatYouWillLearn))
		if err != nil {
			return nil, err
		}
		fields["what_you_will_learn"] = raw
	}
	if p.Lessons != nil {
		raw, err := marshalJSON(nonNilLessons(*p.Lessons))
		if err != nil {
			return nil, err
		}
		fields["lessons"] = raw
	}
	return fields, nil
}

func marshalJSON(v any) (json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode column: %w", err)
	}
	return b, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilLessons(l []models.Lesson) []models.Lesson {
	if l == nil {
		return []models.Lesson{}
	}
	return l
}
