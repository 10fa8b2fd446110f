package course

import (
	"Mumkin/internal/delivery/http/controllers/upload"
	"Mumkin/internal/models"
	"Mumkin/internal/service/course/authoring"
	"fmt"
	"mime/multipart"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// lessonField matches keys such as lessons[2][title] and lessons[2][video].
var lessonField = regexp.MustCompile(`^lessons\[(\d+)\]\[(\w+)\]$`)

const maxLessons = 500

func formValue(form *multipart.Form, key string) string {
	if v := form.Value[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func formBool(form *multipart.Form, key string) bool {
	b, _ := strconv.ParseBool(formValue(form, key))
	return b
}

// parseSubmission maps a multipart course form onto a submission. Lesson
// rows keep their index order; gaps are skipped.
func parseSubmission(form *multipart.Form, files *upload.Files) (authoring.Submission, error) {
	sub := authoring.Submission{
		Title:            formValue(form, "title"),
		Category:         formValue(form, "category"),
		Duration:         formValue(form, "duration"),
		Level:            formValue(form, "level"),
		Description:      formValue(form, "description"),
		WhatYouWillLearn: formValue(form, "what_you_will_learn"),
		HasCertificate:   formBool(form, "has_certificate"),
		InstructorName:   formValue(form, "instructor_name"),
		Status:           models.CourseStatus(formValue(form, "status")),
	}

	var err error
	if sub.CourseImage, err = files.Get("course_image"); err != nil {
		return sub, err
	}
	if sub.InstructorImage, err = files.Get("instructor_image"); err != nil {
		return sub, err
	}
	if sub.PromoVideo, err = files.Get("promo_video"); err != nil {
		return sub, err
	}

	indexes := lessonIndexes(form)
	if len(indexes) > maxLessons {
		return sub, fmt.Errorf("at most %d lessons are allowed", maxLessons)
	}
	for _, i := range indexes {
		key := func(name string) string { return fmt.Sprintf("lessons[%d][%s]", i, name) }
		row := authoring.LessonForm{
			Title:    formValue(form, key("title")),
			Duration: formValue(form, key("duration")),
			IsFree:   formBool(form, key("is_free")),
			VideoURL: strings.TrimSpace(formValue(form, key("video_url"))),
		}
		if row.File, err = files.Get(key("video")); err != nil {
			return sub, err
		}
		sub.Lessons = append(sub.Lessons, row)
	}
	return sub, nil
}

func lessonIndexes(form *multipart.Form) []int {
	seen := make(map[int]struct{})
	collect := func(key string) {
		m := lessonField.FindStringSubmatch(key)
		if m == nil {
			return
		}
		if i, err := strconv.Atoi(m[1]); err == nil {
			seen[i] = struct{}{}
		}
	}
	for k := range form.Value {
		collect(k)
	}
	for k := range form.File {
		collect(k)
	}
	out := make([]int, 0, len(seen))
	for i := range seen {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
