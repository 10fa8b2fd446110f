// Package listing derives the catalog views shown to visitors from the
// published course collection. Nothing here talks to a backend.
package listing

import (
	"Mumkin/internal/models"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// CategoryAll disables the category filter.
const CategoryAll = "all"

// PageSize is both the initial window and the LoadMore step.
const PageSize = 6

type Page struct {
	Courses []models.Course `json:"courses"`
	Total   int             `json:"total"`
	HasMore bool            `json:"hasMore"`
}

// Match keeps courses in category (unless it is CategoryAll or empty) whose
// title or instructor name contains term, ignoring case. Order is preserved.
func Match(courses []models.Course, category, term string) []models.Course {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]models.Course, 0, len(courses))
	for _, c := range courses {
		if category != "" && category != CategoryAll && c.Category != category {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(c.Title), term) &&
			!strings.Contains(strings.ToLower(c.InstructorName), term) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Window returns the first visible entries of filtered.
func Window(filtered []models.Course, visible int) Page {
	if visible < 0 {
		visible = 0
	}
	n := min(visible, len(filtered))
	return Page{
		Courses: filtered[:n:n],
		Total:   len(filtered),
		HasMore: visible < len(filtered),
	}
}

// Related returns up to n other courses from the same category.
func Related(all []models.Course, course models.Course, n int) []models.Course {
	var out []models.Course
	for _, c := range all {
		if len(out) == n {
			break
		}
		if c.Category == course.Category && c.ID != course.ID {
			out = append(out, c)
		}
	}
	return out
}

func ByInstructor(all []models.Course, instructorID uuid.UUID) []models.Course {
	var out []models.Course
	for _, c := range all {
		if c.InstructorID == instructorID {
			out = append(out, c)
		}
	}
	return out
}

// Categories lists the distinct non-empty categories, sorted, after the
// CategoryAll sentinel.
func Categories(all []models.Course) []string {
	seen := make(map[string]struct{})
	var cats []string
	for _, c := range all {
		if c.Category == "" {
			continue
		}
		if _, ok := seen[c.Category]; !ok {
			seen[c.Category] = struct{}{}
			cats = append(cats, c.Category)
		}
	}
	sort.Strings(cats)
	return append([]string{CategoryAll}, cats...)
}
