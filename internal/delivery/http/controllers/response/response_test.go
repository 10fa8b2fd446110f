package response

import (
	"Mumkin/internal/app_errors"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &app_errors.ValidationError{Field: "title", Message: "is required"}, http.StatusBadRequest},
		{"weak password", app_errors.ErrWeakPassword, http.StatusBadRequest},
		{"signed out", app_errors.ErrNotAuthenticated, http.StatusUnauthorized},
		{"wrong password", app_errors.ErrIncorrectPassword, http.StatusUnauthorized},
		{"other instructor", app_errors.ErrNotCourseOwner, http.StatusForbidden},
		{"missing course behind persistence", &app_errors.PersistenceError{Op: "delete course", Err: app_errors.ErrCourseNotFound}, http.StatusNotFound},
		{"wrapped application", fmt.Errorf("decide: %w", app_errors.ErrApplicationNotFound), http.StatusNotFound},
		{"duplicate user", app_errors.ErrUserExists, http.StatusConflict},
		{"second application", app_errors.ErrAlreadyApplied, http.StatusConflict},
		{"persistence", &app_errors.PersistenceError{Op: "add course", Err: errors.New("boom")}, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Status(tt.err); got != tt.want {
				t.Errorf("Status(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
