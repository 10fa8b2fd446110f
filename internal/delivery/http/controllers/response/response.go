// Package response writes JSON error bodies with the status matching the
// error.
package response

import (
	"Mumkin/internal/app_errors"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

func Status(err error) int {
	switch {
	case app_errors.IsValidation(err),
		errors.Is(err, app_errors.ErrWeakPassword):
		return http.StatusBadRequest
	case errors.Is(err, app_errors.ErrNotAuthenticated),
		errors.Is(err, app_errors.ErrIncorrectPassword),
		errors.Is(err, app_errors.ErrTokenExpired),
		errors.Is(err, app_errors.ErrTokenNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, app_errors.ErrNotCourseOwner),
		errors.Is(err, app_errors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, app_errors.ErrCourseNotFound),
		errors.Is(err, app_errors.ErrProfileNotFound),
		errors.Is(err, app_errors.ErrApplicationNotFound),
		errors.Is(err, app_errors.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, app_errors.ErrUserExists),
		errors.Is(err, app_errors.ErrAlreadyApplied):
		return http.StatusConflict
	case errors.Is(err, app_errors.ErrOAuthNotConfigured):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// Error aborts with the mapped status. Server errors are attached to the
// context for the logging middleware and their details are not exposed.
func Error(c *gin.Context, err error) {
	status := Status(err)
	if status >= http.StatusInternalServerError && status != http.StatusNotImplemented {
		_ = c.Error(err)
		msg := "internal error"
		if app_errors.IsUpload(err) || app_errors.IsPersistence(err) {
			msg = err.Error()
		}
		c.AbortWithStatusJSON(status, gin.H{"error": msg})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func BadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}
