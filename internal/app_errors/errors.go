package app_errors

import (
	"errors"
	"fmt"
)

var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrIncorrectPassword = errors.New("incorrect password")
var ErrWeakPassword = errors.New("password must be 6 to 72 characters long")
var ErrTokenNotFound = errors.New("token not found")
var ErrTokenExpired = errors.New("token expired")
var ErrCourseNotFound = errors.New("course not found")
var ErrProfileNotFound = errors.New("profile not found")
var ErrNotAuthenticated = errors.New("an authenticated user is required")
var ErrOAuthNotConfigured = errors.New("oauth provider is not configured")
var ErrApplicationNotFound = errors.New("application not found")
var ErrAlreadyApplied = errors.New("user has already applied")
var ErrEmptyPublicURL = errors.New("could not get public URL for uploaded file")
var ErrNotCourseOwner = errors.New("course belongs to another instructor")
var ErrForbidden = errors.New("insufficient role")

// PersistenceError is returned when a row insert, update or delete fails.
// Err is the backend error unchanged, so its text ends the message.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

type UploadError struct {
	Bucket string
	Name   string
	Err    error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to upload %q to %s: %v", e.Name, e.Bucket, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// ValidationError is detected locally, before any backend call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsPersistence(err error) bool {
	var p *PersistenceError
	return errors.As(err, &p)
}

func IsUpload(err error) bool {
	var u *UploadError
	return errors.As(err, &u)
}
