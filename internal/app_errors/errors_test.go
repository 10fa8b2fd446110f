package app_errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestTypedErrors(t *testing.T) {
	backend := errors.New(`null value in column "title"`)

	tests := []struct {
		name        string
		err         error
		wantMsg     string
		persistence bool
		upload      bool
		validation  bool
	}{
		{
			name:        "persistence",
			err:         fmt.Errorf("add: %w", &PersistenceError{Op: "add course", Err: backend}),
			wantMsg:     `add: failed to add course: null value in column "title"`,
			persistence: true,
		},
		{
			name:    "upload",
			err:     &UploadError{Bucket: "cvs", Name: "cv.pdf", Err: backend},
			wantMsg: `failed to upload "cv.pdf" to cvs: null value in column "title"`,
			upload:  true,
		},
		{
			name:       "validation with field",
			err:        &ValidationError{Field: "title", Message: "is required"},
			wantMsg:    "title: is required",
			validation: true,
		},
		{
			name:       "validation without field",
			err:        &ValidationError{Message: "a cv is required"},
			wantMsg:    "a cv is required",
			validation: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := IsPersistence(tt.err); got != tt.persistence {
				t.Errorf("IsPersistence() = %v, want %v", got, tt.persistence)
			}
			if got := IsUpload(tt.err); got != tt.upload {
				t.Errorf("IsUpload() = %v, want %v", got, tt.upload)
			}
			if got := IsValidation(tt.err); got != tt.validation {
				t.Errorf("IsValidation() = %v, want %v", got, tt.validation)
			}
			if (tt.persistence || tt.upload) && !errors.Is(tt.err, backend) {
				t.Errorf("errors.Is(%v, backend) = false, want the backend error to unwrap", tt.err)
			}
		})
	}
}
