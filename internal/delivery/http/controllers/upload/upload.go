// Package upload reads multipart file fields into models.Upload values.
package upload

import (
	"Mumkin/internal/models"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// Files keeps the opened parts of one request until Close.
type Files struct {
	c       *gin.Context
	closers []io.Closer
}

func New(c *gin.Context) *Files {
	return &Files{c: c}
}

// Get returns nil without error when the field is absent or empty.
func (f *Files) Get(field string) (*models.Upload, error) {
	fh, err := f.c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	if fh.Size == 0 {
		return nil, nil
	}
	file, err := fh.Open()
	if err != nil {
		return nil, err
	}
	f.closers = append(f.closers, file)

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(fh.Filename))); byExt != "" {
			contentType = byExt
		}
	}
	return &models.Upload{
		Name:        fh.Filename,
		Size:        fh.Size,
		ContentType: contentType,
		Body:        file,
	}, nil
}

func (f *Files) Close() {
	for _, c := range f.closers {
		_ = c.Close()
	}
	f.closers = nil
}
