package course

import (
	"Mumkin/internal/app_errors"
	"Mumkin/internal/models"
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9_ -]`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
)

// AssetKey builds "<unix-millis>_<nonce>_<base>.<ext>" from an original file
// name.
func AssetKey(name string, now time.Time, nonce string) string {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if base == "" {
		base = name
	}
	ext = strings.ToLower(ext)
	if ext == "" {
		ext = "file"
	}

	base = unsafeNameChars.ReplaceAllString(base, "")
	base = whitespaceRun.ReplaceAllString(strings.TrimSpace(base), "_")
	if base == "" {
		base = "upload"
	}
	return fmt.Sprintf("%d_%s_%s.%s", now.UnixMilli(), nonce, base, ext)
}

// UploadAsset stores u under a fresh key in bucket and returns its public
// URL. Every failure is an *app_errors.UploadError.
func (s *CourseService) UploadAsset(ctx context.Context, u models.Upload, bucket string) (string, error) {
	key := AssetKey(u.Name, time.Now(), strings.ReplaceAll(uuid.NewString(), "-", "")[:8])

	if err := s.assetRepo.Put(ctx, bucket, key, u.Body, u.Size, u.ContentType); err != nil {
		s.log.ErrorErr("UploadAsset: failed to store object", err, "bucket", bucket, "key", key)
		return "", &app_errors.UploadError{Bucket: bucket, Name: u.Name, Err: err}
	}
	url, err := s.assetRepo.PublicURL(ctx, bucket, key)
	if err != nil {
		return "", &app_errors.UploadError{Bucket: bucket, Name: u.Name, Err: err}
	}
	if url == "" {
		return "", &app_errors.UploadError{Bucket: bucket, Name: u.Name, Err: app_errors.ErrEmptyPublicURL}
	}
	return url, nil
}
