package minio_storage

import (
	"context"
	"io"
	"mime"
	"net/url"
	"path"

	"github.com/minio/minio-go/v7"
)

func (s *MinioStorage) Put(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) error {
	if contentType == "" {
		contentType = mime.TypeByExtension(path.Ext(key))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
	}
	_, err := s.client.PutObject(ctx, bucket, key, body, size, minio.PutObjectOptions{ContentType: contentType})
	return err
}

// PublicURL prefers the configured public base and falls back to a
// presigned GET link.
func (s *MinioStorage) PublicURL(ctx context.Context, bucket, key string) (string, error) {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + bucket + "/" + url.PathEscape(key), nil
	}
	presigned, err := s.client.PresignedGetObject(ctx, bucket, key, s.presignTTL, make(url.Values))
	if err != nil {
		return "", err
	}
	return presigned.String(), nil
}

