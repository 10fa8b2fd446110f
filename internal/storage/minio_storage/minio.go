package minio_storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Options struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	PublicBaseURL string
	PresignTTL    time.Duration
	Buckets       []string
}

type MinioStorage struct {
	client        *minio.Client
	publicBaseURL string
	presignTTL    time.Duration
	healthBucket   string
}

// NewMinioStorage connects and makes sure every bucket exists.
func NewMinioStorage(ctx context.Context, opts Options) (*MinioStorage, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	for _, bucket := range opts.Buckets {
		exists, err := client.BucketExists(ctx, bucket)
		if err != nil {
			return nil, fmt.Errorf("error checking bucket %s: %w", bucket, err)
		}
		if !exists {
			if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
				return nil, fmt.Errorf("error creating bucket %s: %w", bucket, err)
			}
		}
	}

	s := &MinioStorage{
		client:        client,
		publicBaseURL: strings.TrimRight(opts.PublicBaseURL, "/"),
		presignTTL:    opts.PresignTTL,
	}
	if len(opts.Buckets) > 0 {
		s.healthBucket = opts.Buckets[0]
	}
	return s, nil
}

// Ping checks that the first configured bucket is reachable.
func (s *MinioStorage) Ping(ctx context.Context) error {
	if s.healthBucket == "" {
		return nil
	}
	_, err := s.client.BucketExists(ctx, s.healthBucket)
	return err
}
