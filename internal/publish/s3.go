// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/pdiddy/docstitch/internal/delivery"
	"github.com/pdiddy/docstitch/pkg/types"
)

// S3 publishes to an S3-compatible bucket.
type S3 struct {
	client *minio.Client
	bucket string
	host   string
}

// NewS3 connects to cfg.Endpoint and checks that the bucket exists.
func NewS3(ctx context.Context, cfg types.PublishConfig) (*S3, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, errors.New("s3 publishing needs an endpoint and a bucket")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("creating s3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("checking bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", cfg.Bucket)
	}

	scheme := "http"
	if cfg.Secure {
		scheme = "https"
	}
	return &S3{
		client: client,
		bucket: cfg.Bucket,
		host:   scheme + "://" + cfg.Endpoint,
	}, nil
}

// Publish uploads data and returns its object URL.
func (s *S3) Publish(ctx context.Context, key string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  delivery.ContentType,
		UserMetadata: map[string]string{"stitched-at": time.Now().UTC().Format(time.RFC3339)},
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", key, err)
	}
	return objectURL(s.host, s.bucket, key), nil
}
