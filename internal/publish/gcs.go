// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"

	"github.com/pdiddy/docstitch/internal/delivery"
	"github.com/pdiddy/docstitch/pkg/types"
)

const gcsHost = "https://storage.googleapis.com"

// GCS publishes to a Google Cloud Storage bucket using application default
// credentials.
type GCS struct {
	client *storage.Client
	bucket string
}

// NewGCS creates a storage client for cfg.Bucket.
func NewGCS(ctx context.Context, cfg types.PublishConfig) (*GCS, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("gcs publishing needs a bucket")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Storage client: %w", err)
	}
	return &GCS{client: client, bucket: cfg.Bucket}, nil
}

// Publish uploads data and returns its object URL.
func (g *GCS) Publish(ctx context.Context, key string, data []byte) (string, error) {
	writeCtx, cancel := context.WithTimeout(ctx, 50*time.Second)
	defer cancel()

	w := g.client.Bucket(g.bucket).Object(key).NewWriter(writeCtx)
	w.ContentType = delivery.ContentType
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("io.Copy to GCS failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer (finalize upload): %w", err)
	}
	return objectURL(gcsHost, g.bucket, key), nil
}

// Close releases the storage client.
func (g *GCS) Close() error {
	return g.client.Close()
}
