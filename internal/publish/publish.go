// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package publish uploads merged documents to an object store and returns
// a URL the user can download from.
package publish

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/pdiddy/docstitch/pkg/types"
)

// Publisher stores data under key and returns its public URL.
type Publisher interface {
	Publish(ctx context.Context, key string, data []byte) (string, error)
}

// New returns the publisher selected by cfg.Backend, or nil when
// publishing is disabled.
func New(ctx context.Context, cfg types.PublishConfig) (Publisher, error) {
	switch cfg.Backend {
	case types.PublishNone:
		return nil, nil
	case types.PublishS3:
		return NewS3(ctx, cfg)
	case types.PublishGCS:
		return NewGCS(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown publish backend %q (want s3 or gcs)", cfg.Backend)
	}
}

// ObjectKey places a merged file under prefix/runID/fileName.
func ObjectKey(prefix, runID, fileName string) string {
	return path.Join(strings.Trim(prefix, "/"), runID, fileName)
}

// objectURL joins a base URL, bucket and escaped key.
func objectURL(base, bucket, key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(base, "/"), bucket, strings.Join(segments, "/"))
}
