// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"time"

	"github.com/pdiddy/docstitch/internal/container"
	"github.com/pdiddy/docstitch/pkg/types"
)

const containerWorkDir = "/work"

// Container renders documents with LibreOffice inside a container image.
// The scoped work directory is bind-mounted at /work.
type Container struct {
	runtime container.Runtime
	image   string
	tempDir string
	timeout time.Duration
}

// NewContainer creates a renderer that uses rt to run cfg.Image. It
// verifies that the image exists locally before returning.
func NewContainer(rt container.Runtime, cfg types.RenderConfig) (*Container, error) {
	image := cfg.Image
	if image == "" {
		image = defaultImage
	}
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("renderer image not available in %s: %w", rt.Name(), err)
	}
	return &Container{
		runtime: rt,
		image:   image,
		tempDir: cfg.TempDir,
		timeout: cfg.Timeout,
	}, nil
}

// Render converts data to PDF inside the container.
func (c *Container) Render(ctx context.Context, data []byte) ([]byte, error) {
	return convertInDir(ctx, c.tempDir, c.timeout, data, func(ctx context.Context, dir, input string) error {
		m := container.Mount{Host: dir, Container: containerWorkDir}
		return c.runtime.Run(ctx, c.image, m,
			"soffice", "--headless", "--norestore",
			"--convert-to", "pdf",
			"--outdir", containerWorkDir,
			path.Join(containerWorkDir, filepath.Base(input)),
		)
	})
}
