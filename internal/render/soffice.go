// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/pdiddy/docstitch/internal/container"
	"github.com/pdiddy/docstitch/pkg/types"
)

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args ...string) error
}

type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, name string, args ...string) error {
	return container.RunCaptured(ctx, name, args...)
}

// Soffice renders documents with a LibreOffice binary on the host.
type Soffice struct {
	bin     string
	tempDir string
	timeout time.Duration
	exec    executor
}

// NewSoffice returns a renderer for cfg. It fails when the binary cannot be
// found on PATH.
func NewSoffice(cfg types.RenderConfig) (*Soffice, error) {
	s := newSoffice(cfg, &osExecutor{})
	if _, err := s.exec.LookPath(s.bin); err != nil {
		return nil, fmt.Errorf("%s not found: %w", s.bin, err)
	}
	return s, nil
}

func newSoffice(cfg types.RenderConfig, exec executor) *Soffice {
	bin := cfg.Soffice
	if bin == "" {
		bin = defaultSoffice
	}
	return &Soffice{
		bin:     bin,
		tempDir: cfg.TempDir,
		timeout: cfg.Timeout,
		exec:    exec,
	}
}

// Render converts data to PDF with soffice --convert-to pdf.
func (s *Soffice) Render(ctx context.Context, data []byte) ([]byte, error) {
	return convertInDir(ctx, s.tempDir, s.timeout, data, func(ctx context.Context, dir, input string) error {
		// A private profile lets conversions run side by side.
		profile := "-env:UserInstallation=file://" + filepath.ToSlash(filepath.Join(dir, "profile"))
		return s.exec.Run(ctx, s.bin,
			"--headless", "--norestore", profile,
			"--convert-to", "pdf",
			"--outdir", dir,
			input,
		)
	})
}
