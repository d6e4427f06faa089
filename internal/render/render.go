// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns word-processor documents into PDF by invoking a
// headless LibreOffice, either from PATH or inside a container.
//
// Every conversion runs in its own temporary directory: the input is written
// there as document.docx, the converter is told to write into the same
// directory, and the result is read back from document.pdf. The directory is
// removed on every exit path.
package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/docstitch/internal/container"
	"github.com/pdiddy/docstitch/pkg/types"
)

const (
	defaultSoffice = "soffice"
	defaultImage   = "libreoffice:latest"
	defaultTimeout = 2 * time.Minute

	inputName = "document.docx"
)

// Renderer converts document bytes into PDF bytes.
type Renderer interface {
	Render(ctx context.Context, data []byte) ([]byte, error)
}

// New builds the renderer selected by cfg.Backend.
func New(cfg types.RenderConfig) (Renderer, error) {
	switch cfg.Backend {
	case types.BackendSoffice, "":
		return NewSoffice(cfg)
	case types.BackendContainer:
		rt, err := container.DetectRuntime()
		if err != nil {
			return nil, err
		}
		return NewContainer(rt, cfg)
	default:
		return nil, fmt.Errorf("unknown render backend %q (want soffice or container)", cfg.Backend)
	}
}

// OutputPath returns where a converter writing into the input's directory
// puts its PDF: same base name, .pdf extension.
func OutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".pdf"
}

// runFunc invokes the converter for input, writing into dir.
type runFunc func(ctx context.Context, dir, input string) error

// convertInDir runs one conversion inside a scoped temporary directory
// under root. Any failure, including a missing or empty output file or an
// expired deadline, is reported as types.ErrConversionFailed.
func convertInDir(ctx context.Context, root string, timeout time.Duration, data []byte, run runFunc) ([]byte, error) {
	dir, err := os.MkdirTemp(root, "docstitch-render-*")
	if err != nil {
		return nil, fmt.Errorf("%w: creating work dir: %v", types.ErrConversionFailed, err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, inputName)
	if err := os.WriteFile(input, data, 0o600); err != nil {
		return nil, fmt.Errorf("%w: writing input: %v", types.ErrConversionFailed, err)
	}

	if timeout <= 0 {
		timeout = defaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := run(runCtx, dir, input); err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: timed out after %s", types.ErrConversionFailed, timeout)
		}
		return nil, fmt.Errorf("%w: %v", types.ErrConversionFailed, err)
	}

	out, err := os.ReadFile(OutputPath(input))
	if err != nil {
		return nil, fmt.Errorf("%w: no output file: %v", types.ErrConversionFailed, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty output file", types.ErrConversionFailed)
	}
	return out, nil
}
