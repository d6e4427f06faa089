// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package adapt converts each supported input kind into a normalized PDF.
// Images are wrapped into a one-page PDF at their native size, documents go
// through an external renderer, and PDFs are normalized directly.
package adapt

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdftypes "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/pdiddy/docstitch/internal/normalize"
	"github.com/pdiddy/docstitch/internal/render"
	"github.com/pdiddy/docstitch/pkg/types"
)

// Adapter turns the bytes of one input file into a normalized document.
type Adapter interface {
	Adapt(ctx context.Context, data []byte) (*normalize.Document, error)
}

// ForKinds builds the dispatch table used by the merge pipeline.
func ForKinds(n *normalize.Normalizer, r render.Renderer) map[types.Kind]Adapter {
	return map[types.Kind]Adapter{
		types.KindPDF:   &PDF{normalizer: n},
		types.KindImage: &Image{normalizer: n},
		types.KindDOCX:  &Document{normalizer: n, renderer: r},
	}
}

// PDF normalizes native PDF input.
type PDF struct {
	normalizer *normalize.Normalizer
}

// NewPDF returns a PDF adapter.
func NewPDF(n *normalize.Normalizer) *PDF { return &PDF{normalizer: n} }

func (p *PDF) Adapt(_ context.Context, data []byte) (*normalize.Document, error) {
	return p.normalizer.Normalize(data)
}

// Image wraps a raster image into a single page sized to the image's pixel
// dimensions, then normalizes it. Pixel data is embedded without resampling.
type Image struct {
	normalizer *normalize.Normalizer
}

// NewImage returns an Image adapter.
func NewImage(n *normalize.Normalizer) *Image { return &Image{normalizer: n} }

func (a *Image) Adapt(_ context.Context, data []byte) (*normalize.Document, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrUnsupportedImageFormat, err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("%w: %s image has zero size", types.ErrUnsupportedImageFormat, format)
	}

	wrapped, err := wrapImage(data)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding %s image: %v", types.ErrUnsupportedImageFormat, format, err)
	}
	return a.normalizer.Normalize(wrapped)
}

// wrapImage builds a one-page PDF whose page equals the image dimensions.
func wrapImage(data []byte) ([]byte, error) {
	imp, err := api.Import("pos:full", pdftypes.POINTS)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := api.ImportImages(nil, &out, []io.Reader{bytes.NewReader(data)}, imp, normalize.Configuration()); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Document renders word-processor input to PDF and normalizes the result.
type Document struct {
	normalizer *normalize.Normalizer
	renderer   render.Renderer
}

// NewDocument returns a Document adapter backed by r.
func NewDocument(n *normalize.Normalizer, r render.Renderer) *Document {
	return &Document{normalizer: n, renderer: r}
}

func (d *Document) Adapt(ctx context.Context, data []byte) (*normalize.Document, error) {
	if d.renderer == nil {
		return nil, fmt.Errorf("%w: no document renderer configured", types.ErrConversionFailed)
	}
	pdf, err := d.renderer.Render(ctx, data)
	if err != nil {
		return nil, err
	}
	return d.normalizer.Normalize(pdf)
}
