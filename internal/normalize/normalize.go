// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize rescales every page of a PDF into a fixed target
// geometry. Page content is scaled uniformly to fit, placed at the left edge
// and centered vertically, and the media box is reset to the target.
package normalize

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	pdftypes "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/pdiddy/docstitch/pkg/types"
)

// Document is a normalized PDF and its page count.
type Document struct {
	Data  []byte
	Pages int
}

// Configuration returns the pdfcpu configuration used for every read and
// write. Validation is relaxed because rendered and scanned inputs are often
// slightly malformed.
func Configuration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Transform is the content matrix applied to one page: a uniform scale
// followed by a translation.
type Transform struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// Fit computes the transform that places a w x h page inside target. The
// scale is the smaller of the two axis ratios so content fits both ways.
// Only the vertical offset is computed; content stays on the left edge.
func Fit(w, h float64, target types.Geometry) Transform {
	scale := min(target.Width/w, target.Height/h)
	return Transform{
		Scale:   scale,
		OffsetY: (target.Height - h*scale) / 2,
	}
}

// Identity reports whether t leaves content where it is.
func (t Transform) Identity() bool {
	return t.Scale == 1 && t.OffsetX == 0 && t.OffsetY == 0
}

// Matrix renders t as a content stream cm operator.
func (t Transform) Matrix() string {
	return fmt.Sprintf("%.5f 0 0 %.5f %.5f %.5f cm", t.Scale, t.Scale, t.OffsetX, t.OffsetY)
}

// Normalizer rewrites PDFs so every page has the target geometry.
type Normalizer struct {
	target types.Geometry
}

// New returns a Normalizer for target.
func New(target types.Geometry) *Normalizer {
	return &Normalizer{target: target}
}

// Target returns the geometry pages are normalized to.
func (n *Normalizer) Target() types.Geometry { return n.target }

// Normalize returns a new document holding every page of data, in order,
// rescaled into the target geometry. Input that cannot be parsed as a paged
// document fails with types.ErrMalformedDocument.
func (n *Normalizer) Normalize(data []byte) (*Document, error) {
	ctx, err := read(data)
	if err != nil {
		return nil, err
	}

	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		if err := n.normalizePage(ctx, pageNr); err != nil {
			return nil, fmt.Errorf("%w: page %d: %v", types.ErrMalformedDocument, pageNr, err)
		}
	}

	var out bytes.Buffer
	if err := api.WriteContext(ctx, &out); err != nil {
		return nil, fmt.Errorf("%w: writing normalized document: %v", types.ErrMalformedDocument, err)
	}
	return &Document{Data: out.Bytes(), Pages: ctx.PageCount}, nil
}

func (n *Normalizer) normalizePage(ctx *model.Context, pageNr int) error {
	pageDict, _, inh, err := ctx.PageDict(pageNr, false)
	if err != nil {
		return err
	}
	if pageDict == nil || inh == nil {
		return errors.New("missing page dictionary")
	}
	box := inh.MediaBox
	if box == nil {
		return errors.New("missing media box")
	}
	if box.Width() <= 0 || box.Height() <= 0 {
		return fmt.Errorf("degenerate media box %v", box)
	}

	content, err := ctx.PageContent(pageDict, pageNr)
	if err != nil && !errors.Is(err, model.ErrNoContent) {
		return err
	}

	t := Fit(box.Width(), box.Height(), n.target)

	var buf bytes.Buffer
	buf.WriteString("q ")
	buf.WriteString(t.Matrix())
	buf.WriteString("\n")
	buf.Write(content)
	buf.WriteString("\nQ\n")

	streamDict, err := ctx.NewStreamDictForBuf(buf.Bytes())
	if err != nil {
		return err
	}
	if err := streamDict.Encode(); err != nil {
		return err
	}
	indRef, err := ctx.IndRefForNewObject(*streamDict)
	if err != nil {
		return err
	}
	pageDict["Contents"] = *indRef

	// The media box is redefined regardless of where the content lands.
	rect := pdftypes.RectForWidthAndHeight(0, 0, n.target.Width, n.target.Height)
	pageDict["MediaBox"] = rect.Array()
	pageDict["CropBox"] = rect.Array()
	return nil
}

// read parses data into a pdfcpu context with a known page count.
func read(data []byte) (*model.Context, error) {
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), Configuration())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrMalformedDocument, err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrMalformedDocument, err)
	}
	if ctx.PageCount == 0 {
		return nil, fmt.Errorf("%w: document has no pages", types.ErrMalformedDocument)
	}
	return ctx, nil
}
