// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Box is a page rectangle in points.
type Box struct {
	LLX, LLY, URX, URY float64
}

// Width returns the horizontal extent of b.
func (b Box) Width() float64 { return b.URX - b.LLX }

// Height returns the vertical extent of b.
func (b Box) Height() float64 { return b.URY - b.LLY }

func (b Box) String() string {
	return fmt.Sprintf("[%g %g %g %g]", b.LLX, b.LLY, b.URX, b.URY)
}

// PageInfo describes one page of a document.
type PageInfo struct {
	Number  int
	Box     Box
	Rotate  int
	Content []byte
}

// Inspect reads the effective media box and decoded content of every page.
func Inspect(data []byte) ([]PageInfo, error) {
	ctx, err := read(data)
	if err != nil {
		return nil, err
	}

	pages := make([]PageInfo, 0, ctx.PageCount)
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		pageDict, _, inh, err := ctx.PageDict(pageNr, false)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pageNr, err)
		}
		if pageDict == nil || inh == nil || inh.MediaBox == nil {
			return nil, fmt.Errorf("page %d: missing media box", pageNr)
		}
		content, err := ctx.PageContent(pageDict, pageNr)
		if err != nil && !errors.Is(err, model.ErrNoContent) {
			return nil, fmt.Errorf("page %d: %w", pageNr, err)
		}
		mb := inh.MediaBox
		pages = append(pages, PageInfo{
			Number:  pageNr,
			Box:     Box{LLX: mb.LL.X, LLY: mb.LL.Y, URX: mb.UR.X, URY: mb.UR.Y},
			Rotate:  inh.Rotate,
			Content: content,
		})
	}
	return pages, nil
}

// Boxes returns the media box of every page in order.
func Boxes(data []byte) ([]Box, error) {
	pages, err := Inspect(data)
	if err != nil {
		return nil, err
	}
	boxes := make([]Box, len(pages))
	for i, p := range pages {
		boxes[i] = p.Box
	}
	return boxes, nil
}

// PageCount returns the number of pages in data.
func PageCount(data []byte) (int, error) {
	ctx, err := read(data)
	if err != nil {
		return 0, err
	}
	return ctx.PageCount, nil
}
