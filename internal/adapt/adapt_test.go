// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package adapt

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/docstitch/internal/normalize"
	"github.com/pdiddy/docstitch/internal/pdftest"
	"github.com/pdiddy/docstitch/pkg/types"
)

// fakeRenderer returns canned PDF bytes or an error.
type fakeRenderer struct {
	output []byte
	err    error
	calls  int
}

func (f *fakeRenderer) Render(context.Context, []byte) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.output, nil
}

func assertA4(t *testing.T, doc *normalize.Document, pages int) {
	t.Helper()
	require.Equal(t, pages, doc.Pages)
	boxes, err := normalize.Boxes(doc.Data)
	require.NoError(t, err)
	require.Len(t, boxes, pages)
	for _, b := range boxes {
		assert.Equal(t, normalize.Box{URX: 595, URY: 842}, b)
	}
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h)), nil))
	return buf.Bytes()
}

func TestImageAdapt(t *testing.T) {
	tests := []struct {
		name string
		data func(t *testing.T) []byte
	}{
		{name: "png 300x400", data: func(*testing.T) []byte { return pdftest.PNG(300, 400) }},
		{name: "wide png", data: func(*testing.T) []byte { return pdftest.PNG(800, 200) }},
		{name: "jpeg", data: func(t *testing.T) []byte { return jpegBytes(t, 640, 480) }},
	}
	a := NewImage(normalize.New(types.A4))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := a.Adapt(context.Background(), tt.data(t))
			require.NoError(t, err)
			assertA4(t, doc, 1)
		})
	}
}

func TestWrapImageUsesNativeSize(t *testing.T) {
	wrapped, err := wrapImage(pdftest.PNG(300, 400))
	require.NoError(t, err)
	boxes, err := normalize.Boxes(wrapped)
	require.NoError(t, err)
	require.Len(t, boxes, 1)
	assert.InDelta(t, 300, boxes[0].Width(), 0.5)
	assert.InDelta(t, 400, boxes[0].Height(), 0.5)
}

func TestImageAdaptRejectsUndecodable(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "text", data: []byte("definitely not an image")},
		{name: "empty", data: nil},
		{name: "pdf bytes", data: pdftest.A4(1)},
	}
	a := NewImage(normalize.New(types.A4))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Adapt(context.Background(), tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrUnsupportedImageFormat)
		})
	}
}

func TestDocumentAdapt(t *testing.T) {
	n := normalize.New(types.A4)

	t.Run("rendered pages are normalized", func(t *testing.T) {
		r := &fakeRenderer{output: pdftest.Letter(2)}
		doc, err := NewDocument(n, r).Adapt(context.Background(), []byte("docx"))
		require.NoError(t, err)
		assertA4(t, doc, 2)
		assert.Equal(t, 1, r.calls)
	})

	t.Run("renderer failure propagates", func(t *testing.T) {
		r := &fakeRenderer{err: fmt.Errorf("%w: no output file", types.ErrConversionFailed)}
		_, err := NewDocument(n, r).Adapt(context.Background(), []byte("docx"))
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrConversionFailed)
	})

	t.Run("garbage from renderer is malformed", func(t *testing.T) {
		r := &fakeRenderer{output: []byte("not a pdf")}
		_, err := NewDocument(n, r).Adapt(context.Background(), []byte("docx"))
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrMalformedDocument)
	})

	t.Run("missing renderer", func(t *testing.T) {
		_, err := NewDocument(n, nil).Adapt(context.Background(), []byte("docx"))
		assert.ErrorIs(t, err, types.ErrConversionFailed)
	})
}

func TestPDFAdapt(t *testing.T) {
	doc, err := NewPDF(normalize.New(types.A4)).Adapt(context.Background(), pdftest.A4(3))
	require.NoError(t, err)
	assertA4(t, doc, 3)

	_, err = NewPDF(normalize.New(types.A4)).Adapt(context.Background(), []byte("%PDF-garbage"))
	assert.ErrorIs(t, err, types.ErrMalformedDocument)
}

func TestForKinds(t *testing.T) {
	table := ForKinds(normalize.New(types.A4), &fakeRenderer{})
	assert.Len(t, table, 3)
	assert.IsType(t, &PDF{}, table[types.KindPDF])
	assert.IsType(t, &Image{}, table[types.KindImage])
	assert.IsType(t, &Document{}, table[types.KindDOCX])
}
