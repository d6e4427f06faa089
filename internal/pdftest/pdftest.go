// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftest builds small, valid PDF files for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

// Page describes one page of a generated document. Label is drawn as a
// comment in the content stream so tests can tell pages apart after a merge.
type Page struct {
	Width  float64
	Height float64
	Label  string
}

// Build returns a PDF with one page per entry. Each page carries a single
// content stream drawing a diagonal line.
func Build(pages ...Page) []byte {
	var buf bytes.Buffer
	var offsets []int

	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	obj("<< /Type /Catalog /Pages 2 0 R >>")

	var kids bytes.Buffer
	for i := range pages {
		fmt.Fprintf(&kids, "%d 0 R ", 3+2*i)
	}
	obj(fmt.Sprintf("<< /Type /Pages /Kids [ %s] /Count %d >>", kids.String(), len(pages)))

	for i, p := range pages {
		pageObj := 3 + 2*i
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %s %s] /Resources << >> /Contents %d 0 R >>",
			num(p.Width), num(p.Height), pageObj+1))
		content := fmt.Sprintf("%% %s\n0 0 m %s %s l S\n", p.Label, num(p.Width), num(p.Height))
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", len(content), content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

// A4 returns n pages already at 595x842.
func A4(n int) []byte {
	pages := make([]Page, n)
	for i := range pages {
		pages[i] = Page{Width: 595, Height: 842, Label: fmt.Sprintf("a4-%d", i+1)}
	}
	return Build(pages...)
}

// Letter returns n US Letter pages (612x792).
func Letter(n int) []byte {
	pages := make([]Page, n)
	for i := range pages {
		pages[i] = Page{Width: 612, Height: 792, Label: fmt.Sprintf("letter-%d", i+1)}
	}
	return Build(pages...)
}

// PNG returns an encoded w x h PNG filled with a solid color.
func PNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func num(f float64) string {
	return fmt.Sprintf("%g", f)
}
