// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Geometry is a page size in PDF points (1/72 inch).
type Geometry struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// A4 is the target geometry of every output page.
var A4 = Geometry{Width: 595, Height: 842}

// SourcePages records how many normalized pages one input contributed.
type SourcePages struct {
	Name  string `json:"name" yaml:"name"`
	Kind  Kind   `json:"kind" yaml:"kind"`
	Pages int    `json:"pages" yaml:"pages"`
}

// MergedDocument is the finished artifact of one merge. It holds no
// reference back to the input files.
type MergedDocument struct {
	// Data is the merged PDF.
	Data []byte `json:"-" yaml:"-"`

	// Pages is the total page count; it equals the sum of Sources[i].Pages.
	Pages int `json:"pages" yaml:"pages"`

	// Sources lists each input's contribution in output order.
	Sources []SourcePages `json:"sources" yaml:"sources"`
}
