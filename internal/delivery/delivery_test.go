// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package delivery

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/docstitch/pkg/types"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "Quarterly report", want: "Quarterly report.pdf"},
		{in: "merged.pdf", want: "merged.pdf"},
		{in: "merged.PDF", want: "merged.pdf"},
		{in: "  spaced  ", want: "spaced.pdf"},
		{in: "a/b\\c:d", want: "a_b_c_d.pdf"},
		{in: "notes.txt", want: "notes.txt.pdf"},
		{in: "", wantErr: true},
		{in: "   ", wantErr: true},
		{in: "...", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := FileName(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	doc := &types.MergedDocument{Data: []byte("%PDF-1.7 merged"), Pages: 1}

	path, err := WriteFile(dir, "bundle", doc)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "bundle.pdf"), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, doc.Data, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary file is left behind")
}

func TestWriteFileNeedsName(t *testing.T) {
	_, err := WriteFile(t.TempDir(), "", &types.MergedDocument{})
	assert.ErrorIs(t, err, ErrNoName)
}

func TestLink(t *testing.T) {
	doc := &types.MergedDocument{Data: []byte("%PDF-1.7"), Pages: 3}
	link, err := NewLink(doc, "stitched")
	require.NoError(t, err)

	assert.Equal(t, "stitched.pdf", link.FileName)
	assert.Equal(t, 3, link.Pages)
	require.True(t, strings.HasPrefix(link.Href, "data:application/pdf;base64,"))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(link.Href, "data:application/pdf;base64,"))
	require.NoError(t, err)
	assert.Equal(t, doc.Data, raw)

	html := link.HTML("")
	assert.Contains(t, html, `download="stitched.pdf"`)
	assert.Contains(t, html, ">Download Merged PDF</a>")
}
