// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindForName(t *testing.T) {
	tests := []struct {
		name    string
		want    Kind
		wantErr bool
	}{
		{"scan.png", KindImage, false},
		{"photo.jpg", KindImage, false},
		{"photo.JPEG", KindImage, false},
		{"letter.docx", KindDOCX, false},
		{"Report.PDF", KindPDF, false},
		{"archive.tar.pdf", KindPDF, false},
		{"notes.txt", "", true},
		{"legacy.doc", "", true},
		{"image.gif", "", true},
		{"README", "", true},
		{".pdf.bak", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := KindForName(tt.name)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnsupportedFileType))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtensionsCoverKinds(t *testing.T) {
	for _, ext := range Extensions() {
		_, err := KindForName("x" + ext)
		assert.NoError(t, err, ext)
	}
	assert.Len(t, Extensions(), len(kindByExt))
}

func TestBatchDuplicates(t *testing.T) {
	b := Batch{{Name: "a.pdf"}, {Name: "b.png"}, {Name: "a.pdf"}, {Name: "c.docx"}, {Name: "b.png"}, {Name: "a.pdf"}}
	assert.Equal(t, []string{"a.pdf", "b.png"}, b.Duplicates())
	assert.Empty(t, Batch{{Name: "a.pdf"}, {Name: "A.pdf"}}.Duplicates(), "names are case-sensitive identities")
}

func TestBatchValidate(t *testing.T) {
	assert.NoError(t, Batch{{Name: "a.pdf"}, {Name: "b.JPG"}, {Name: "c.docx"}}.Validate())

	err := Batch{{Name: "a.pdf"}, {Name: "notes.txt"}, {Name: "more.rtf"}}.Validate()
	var fe *FileError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "notes.txt", fe.Name)
	assert.Equal(t, ".txt", fe.Ext)
	assert.True(t, errors.Is(err, ErrUnsupportedFileType))
	assert.Equal(t, "notes.txt (.txt): unsupported file type", err.Error())
}

func TestFileErrorNoExtension(t *testing.T) {
	err := Batch{{Name: "README"}}.Validate()
	assert.Equal(t, "README (no extension): unsupported file type", err.Error())
}

func TestBatchReorder(t *testing.T) {
	b := Batch{{Name: "a.pdf", Data: []byte("A")}, {Name: "b.png", Data: []byte("B")}, {Name: "c.docx", Data: []byte("C")}}

	got, err := b.Reorder([]string{"c.docx", "a.pdf", "b.png"})
	require.NoError(t, err)
	assert.Equal(t, []string{"c.docx", "a.pdf", "b.png"}, got.Names())
	assert.Equal(t, []byte("C"), got[0].Data)
	assert.Equal(t, []string{"a.pdf", "b.png", "c.docx"}, b.Names(), "receiver is unchanged")

	tests := []struct {
		name  string
		order []string
		want  string
	}{
		{"too few", []string{"a.pdf", "b.png"}, "order names 2 files, batch has 3"},
		{"unknown", []string{"a.pdf", "b.png", "z.pdf"}, `order names "z.pdf" which is unknown or repeated`},
		{"repeated", []string{"a.pdf", "a.pdf", "b.png"}, `order names "a.pdf" which is unknown or repeated`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Reorder(tt.order)
			var oe *OrderError
			require.True(t, errors.As(err, &oe))
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestInputFileExt(t *testing.T) {
	f := InputFile{Name: "Scan.JPEG"}
	assert.Equal(t, ".JPEG", f.Ext())
	k, err := f.Kind()
	require.NoError(t, err)
	assert.Equal(t, KindImage, k)
}
