// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batches", "bundle.yaml")
	m := &Manifest{Output: "bundle", Files: []string{"b.pdf", "a.png", "c.docx"}}
	require.NoError(t, Write(path, m))
	assert.False(t, m.Created.IsZero())

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "bundle", got.Output)
	assert.Equal(t, []string{"b.pdf", "a.png", "c.docx"}, got.Files)
	assert.True(t, m.Created.Equal(got.Created))
}

func TestReadHandWritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.yaml")
	writeFile(t, path, "output: claim\nfiles:\n  - receipt.jpg\n  - form.pdf\n")

	m, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "claim", m.Output)
	assert.Equal(t, []string{"receipt.jpg", "form.pdf"}, m.Files)
	assert.True(t, m.Created.IsZero())
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Read(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "reading manifest")

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "files: [unterminated\n")
	_, err = Read(bad)
	assert.ErrorContains(t, err, "parsing manifest")

	empty := filepath.Join(dir, "empty.yaml")
	writeFile(t, empty, "output: x\nfiles: []\n")
	_, err = Read(empty)
	assert.True(t, errors.Is(err, ErrEmpty))
}

func TestWriteEmpty(t *testing.T) {
	err := Write(filepath.Join(t.TempDir(), "m.yaml"), &Manifest{Output: "x"})
	assert.True(t, errors.Is(err, ErrEmpty))
}

func TestResolve(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "elsewhere", "x.pdf")
	m := &Manifest{Files: []string{"a.pdf", "sub/b.png", abs}}

	got := m.Resolve(filepath.Join("/data", "batches", "m.yaml"))
	assert.Equal(t, []string{
		filepath.Join("/data", "batches", "a.pdf"),
		filepath.Join("/data", "batches", "sub", "b.png"),
		abs,
	}, got)
}

func TestLoadKeepsManifestOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "one.pdf"), "1")
	writeFile(t, filepath.Join(dir, "scans", "two.png"), "2")
	writeFile(t, filepath.Join(dir, "three.docx"), "3")
	path := filepath.Join(dir, "m.yaml")
	writeFile(t, path, "output: out\nfiles:\n  - three.docx\n  - one.pdf\n  - scans/two.png\n")

	m, batch, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "out", m.Output)
	assert.Equal(t, []string{"three.docx", "one.pdf", "two.png"}, batch.Names())
	assert.Equal(t, []byte("3"), batch[0].Data)
	assert.Equal(t, []byte("2"), batch[2].Data)
}

func TestLoadMissingInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "m.yaml")
	writeFile(t, path, "output: out\nfiles:\n  - gone.pdf\n")

	_, _, err := Load(path)
	assert.ErrorContains(t, err, "reading input")
}
