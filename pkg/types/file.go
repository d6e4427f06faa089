// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data model shared by the stitching stages:
// input files, ordered batches, page geometry, merged output and the
// error kinds every stage reports.
package types

import (
	"path/filepath"
	"strings"
)

// Kind identifies how an input file reaches the page normalizer.
type Kind string

const (
	KindImage Kind = "image"
	KindDOCX  Kind = "docx"
	KindPDF   Kind = "pdf"
)

// kindByExt lists every accepted extension. Anything else is rejected
// before the pipeline runs.
var kindByExt = map[string]Kind{
	".png":  KindImage,
	".jpg":  KindImage,
	".jpeg": KindImage,
	".docx": KindDOCX,
	".pdf":  KindPDF,
}

// Extensions returns the accepted extensions in a stable order.
func Extensions() []string {
	return []string{".png", ".jpg", ".jpeg", ".docx", ".pdf"}
}

// KindForName resolves the Kind of a file from its extension. Matching is
// case-insensitive. Unknown extensions return ErrUnsupportedFileType.
func KindForName(name string) (Kind, error) {
	k, ok := kindByExt[strings.ToLower(filepath.Ext(name))]
	if !ok {
		return "", ErrUnsupportedFileType
	}
	return k, nil
}

// InputFile is one uploaded file. It is never mutated after creation.
type InputFile struct {
	// Name is the original file name and the file's identity within a batch.
	Name string `json:"name" yaml:"name"`

	// Data holds the raw file bytes.
	Data []byte `json:"-" yaml:"-"`
}

// Ext returns the file extension including the leading dot, as uploaded.
func (f InputFile) Ext() string {
	return filepath.Ext(f.Name)
}

// Kind resolves the file kind from its extension.
func (f InputFile) Kind() (Kind, error) {
	return KindForName(f.Name)
}

// Batch is the full set of files submitted for one merge, already in final
// output order.
type Batch []InputFile

// Names returns the file names in batch order.
func (b Batch) Names() []string {
	names := make([]string, len(b))
	for i, f := range b {
		names[i] = f.Name
	}
	return names
}

// Duplicates returns every name that appears more than once, in order of
// first repetition. The pipeline assumes unique names; callers that accept
// uploads check this before merging.
func (b Batch) Duplicates() []string {
	seen := make(map[string]int, len(b))
	var dups []string
	for _, f := range b {
		seen[f.Name]++
		if seen[f.Name] == 2 {
			dups = append(dups, f.Name)
		}
	}
	return dups
}

// Validate checks every extension up front. It returns a *FileError for the
// first unsupported file so nothing is processed for a batch that cannot
// succeed.
func (b Batch) Validate() error {
	for _, f := range b {
		if _, err := f.Kind(); err != nil {
			return &FileError{Name: f.Name, Ext: f.Ext(), Err: err}
		}
	}
	return nil
}

// Reorder returns a new batch following the given name order. The order must
// name every file exactly once.
func (b Batch) Reorder(order []string) (Batch, error) {
	if len(order) != len(b) {
		return nil, &OrderError{Want: len(b), Got: len(order)}
	}
	byName := make(map[string]InputFile, len(b))
	for _, f := range b {
		byName[f.Name] = f
	}
	out := make(Batch, 0, len(order))
	used := make(map[string]bool, len(order))
	for _, name := range order {
		f, ok := byName[name]
		if !ok || used[name] {
			return nil, &OrderError{Want: len(b), Got: len(order), Name: name}
		}
		used[name] = true
		out = append(out, f)
	}
	return out, nil
}
