// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure is fatal to the whole merge; callers tell the
// kinds apart with errors.Is.
var (
	ErrUnsupportedFileType    = errors.New("unsupported file type")
	ErrUnsupportedImageFormat = errors.New("unsupported image format")
	ErrMalformedDocument      = errors.New("malformed document")
	ErrConversionFailed       = errors.New("document conversion failed")
)

// FileError ties an error kind to the file that caused it.
type FileError struct {
	Name string
	Ext  string
	Err  error
}

func (e *FileError) Error() string {
	ext := e.Ext
	if ext == "" {
		ext = "no extension"
	}
	return fmt.Sprintf("%s (%s): %v", e.Name, ext, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// OrderError reports an ordering that does not name every file exactly once.
type OrderError struct {
	Want int
	Got  int
	Name string
}

func (e *OrderError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("order names %q which is unknown or repeated", e.Name)
	}
	return fmt.Sprintf("order names %d files, batch has %d", e.Got, e.Want)
}
