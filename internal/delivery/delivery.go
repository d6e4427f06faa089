// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package delivery hands a merged document to the user: as a named file on
// disk, or as a self-contained data link.
package delivery

import (
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pdiddy/docstitch/pkg/types"
)

// ContentType is the media type of every merged document.
const ContentType = "application/pdf"

// ErrNoName is returned when the user did not name the merged file.
var ErrNoName = errors.New("merged file name is required")

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)

// FileName turns a user-supplied name into a safe file name ending in .pdf.
// A trailing .pdf is not doubled.
func FileName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if strings.EqualFold(filepath.Ext(name), ".pdf") {
		name = name[:len(name)-len(".pdf")]
	}
	sanitized := invalidFilenameChars.ReplaceAllString(name, "_")
	sanitized = strings.Trim(sanitized, ". ")
	if sanitized == "" {
		return "", ErrNoName
	}
	return sanitized + ".pdf", nil
}

// WriteFile writes doc into dir under name. The file appears atomically: it
// is written to a temporary sibling and renamed into place.
func WriteFile(dir, name string, doc *types.MergedDocument) (string, error) {
	fileName, err := FileName(name)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".docstitch-*.pdf")
	if err != nil {
		return "", fmt.Errorf("creating temporary output: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(doc.Data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing %s: %w", fileName, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", fileName, err)
	}

	path := filepath.Join(dir, fileName)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("moving output into place: %w", err)
	}
	return path, nil
}

// DataURI encodes doc as a data: URI.
func DataURI(doc *types.MergedDocument) string {
	return "data:" + ContentType + ";base64," + base64.StdEncoding.EncodeToString(doc.Data)
}

// Link is a download link for a merged document.
type Link struct {
	FileName string `json:"file_name"`
	Href     string `json:"href"`
	Pages    int    `json:"pages"`
}

// NewLink builds a data link named after name.
func NewLink(doc *types.MergedDocument, name string) (Link, error) {
	fileName, err := FileName(name)
	if err != nil {
		return Link{}, err
	}
	return Link{FileName: fileName, Href: DataURI(doc), Pages: doc.Pages}, nil
}

// HTML renders l as an anchor element with the download attribute.
func (l Link) HTML(label string) string {
	if label == "" {
		label = "Download Merged PDF"
	}
	return fmt.Sprintf(`<a href="%s" download="%s">%s</a>`, l.Href, html.EscapeString(l.FileName), html.EscapeString(label))
}
