// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest reads and writes batch manifests: YAML files naming the
// merged output and the ordered list of inputs. A saved manifest lets a merge
// be repeated without retyping the order.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docstitch/pkg/types"
)

// Manifest is the on-disk representation of a batch.
type Manifest struct {
	Output  string    `yaml:"output"`
	Files   []string  `yaml:"files"`
	Created time.Time `yaml:"created,omitempty"`
}

// ErrEmpty is returned when a manifest lists no files.
var ErrEmpty = errors.New("manifest lists no files")

// Read parses the manifest at path.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if len(m.Files) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	return &m, nil
}

// Write saves m to path, creating parent directories.
func Write(path string, m *Manifest) error {
	if len(m.Files) == 0 {
		return ErrEmpty
	}
	if m.Created.IsZero() {
		m.Created = time.Now().UTC()
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating manifest directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Resolve returns the manifest's file paths, with relative entries joined to
// the directory holding the manifest.
func (m *Manifest) Resolve(manifestPath string) []string {
	dir := filepath.Dir(manifestPath)
	paths := make([]string, len(m.Files))
	for i, f := range m.Files {
		if filepath.IsAbs(f) {
			paths[i] = f
			continue
		}
		paths[i] = filepath.Join(dir, f)
	}
	return paths
}

// Load reads the manifest at path and every file it lists, returning the
// manifest and the batch in manifest order. Batch entries are named by base
// name.
func Load(path string) (*Manifest, types.Batch, error) {
	m, err := Read(path)
	if err != nil {
		return nil, nil, err
	}
	batch, err := ReadFiles(m.Resolve(path))
	if err != nil {
		return nil, nil, err
	}
	return m, batch, nil
}

// ReadFiles reads paths into a batch in the given order.
func ReadFiles(paths []string) (types.Batch, error) {
	batch := make(types.Batch, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		batch = append(batch, types.InputFile{Name: filepath.Base(p), Data: data})
	}
	return batch, nil
}
