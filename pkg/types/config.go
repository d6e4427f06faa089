// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RenderBackend identifies the docx-to-PDF rendering tool.
type RenderBackend string

const (
	BackendSoffice   RenderBackend = "soffice"
	BackendContainer RenderBackend = "container"
)

// RenderConfig holds settings for the external docx renderer.
type RenderConfig struct {
	// Backend selects the renderer: soffice (local binary) or container.
	Backend RenderBackend `json:"backend" yaml:"backend"`

	// Soffice is the LibreOffice binary used by the soffice backend
	// (default "soffice").
	Soffice string `json:"soffice" yaml:"soffice"`

	// Image is the container image used by the container backend.
	Image string `json:"image" yaml:"image"`

	// Timeout bounds a single conversion (default 2m). Exceeding it is a
	// conversion failure.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// TempDir is the parent of the scoped per-conversion directories
	// (default os.TempDir()).
	TempDir string `json:"temp_dir" yaml:"temp_dir"`
}

// MergeConfig holds settings for the merge pipeline.
type MergeConfig struct {
	// Workers is the number of files adapted concurrently (default 1).
	// Output order never depends on it.
	Workers int `json:"workers" yaml:"workers"`

	// OutputDir is where the CLI writes merged files (default ".").
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// ServeConfig holds settings for the HTTP delivery server.
type ServeConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// MaxUploadBytes caps the multipart body of one merge request.
	MaxUploadBytes int64 `json:"max_upload_bytes" yaml:"max_upload_bytes"`

	// RequestsPerMinute is the per-IP rate limit on merge requests.
	RequestsPerMinute int `json:"requests_per_minute" yaml:"requests_per_minute"`

	// AllowedOrigins lists CORS origins; empty allows any.
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins"`
}

// HistoryConfig holds settings for the merge run log.
type HistoryConfig struct {
	// Driver is the database/sql driver: sqlite3 or postgres.
	Driver string `json:"driver" yaml:"driver"`

	// DSN is the data source. For sqlite3 it is a file path.
	DSN string `json:"dsn" yaml:"dsn"`
}

// PublishBackend identifies the remote object store for merged files.
type PublishBackend string

const (
	PublishNone PublishBackend = ""
	PublishS3   PublishBackend = "s3"
	PublishGCS  PublishBackend = "gcs"
)

// PublishConfig holds settings for uploading merged files.
type PublishConfig struct {
	Backend  PublishBackend `json:"backend" yaml:"backend"`
	Bucket   string         `json:"bucket" yaml:"bucket"`
	Prefix   string         `json:"prefix" yaml:"prefix"`
	Endpoint string         `json:"endpoint" yaml:"endpoint"`
	Region   string         `json:"region" yaml:"region"`
	Secure   bool           `json:"secure" yaml:"secure"`

	// AccessKey and SecretKey authenticate against S3. They are normally
	// loaded from .secrets/ rather than the config file.
	AccessKey string `json:"access_key,omitempty" yaml:"access_key,omitempty"`
	SecretKey string `json:"secret_key,omitempty" yaml:"secret_key,omitempty"`
}

// Config groups all settings.
type Config struct {
	Render  RenderConfig  `json:"render" yaml:"render"`
	Merge   MergeConfig   `json:"merge" yaml:"merge"`
	Serve   ServeConfig   `json:"serve" yaml:"serve"`
	History HistoryConfig `json:"history" yaml:"history"`
	Publish PublishConfig `json:"publish" yaml:"publish"`
}
