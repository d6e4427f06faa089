// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docstitch/internal/adapt"
	"github.com/pdiddy/docstitch/internal/history"
	"github.com/pdiddy/docstitch/internal/normalize"
	"github.com/pdiddy/docstitch/internal/publish"
	"github.com/pdiddy/docstitch/internal/render"
	"github.com/pdiddy/docstitch/internal/secrets"
	"github.com/pdiddy/docstitch/internal/stitch"
	"github.com/pdiddy/docstitch/pkg/types"
)

func setDefaults() {
	viper.SetDefault("render.backend", string(types.BackendSoffice))
	viper.SetDefault("render.soffice", "soffice")
	viper.SetDefault("render.image", "libreoffice:latest")
	viper.SetDefault("render.timeout", "2m")
	viper.SetDefault("merge.workers", 1)
	viper.SetDefault("merge.output_dir", ".")
	viper.SetDefault("serve.addr", ":8080")
	viper.SetDefault("serve.max_upload_bytes", 64<<20)
	viper.SetDefault("serve.requests_per_minute", 30)
	viper.SetDefault("history.driver", "sqlite3")
	viper.SetDefault("history.dsn", ".docstitch/history.db")
	viper.SetDefault("publish.region", "us-east-1")
	viper.SetDefault("publish.secure", true)
}

// loadConfig reads settings from viper (config file, DOCSTITCH_* env and
// defaults). Command flags are applied on top by the commands.
func loadConfig() types.Config {
	return types.Config{
		Render: types.RenderConfig{
			Backend: types.RenderBackend(viper.GetString("render.backend")),
			Soffice: viper.GetString("render.soffice"),
			Image:   viper.GetString("render.image"),
			Timeout: viper.GetDuration("render.timeout"),
			TempDir: viper.GetString("render.temp_dir"),
		},
		Merge: types.MergeConfig{
			Workers:   viper.GetInt("merge.workers"),
			OutputDir: viper.GetString("merge.output_dir"),
		},
		Serve: types.ServeConfig{
			Addr:              viper.GetString("serve.addr"),
			MaxUploadBytes:    viper.GetInt64("serve.max_upload_bytes"),
			RequestsPerMinute: viper.GetInt("serve.requests_per_minute"),
			AllowedOrigins:    viper.GetStringSlice("serve.allowed_origins"),
		},
		History: types.HistoryConfig{
			Driver: viper.GetString("history.driver"),
			DSN:    viper.GetString("history.dsn"),
		},
		Publish: types.PublishConfig{
			Backend:   types.PublishBackend(viper.GetString("publish.backend")),
			Bucket:    viper.GetString("publish.bucket"),
			Prefix:    viper.GetString("publish.prefix"),
			Endpoint:  viper.GetString("publish.endpoint"),
			Region:    viper.GetString("publish.region"),
			Secure:    viper.GetBool("publish.secure"),
			AccessKey: secrets.Lookup(loadedSecrets, secrets.S3AccessKey, viper.GetString("publish.access_key")),
			SecretKey: secrets.Lookup(loadedSecrets, secrets.S3SecretKey, viper.GetString("publish.secret_key")),
		},
	}
}

// addRenderFlags registers the renderer flags shared by merge and serve.
func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().String("renderer", "", "docx renderer: soffice or container (default from config, soffice)")
	cmd.Flags().Duration("timeout", 0, "per-document conversion timeout (default 2m)")
	cmd.Flags().Int("workers", 0, "files adapted concurrently (default 1)")
}

// applyRenderFlags overrides cfg with any renderer flags set on cmd.
func applyRenderFlags(cmd *cobra.Command, cfg *types.Config) {
	if cmd.Flags().Changed("renderer") {
		v, _ := cmd.Flags().GetString("renderer")
		cfg.Render.Backend = types.RenderBackend(v)
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Render.Timeout, _ = cmd.Flags().GetDuration("timeout")
	}
	if cmd.Flags().Changed("workers") {
		cfg.Merge.Workers, _ = cmd.Flags().GetInt("workers")
	}
}

// newPipeline wires the normalizer, the adapters and, when needed, the docx
// renderer into a merge pipeline.
func newPipeline(cfg types.Config, withRenderer bool) (*stitch.Pipeline, error) {
	var r render.Renderer
	if withRenderer {
		var err error
		r, err = render.New(cfg.Render)
		if err != nil {
			return nil, err
		}
	}
	adapters := adapt.ForKinds(normalize.New(types.A4), r)
	return stitch.New(adapters,
		stitch.WithWorkers(cfg.Merge.Workers),
		stitch.WithLogger(logger),
	), nil
}

// firstDocument returns the first file of batch that needs the docx
// renderer.
func firstDocument(batch types.Batch) (types.InputFile, bool) {
	for _, f := range batch {
		if k, err := f.Kind(); err == nil && k == types.KindDOCX {
			return f, true
		}
	}
	return types.InputFile{}, false
}

// openHistory opens the run log, or returns nil when disabled.
func openHistory(cfg types.HistoryConfig, disabled bool) (*history.Store, error) {
	if disabled {
		return nil, nil
	}
	return history.Open(cfg)
}

// openPublisher builds the configured publisher. The returned close func is
// never nil.
func openPublisher(ctx context.Context, cfg types.PublishConfig) (publish.Publisher, func(), error) {
	p, err := publish.New(ctx, cfg)
	if err != nil {
		return nil, func() {}, fmt.Errorf("publisher: %w", err)
	}
	closeFn := func() {}
	if c, ok := p.(io.Closer); ok {
		closeFn = func() { c.Close() }
	}
	return p, closeFn, nil
}

// elapsed formats d for progress lines.
func elapsed(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
