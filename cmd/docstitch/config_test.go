// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/docstitch/internal/pdftest"
	"github.com/pdiddy/docstitch/internal/secrets"
	"github.com/pdiddy/docstitch/pkg/types"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	viper.SetEnvPrefix("DOCSTITCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()
	t.Cleanup(viper.Reset)
}

func TestLoadConfigDefaults(t *testing.T) {
	resetViper(t)

	cfg := loadConfig()
	assert.Equal(t, types.BackendSoffice, cfg.Render.Backend)
	assert.Equal(t, 2*time.Minute, cfg.Render.Timeout)
	assert.Equal(t, 1, cfg.Merge.Workers)
	assert.Equal(t, ":8080", cfg.Serve.Addr)
	assert.Equal(t, "sqlite3", cfg.History.Driver)
	assert.Equal(t, types.PublishNone, cfg.Publish.Backend)
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("DOCSTITCH_RENDER_BACKEND", "container")
	t.Setenv("DOCSTITCH_RENDER_TIMEOUT", "45s")
	t.Setenv("DOCSTITCH_MERGE_WORKERS", "4")
	t.Setenv("DOCSTITCH_PUBLISH_BACKEND", "s3")
	resetViper(t)

	cfg := loadConfig()
	assert.Equal(t, types.BackendContainer, cfg.Render.Backend)
	assert.Equal(t, 45*time.Second, cfg.Render.Timeout)
	assert.Equal(t, 4, cfg.Merge.Workers)
	assert.Equal(t, types.PublishS3, cfg.Publish.Backend)
}

func TestLoadConfigSecrets(t *testing.T) {
	resetViper(t)
	saved := loadedSecrets
	t.Cleanup(func() { loadedSecrets = saved })

	loadedSecrets = map[string]string{secrets.S3AccessKey: "ak", secrets.S3SecretKey: "sk"}
	cfg := loadConfig()
	assert.Equal(t, "ak", cfg.Publish.AccessKey)
	assert.Equal(t, "sk", cfg.Publish.SecretKey)

	viper.Set("publish.access_key", "from-config")
	assert.Equal(t, "from-config", loadConfig().Publish.AccessKey)
}

func TestApplyRenderFlags(t *testing.T) {
	resetViper(t)
	cmd := &cobra.Command{Use: "test"}
	addRenderFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--renderer", "container", "--workers", "3"}))

	cfg := loadConfig()
	applyRenderFlags(cmd, &cfg)
	assert.Equal(t, types.BackendContainer, cfg.Render.Backend)
	assert.Equal(t, 3, cfg.Merge.Workers)
	assert.Equal(t, 2*time.Minute, cfg.Render.Timeout, "unset flags keep config values")
}

func TestFirstDocument(t *testing.T) {
	_, ok := firstDocument(types.Batch{{Name: "a.pdf"}, {Name: "b.png"}})
	assert.False(t, ok)

	f, ok := firstDocument(types.Batch{{Name: "a.pdf"}, {Name: "Letter.DOCX"}, {Name: "b.docx"}})
	assert.True(t, ok)
	assert.Equal(t, "Letter.DOCX", f.Name)

	_, ok = firstDocument(types.Batch{{Name: "notes.txt"}})
	assert.False(t, ok)
}

func TestMergeMissingRendererIsConversionFailure(t *testing.T) {
	resetViper(t)
	cfg := loadConfig()
	cfg.Render.Soffice = filepath.Join(t.TempDir(), "no-such-soffice")

	batch := types.Batch{
		{Name: "cover.pdf", Data: pdftest.A4(1)},
		{Name: "letter.docx", Data: []byte("PK")},
	}
	_, err := merge(context.Background(), cfg, batch)

	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrConversionFailed)
	var fe *types.FileError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "letter.docx", fe.Name)
	assert.Equal(t, ".docx", fe.Ext)
	assert.Contains(t, err.Error(), "no-such-soffice")
}

func TestMergeWithoutDocumentsSkipsRenderer(t *testing.T) {
	resetViper(t)
	cfg := loadConfig()
	cfg.Render.Soffice = filepath.Join(t.TempDir(), "no-such-soffice")

	doc, err := merge(context.Background(), cfg, types.Batch{{Name: "cover.pdf", Data: pdftest.A4(2)}})
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Pages)
}
