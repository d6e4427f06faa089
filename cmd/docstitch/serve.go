// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/docstitch/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the merge pipeline over HTTP",
	Long: `Serve starts an HTTP server. POST /merge takes multipart "file" parts in
upload order, optional "order" values naming the final order, a required
"name" for the merged file and an optional "delivery" of attachment, link or
publish. GET /runs lists recent merges and GET /healthz reports liveness.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	serveCmd.Flags().Bool("no-history", false, "do not record merges in the history store")
	addRenderFlags(serveCmd)

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	applyRenderFlags(cmd, &cfg)
	if cmd.Flags().Changed("addr") {
		cfg.Serve.Addr, _ = cmd.Flags().GetString("addr")
	}

	log, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync()
	logger = log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline, err := newPipeline(cfg, true)
	if err != nil {
		log.Warn("docx rendering disabled", zap.Error(err))
		if pipeline, err = newPipeline(cfg, false); err != nil {
			return err
		}
	}

	noHistory, _ := cmd.Flags().GetBool("no-history")
	store, err := openHistory(cfg.History, noHistory)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	pub, closePub, err := openPublisher(ctx, cfg.Publish)
	if err != nil {
		return err
	}
	defer closePub()

	opts := []server.Option{server.WithLogger(log), server.WithHistory(store)}
	if pub != nil {
		opts = append(opts, server.WithPublisher(pub, cfg.Publish.Prefix))
	}
	return server.New(cfg.Serve, pipeline, opts...).ListenAndServe(ctx)
}
