// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docstitch/internal/delivery"
	"github.com/pdiddy/docstitch/internal/history"
	"github.com/pdiddy/docstitch/internal/manifest"
	"github.com/pdiddy/docstitch/internal/publish"
	"github.com/pdiddy/docstitch/pkg/types"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [files...]",
	Short: "Merge images, .docx and PDF files into one A4 PDF",
	Long: `Merge normalizes every page of the given files to A4 portrait and
concatenates them in argument order. Images become one page each at their
native size before scaling; .docx files are rendered through LibreOffice.

The file order can also come from a manifest (--manifest), a YAML file
naming the output and the ordered inputs. The whole merge fails on the
first file that cannot be processed; no partial output is written.`,
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringP("name", "o", "", "name of the merged file; .pdf is appended (required unless the manifest names it)")
	mergeCmd.Flags().String("output-dir", "", "directory for the merged file (default .)")
	mergeCmd.Flags().String("manifest", "", "read the output name and file order from a YAML manifest")
	mergeCmd.Flags().String("save-manifest", "", "write the batch to a YAML manifest for later reruns")
	mergeCmd.Flags().Bool("publish", false, "upload the merged file to the configured object store")
	mergeCmd.Flags().Bool("link", false, "print an HTML download link with the PDF embedded as a data URI")
	mergeCmd.Flags().Bool("no-history", false, "do not record this run in the history store")
	addRenderFlags(mergeCmd)

	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	manifestPath, _ := cmd.Flags().GetString("manifest")
	name, _ := cmd.Flags().GetString("name")

	var (
		batch types.Batch
		files []string
		err   error
	)
	switch {
	case manifestPath != "" && len(args) > 0:
		return fmt.Errorf("give either files or --manifest, not both")
	case manifestPath != "":
		var m *manifest.Manifest
		m, batch, err = manifest.Load(manifestPath)
		if err != nil {
			return err
		}
		files = m.Resolve(manifestPath)
		if name == "" {
			name = m.Output
		}
	case len(args) > 0:
		files = args
		batch, err = manifest.ReadFiles(args)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("provide one or more files to merge, or --manifest")
	}

	fileName, err := delivery.FileName(name)
	if err != nil {
		return fmt.Errorf("%w: use --name", err)
	}
	if dups := batch.Duplicates(); len(dups) > 0 {
		return fmt.Errorf("duplicate file names: %s", strings.Join(dups, ", "))
	}

	cfg := loadConfig()
	applyRenderFlags(cmd, &cfg)
	if cmd.Flags().Changed("output-dir") {
		cfg.Merge.OutputDir, _ = cmd.Flags().GetString("output-dir")
	}

	if savePath, _ := cmd.Flags().GetString("save-manifest"); savePath != "" {
		if err := manifest.Write(savePath, &manifest.Manifest{Output: strings.TrimSuffix(fileName, ".pdf"), Files: files}); err != nil {
			return err
		}
		fmt.Printf("Saved manifest %s\n", savePath)
	}

	noHistory, _ := cmd.Flags().GetBool("no-history")
	store, err := openHistory(cfg.History, noHistory)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	ctx := context.Background()
	run := &history.Run{ID: history.NewRunID(), Output: fileName, Files: batch.Names()}
	start := time.Now()
	doc, err := merge(ctx, cfg, batch)
	run.Duration = time.Since(start)
	if err != nil {
		run.Status = history.StatusFailed
		run.Error = err.Error()
		recordRun(ctx, store, run)
		return err
	}
	run.Status = history.StatusDone
	run.Pages = doc.Pages
	run.Sources = doc.Sources
	recordRun(ctx, store, run)

	for _, src := range doc.Sources {
		fmt.Printf("  %-40s %-5s %d page(s)\n", src.Name, src.Kind, src.Pages)
	}

	path, err := delivery.WriteFile(cfg.Merge.OutputDir, fileName, doc)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d pages, %s)\n", path, doc.Pages, elapsed(run.Duration))

	if link, _ := cmd.Flags().GetBool("link"); link {
		l, err := delivery.NewLink(doc, fileName)
		if err != nil {
			return err
		}
		fmt.Println(l.HTML(""))
	}

	if pub, _ := cmd.Flags().GetBool("publish"); pub {
		p, closeFn, err := openPublisher(ctx, cfg.Publish)
		if err != nil {
			return err
		}
		defer closeFn()
		if p == nil {
			return fmt.Errorf("--publish needs publish.backend set to s3 or gcs")
		}
		url, err := p.Publish(ctx, publish.ObjectKey(cfg.Publish.Prefix, run.ID, fileName), doc.Data)
		if err != nil {
			return err
		}
		fmt.Printf("Published %s\n", url)
	}
	return nil
}

// merge builds a pipeline for batch and runs it.
func merge(ctx context.Context, cfg types.Config, batch types.Batch) (*types.MergedDocument, error) {
	if err := batch.Validate(); err != nil {
		return nil, err
	}
	doc, needsRenderer := firstDocument(batch)
	p, err := newPipeline(cfg, needsRenderer)
	if err != nil {
		if needsRenderer {
			return nil, &types.FileError{
				Name: doc.Name,
				Ext:  doc.Ext(),
				Err:  fmt.Errorf("%w: %v", types.ErrConversionFailed, err),
			}
		}
		return nil, err
	}
	return p.Process(ctx, batch)
}

func recordRun(ctx context.Context, store *history.Store, run *history.Run) {
	if store == nil {
		return
	}
	if err := store.Record(ctx, run); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not record run %s: %v\n", run.ID, err)
	}
}
