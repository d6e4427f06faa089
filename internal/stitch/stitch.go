// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stitch runs the merge pipeline: it validates an ordered batch,
// hands every file to the adapter for its kind, and concatenates the
// normalized documents in batch order into one PDF.
package stitch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/docstitch/internal/adapt"
	"github.com/pdiddy/docstitch/internal/normalize"
	"github.com/pdiddy/docstitch/pkg/types"
)

// ErrEmptyBatch is returned when Process is called without files.
var ErrEmptyBatch = errors.New("batch has no files")

// Pipeline merges batches. It keeps no state between calls.
type Pipeline struct {
	adapters map[types.Kind]adapt.Adapter
	workers  int
	log      *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWorkers sets how many files are adapted at once. Values below 1 mean
// one file at a time.
func WithWorkers(n int) Option {
	return func(p *Pipeline) { p.workers = n }
}

// WithLogger sets the structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// New creates a Pipeline dispatching to adapters by kind.
func New(adapters map[types.Kind]adapt.Adapter, opts ...Option) *Pipeline {
	p := &Pipeline{adapters: adapters, workers: 1, log: zap.NewNop()}
	for _, o := range opts {
		o(p)
	}
	if p.workers < 1 {
		p.workers = 1
	}
	return p
}

// Process normalizes every file of batch and concatenates the results in
// batch order. Extensions are checked before any file is touched. The first
// failure aborts the whole merge and is returned as a *types.FileError; no
// partial document is produced.
func (p *Pipeline) Process(ctx context.Context, batch types.Batch) (*types.MergedDocument, error) {
	if len(batch) == 0 {
		return nil, ErrEmptyBatch
	}
	if err := batch.Validate(); err != nil {
		return nil, err
	}
	kinds := make([]types.Kind, len(batch))
	for i, f := range batch {
		kinds[i], _ = f.Kind()
		if _, ok := p.adapters[kinds[i]]; !ok {
			return nil, &types.FileError{Name: f.Name, Ext: f.Ext(), Err: types.ErrUnsupportedFileType}
		}
	}

	start := time.Now()
	docs := make([]*normalize.Document, len(batch))

	// Results are slotted by index, so completion order never leaks into
	// output order.
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(p.workers)
	for i, f := range batch {
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := p.adapt(gctx, f, kinds[i])
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		p.log.Error("merge aborted", zap.Error(err))
		return nil, err
	}

	merged, err := p.concat(docs)
	if err != nil {
		return nil, err
	}

	out := &types.MergedDocument{Data: merged, Sources: make([]types.SourcePages, len(batch))}
	for i, f := range batch {
		out.Sources[i] = types.SourcePages{Name: f.Name, Kind: kinds[i], Pages: docs[i].Pages}
		out.Pages += docs[i].Pages
	}

	got, err := normalize.PageCount(merged)
	if err != nil {
		return nil, fmt.Errorf("reading merged document: %w", err)
	}
	if got != out.Pages {
		return nil, fmt.Errorf("merged document has %d pages, expected %d", got, out.Pages)
	}

	p.log.Info("merge complete",
		zap.Int("files", len(batch)),
		zap.Int("pages", out.Pages),
		zap.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}

func (p *Pipeline) adapt(ctx context.Context, f types.InputFile, kind types.Kind) (*normalize.Document, error) {
	log := p.log.With(zap.String("file", f.Name), zap.String("kind", string(kind)))
	log.Debug("adapting file", zap.Int("bytes", len(f.Data)))

	doc, err := p.adapters[kind].Adapt(ctx, f.Data)
	if err != nil {
		log.Warn("file failed", zap.Error(err))
		return nil, &types.FileError{Name: f.Name, Ext: f.Ext(), Err: err}
	}
	log.Debug("file normalized", zap.Int("pages", doc.Pages))
	return doc, nil
}

// concat appends the documents in order into one PDF.
func (p *Pipeline) concat(docs []*normalize.Document) ([]byte, error) {
	if len(docs) == 1 {
		return docs[0].Data, nil
	}
	readers := make([]io.ReadSeeker, len(docs))
	for i, d := range docs {
		readers[i] = bytes.NewReader(d.Data)
	}
	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, normalize.Configuration()); err != nil {
		return nil, fmt.Errorf("%w: merging: %v", types.ErrMalformedDocument, err)
	}
	return out.Bytes(), nil
}
