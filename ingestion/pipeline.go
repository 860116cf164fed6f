// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingestion

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/promptharvest/sources"
	"github.com/poiesic/promptharvest/storage"
	"github.com/poiesic/promptharvest/tagging"
)

// Report summarizes one pipeline run.
type Report struct {
	Collected int              // unique records after aggregation
	Upserted  int              // sum of counts reported by the store
	Failures  []AdapterFailure // adapters that contributed nothing
	Duration  time.Duration
}

// Pipeline runs fetch, aggregate, enrich and persist in that order.
type Pipeline struct {
	store        storage.PromptStore
	adapters     []sources.Adapter
	orchestrator *Orchestrator
	persister    *Persister
	tagger       *tagging.Tagger
	chunkSize    int
	progress     io.Writer
	metrics      *Metrics
	logger       *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithChunkSize sets the number of rows per upsert call.
// Default is DefaultChunkSize.
func WithChunkSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			return ErrInvalidChunkSize
		}
		p.chunkSize = size
		return nil
	}
}

// WithProgress prints upsert progress to w.
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) error {
		p.progress = w
		return nil
	}
}

// WithMetrics records run statistics in m.
func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) error {
		p.metrics = m
		return nil
	}
}

// WithTagger replaces the default style tagger.
func WithTagger(t *tagging.Tagger) Option {
	return func(p *Pipeline) error {
		if t != nil {
			p.tagger = t
		}
		return nil
	}
}

// NewPipeline creates a pipeline that harvests from adapters into store.
// The worker pool is sized to the number of adapters.
func NewPipeline(store storage.PromptStore, adapters []sources.Adapter, opts ...Option) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	p := &Pipeline{
		store:     store,
		adapters:  adapters,
		tagger:    tagging.Default(),
		chunkSize: DefaultChunkSize,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	orchestrator, err := NewOrchestrator(len(adapters), p.logger.With("component", "orchestrator"), p.metrics)
	if err != nil {
		return nil, err
	}

	persister, err := NewPersister(store,
		WithPersistChunkSize(p.chunkSize),
		WithPersistProgress(p.progress),
		WithPersistLogger(p.logger.With("component", "persister")),
		WithPersistMetrics(p.metrics),
	)
	if err != nil {
		orchestrator.Release()
		return nil, err
	}

	p.orchestrator = orchestrator
	p.persister = persister
	return p, nil
}

// Run performs one harvest. Adapter failures are reported in the Report and
// never fail the run. A persistence failure returns the partial Report along
// with an error wrapping ErrPersistenceFailed.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	start := time.Now()

	fetched := p.orchestrator.Run(ctx, p.adapters)
	unique := dedupe(fetched.Records, p.logger)
	p.metrics.observeCollected(len(unique))
	p.logger.Info("total unique records collected",
		"count", len(unique),
		"adapters", len(p.adapters),
		"failed", len(fetched.Failures))

	enriched := p.tagger.Enrich(unique)

	upserted, err := p.persister.Persist(ctx, enriched)
	report := &Report{
		Collected: len(unique),
		Upserted:  upserted,
		Failures:  fetched.Failures,
		Duration:  time.Since(start),
	}
	p.metrics.observeRun(report.Duration, err)
	if err != nil {
		p.logger.Error("persistence stopped", "upserted", upserted, "err", err)
		return report, err
	}

	p.logger.Info("rows upserted", "count", upserted, "duration", report.Duration)
	return report, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.orchestrator != nil {
		p.orchestrator.Release()
	}
}
