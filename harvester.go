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


package promptharvest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/poiesic/promptharvest/config"
	"github.com/poiesic/promptharvest/ingestion"
	"github.com/poiesic/promptharvest/sources"
	"github.com/poiesic/promptharvest/storage"
	"github.com/poiesic/promptharvest/storage/badger"
	"github.com/poiesic/promptharvest/storage/postgres"
	"github.com/poiesic/promptharvest/storage/supabase"
)

// MetricsNamespace prefixes every exported metric.
const MetricsNamespace = "promptharvest"

// Harvester wires a configuration to a store, the source adapters and an
// ingestion pipeline.
type Harvester struct {
	cfg       *config.Config
	store     storage.PromptStore
	ownsStore bool
	adapters  []sources.Adapter
	pipeline  *ingestion.Pipeline
	metrics   *ingestion.Metrics
	runID     string
	logger    *slog.Logger
}

// HarvesterOption configures a Harvester.
type HarvesterOption func(*harvesterOptions)

type harvesterOptions struct {
	logger   *slog.Logger
	store    storage.PromptStore
	adapters []sources.Adapter
	progress io.Writer
}

// WithLogger sets the base logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) HarvesterOption {
	return func(o *harvesterOptions) {
		o.logger = logger
	}
}

// WithStore uses store instead of opening the configured backend.
// The caller keeps ownership and must close it.
func WithStore(store storage.PromptStore) HarvesterOption {
	return func(o *harvesterOptions) {
		o.store = store
	}
}

// WithAdapters replaces the built-in adapters. Configured source names
// still filter the list.
func WithAdapters(adapters ...sources.Adapter) HarvesterOption {
	return func(o *harvesterOptions) {
		o.adapters = adapters
	}
}

// WithProgress prints upsert progress to w.
func WithProgress(w io.Writer) HarvesterOption {
	return func(o *harvesterOptions) {
		o.progress = w
	}
}

// OpenStore opens the backend selected by cfg.
func OpenStore(cfg *config.Config, logger *slog.Logger) (storage.PromptStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Store {
	case config.StoreSupabase:
		return supabase.NewStore(cfg.SupabaseURL, cfg.SupabaseKey,
			supabase.WithTable(cfg.Table),
			supabase.WithLogger(logger))
	case config.StorePostgres:
		return postgres.Open(cfg.DatabaseURL, cfg.AutoMigrate)
	case config.StoreBadger:
		return badger.NewStore(cfg.BadgerPath,
			badger.WithBackendLogger(logger.With("component", "badger")))
	}
	return nil, fmt.Errorf("%w: unknown store %q", config.ErrConfiguration, cfg.Store)
}

// NewHarvester validates cfg and prepares a run. Configuration problems,
// including unknown source names, wrap config.ErrConfiguration and are
// reported before any network traffic.
func NewHarvester(cfg *config.Config, opts ...HarvesterOption) (*Harvester, error) {
	options := &harvesterOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	adapters := options.adapters
	if adapters == nil {
		client := sources.NewClient(
			sources.WithTimeout(cfg.Timeout),
			sources.WithUserAgent(cfg.UserAgent),
		)
		adapters = sources.Default(client)
	}
	adapters, err := sources.Select(adapters, cfg.Sources...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrConfiguration, err)
	}

	runID := uuid.NewString()
	logger := options.logger.With("run_id", runID)

	store := options.store
	ownsStore := false
	if store == nil {
		store, err = OpenStore(cfg, logger.With("component", "store"))
		if err != nil {
			if errors.Is(err, config.ErrConfiguration) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %w", config.ErrConfiguration, err)
		}
		ownsStore = true
	}

	metrics := ingestion.NewMetrics(MetricsNamespace)
	pipeline, err := ingestion.NewPipeline(store, adapters,
		ingestion.WithLogger(logger.With("component", "pipeline")),
		ingestion.WithChunkSize(cfg.ChunkSize),
		ingestion.WithProgress(options.progress),
		ingestion.WithMetrics(metrics),
	)
	if err != nil {
		if ownsStore {
			store.Close()
		}
		return nil, err
	}

	return &Harvester{
		cfg:       cfg,
		store:     store,
		ownsStore: ownsStore,
		adapters:  adapters,
		pipeline:  pipeline,
		metrics:   metrics,
		runID:     runID,
		logger:    logger,
	}, nil
}

// Run performs one harvest. When a Pushgateway is configured the run's
// metrics are pushed afterwards; a failed push is logged and does not change
// the result.
func (h *Harvester) Run(ctx context.Context) (*ingestion.Report, error) {
	h.logger.Info("harvest starting", "adapters", len(h.adapters), "store", h.cfg.Store)

	report, err := h.pipeline.Run(ctx)

	if h.cfg.PushgatewayURL != "" {
		if pushErr := h.metrics.Push(ctx, h.cfg.PushgatewayURL, MetricsNamespace); pushErr != nil {
			h.logger.Warn("failed to push metrics", "url", h.cfg.PushgatewayURL, "err", pushErr)
		}
	}
	return report, err
}

// RunID identifies this harvester's run in logs.
func (h *Harvester) RunID() string {
	return h.runID
}

// Adapters returns the adapters the run will use.
func (h *Harvester) Adapters() []sources.Adapter {
	return h.adapters
}

// Metrics returns the run's metric collectors.
func (h *Harvester) Metrics() *ingestion.Metrics {
	return h.metrics
}

// Close releases the worker pool and closes the store if the harvester opened it.
func (h *Harvester) Close() error {
	h.pipeline.Release()
	if !h.ownsStore {
		return nil
	}
	if err := h.store.Close(); err != nil {
		h.logger.Error("error closing store", "err", err)
		return err
	}
	return nil
}
