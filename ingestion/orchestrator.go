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
	"fmt"
	"log/slog"
	"slices"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/promptharvest/core"
	"github.com/poiesic/promptharvest/sources"
)

// AdapterFailure describes one adapter that contributed no records to a run.
type AdapterFailure struct {
	Adapter string
	Err     error
}

func (f AdapterFailure) Error() string {
	return fmt.Sprintf("adapter %s: %v", f.Adapter, f.Err)
}

func (f AdapterFailure) Unwrap() error {
	return f.Err
}

// FetchReport is the outcome of the fetch phase.
type FetchReport struct {
	// Records holds every record from successful adapters in completion order.
	Records []core.RawRecord

	// Failures holds one entry per failed adapter.
	Failures []AdapterFailure

	// Succeeded lists the adapters whose output was accepted.
	Succeeded []string
}

type adapterResult struct {
	adapter string
	records []core.RawRecord
	err     error
}

// Orchestrator fans adapter fetches out over a worker pool and fans the
// results back in to a single collector.
type Orchestrator struct {
	pool    *ants.Pool
	logger  *slog.Logger
	metrics *Metrics
}

// NewOrchestrator creates an orchestrator whose pool runs size adapters at once.
func NewOrchestrator(size int, logger *slog.Logger, metrics *Metrics) (*Orchestrator, error) {
	if size < 1 {
		size = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, err
	}
	return &Orchestrator{
		pool:    pool,
		logger:  logger,
		metrics: metrics,
	}, nil
}

// Run fetches from every adapter and waits for all of them to finish.
// One adapter's error, panic or malformed output never affects another;
// it is reported in FetchReport.Failures instead. In-flight fetches are not
// cancelled when others fail.
func (o *Orchestrator) Run(ctx context.Context, adapters []sources.Adapter) FetchReport {
	var report FetchReport
	if len(adapters) == 0 {
		return report
	}

	results := make(chan adapterResult, len(adapters))
	for _, adapter := range adapters {
		name := adapter.Name()
		if err := o.pool.Submit(func() {
			results <- fetchOne(ctx, name, adapter)
		}); err != nil {
			results <- adapterResult{
				adapter: name,
				err:     fmt.Errorf("%w: %w", ErrPoolSubmit, err),
			}
		}
	}

	for range adapters {
		res := <-results
		o.metrics.observeAdapter(res.adapter, len(res.records), res.err)
		if res.err != nil {
			o.logger.Error("adapter failed", "adapter", res.adapter, "err", res.err)
			report.Failures = append(report.Failures, AdapterFailure{Adapter: res.adapter, Err: res.err})
			continue
		}
		o.logger.Info("adapter fetched", "adapter", res.adapter, "records", len(res.records))
		report.Succeeded = append(report.Succeeded, res.adapter)
		report.Records = append(report.Records, res.records...)
	}
	return report
}

// Release stops the worker pool.
func (o *Orchestrator) Release() {
	if o.pool != nil {
		o.pool.Release()
	}
}

// fetchOne runs a single adapter and converts every way it can go wrong into
// an error on the result. Records without a source are attributed to the adapter
// on a copy, so the adapter's own slice is never written.
func fetchOne(ctx context.Context, name string, adapter sources.Adapter) (res adapterResult) {
	res.adapter = name
	defer func() {
		if r := recover(); r != nil {
			res.records = nil
			res.err = fmt.Errorf("%w: %v", ErrAdapterPanic, r)
		}
	}()

	records, err := adapter.Fetch(ctx)
	if err != nil {
		res.err = err
		return res
	}
	if err := core.ValidateRawRecords(records); err != nil {
		res.err = fmt.Errorf("%w: %w", ErrMalformedOutput, err)
		return res
	}
	records = slices.Clone(records)
	for i := range records {
		if records[i].Source == "" {
			records[i].Source = name
		}
	}
	res.records = records
	return res
}
