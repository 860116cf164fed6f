package ingestion

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/promptharvest/core"
	"github.com/poiesic/promptharvest/storage"
)

// DefaultChunkSize is the number of rows sent to the store per upsert call.
const DefaultChunkSize = 500

// Persister writes enriched records to a PromptStore in sequential chunks.
type Persister struct {
	store     storage.PromptStore
	chunkSize int
	progress  io.Writer
	logger    *slog.Logger
	metrics   *Metrics
}

// PersisterOption configures a Persister.
type PersisterOption func(*Persister) error

// WithPersistChunkSize sets the number of rows per upsert call.
func WithPersistChunkSize(size int) PersisterOption {
	return func(p *Persister) error {
		if size < 1 {
			return fmt.Errorf("%w: got %d", ErrInvalidChunkSize, size)
		}
		p.chunkSize = size
		return nil
	}
}

// WithPersistProgress prints chunk progress to w.
func WithPersistProgress(w io.Writer) PersisterOption {
	return func(p *Persister) error {
		p.progress = w
		return nil
	}
}

// WithPersistLogger sets the logger.
func WithPersistLogger(logger *slog.Logger) PersisterOption {
	return func(p *Persister) error {
		if logger != nil {
			p.logger = logger
		}
		return nil
	}
}

// WithPersistMetrics records chunk outcomes in m.
func WithPersistMetrics(m *Metrics) PersisterOption {
	return func(p *Persister) error {
		p.metrics = m
		return nil
	}
}

// NewPersister creates a Persister writing to store.
func NewPersister(store storage.PromptStore, opts ...PersisterOption) (*Persister, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	p := &Persister{
		store:     store,
		chunkSize: DefaultChunkSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Persist upserts records in chunks of at most the configured size, one call
// after another, and returns the sum of the counts the store reported.
// The first failing chunk stops the loop; the count so far is returned with
// an error wrapping ErrPersistenceFailed and the store error. Chunks that
// already succeeded stay written.
func (p *Persister) Persist(ctx context.Context, records []core.EnrichedRecord) (int, error) {
	chunks := Chunk(records, p.chunkSize)

	var tracker *ProgressTracker
	if p.progress != nil && len(chunks) > 0 {
		tracker = NewProgressTracker(p.progress, len(records), len(chunks))
		tracker.Start()
		defer tracker.Finish()
	}

	total := 0
	for i, chunk := range chunks {
		n, err := p.store.Upsert(ctx, chunk)
		p.metrics.observeChunk(n, err)
		if err != nil {
			p.logger.Error("chunk upsert failed",
				"chunk", i, "chunks", len(chunks), "rows", len(chunk), "err", err)
			return total, fmt.Errorf("%w: chunk %d of %d: %w", ErrPersistenceFailed, i+1, len(chunks), err)
		}
		total += n
		p.logger.Debug("chunk upserted", "chunk", i, "rows", n)
		if tracker != nil {
			tracker.ChunkDone(n)
		}
	}
	return total, nil
}
