package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/promptharvest/core"
	"github.com/poiesic/promptharvest/storage"
)

// PromptRepository implements storage.PromptStore for BadgerDB.
// Prompts are keyed by the content ID of their prompt text.
type PromptRepository struct {
	backend     *Backend
	ownsBackend bool
}

var _ storage.PromptStore = (*PromptRepository)(nil)

// NewPromptRepository creates a PromptRepository over an existing backend.
// Closing the repository leaves the backend open.
func NewPromptRepository(backend *Backend) *PromptRepository {
	return &PromptRepository{
		backend: backend,
	}
}

// NewStore opens (or creates) a BadgerDB database at path and returns a store
// that closes the database when it is closed.
func NewStore(path string, opts ...BackendOption) (storage.PromptStore, error) {
	return OpenPromptRepository(path, opts...)
}

// OpenPromptRepository is NewStore returning the concrete type, for callers that
// need the read helpers.
func OpenPromptRepository(path string, opts ...BackendOption) (*PromptRepository, error) {
	backend, err := OpenBackend(path, opts...)
	if err != nil {
		return nil, err
	}
	return &PromptRepository{backend: backend, ownsBackend: true}, nil
}

// Close closes the underlying backend if the repository opened it.
func (r *PromptRepository) Close() error {
	if r.ownsBackend && !r.backend.IsClosed() {
		return r.backend.Close()
	}
	return nil
}

// Upsert writes all rows in a single transaction. A row whose prompt text is
// already stored replaces the stored value.
func (r *PromptRepository) Upsert(ctx context.Context, rows []core.EnrichedRecord) (int, error) {
	if r.backend.IsClosed() {
		return 0, storage.ErrStorageClosed
	}
	if len(rows) == 0 {
		return 0, nil
	}

	err := r.backend.Update(func(tx *badger.Txn) error {
		for i := range rows {
			if err := ctx.Err(); err != nil {
				return err
			}
			key := makePromptKey(core.IDFromPrompt(rows[i].PromptText))
			if err := tx.Set(key, storage.MarshalPrompt(&rows[i])); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", storage.ErrRequestFailed, err)
	}

	return len(rows), nil
}

// Get retrieves a stored prompt by its prompt text.
// Returns storage.ErrNotFound if the prompt doesn't exist.
func (r *PromptRepository) Get(ctx context.Context, promptText string) (*core.EnrichedRecord, error) {
	var result *core.EnrichedRecord
	err := r.backend.View(func(tx *badger.Txn) error {
		item, err := tx.Get(makePromptKey(core.IDFromPrompt(promptText)))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			result, err = storage.UnmarshalPrompt(val)
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	// Content IDs are 64-bit hashes; a colliding key holds another prompt.
	if result.PromptText != promptText {
		return nil, storage.ErrNotFound
	}
	return result, nil
}

// Count returns the number of stored prompts.
func (r *PromptRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = promptScanPrefix()
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// ForEach calls fn for every stored prompt in key order.
// Iteration stops on the first error from fn or on context cancellation.
func (r *PromptRepository) ForEach(ctx context.Context, fn func(*core.EnrichedRecord) error) error {
	return r.backend.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = promptScanPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var record *core.EnrichedRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalPrompt(val)
				return err
			})
			if err != nil {
				return err
			}
			if err := fn(record); err != nil {
				return err
			}
		}
		return nil
	})
}
