package storage

import (
	"context"

	"github.com/poiesic/promptharvest/core"
)

// TableName is the table (or key space) every backend writes prompts into.
const TableName = "prompts"

// ConflictKey is the column used to detect existing rows on upsert.
const ConflictKey = "prompt_text"

// PromptStore persists enriched prompt records.
// Implementations must be thread-safe.
type PromptStore interface {
	// Upsert inserts new prompts and overwrites existing ones keyed by prompt text.
	// Returns the number of rows the store reports as written in this call.
	// The call either succeeds as a whole or returns an error.
	Upsert(ctx context.Context, rows []core.EnrichedRecord) (int, error)

	// Close releases the resources held by the store.
	Close() error
}
