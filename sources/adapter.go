package sources

import (
	"context"

	"github.com/poiesic/promptharvest/core"
)

// Adapter fetches prompts from one external source.
// Implementations must be safe for concurrent use with other adapters.
type Adapter interface {
	// Name identifies the adapter in logs and diagnostics.
	Name() string

	// Fetch performs a single bounded fetch and returns the prompts found.
	// Records carry no ordering guarantee.
	Fetch(ctx context.Context) ([]core.RawRecord, error)
}

// Func adapts a plain function to the Adapter interface.
type Func struct {
	AdapterName string
	FetchFunc   func(ctx context.Context) ([]core.RawRecord, error)
}

var _ Adapter = Func{}

// Name returns the adapter name.
func (f Func) Name() string {
	return f.AdapterName
}

// Fetch calls FetchFunc.
func (f Func) Fetch(ctx context.Context) ([]core.RawRecord, error) {
	return f.FetchFunc(ctx)
}
