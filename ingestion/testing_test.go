package ingestion

import (
	"context"
	"errors"
	"sync"

	"github.com/poiesic/promptharvest/core"
	"github.com/poiesic/promptharvest/sources"
)

// memStore implements storage.PromptStore with key-deduplicating upserts.
type memStore struct {
	mu     sync.Mutex
	rows   map[string]core.EnrichedRecord
	calls  [][]core.EnrichedRecord
	failOn int // 1-based call number that fails; 0 never fails
	err    error
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[string]core.EnrichedRecord)}
}

func (s *memStore) Upsert(ctx context.Context, rows []core.EnrichedRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, rows)
	if s.failOn == len(s.calls) {
		if s.err == nil {
			s.err = errors.New("store unavailable")
		}
		return 0, s.err
	}
	for _, r := range rows {
		s.rows[r.PromptText] = r
	}
	return len(rows), nil
}

func (s *memStore) Close() error {
	return nil
}

func staticAdapter(name string, records ...core.RawRecord) sources.Adapter {
	return sources.Func{
		AdapterName: name,
		FetchFunc: func(ctx context.Context) ([]core.RawRecord, error) {
			return records, nil
		},
	}
}

func failingAdapter(name string, err error) sources.Adapter {
	return sources.Func{
		AdapterName: name,
		FetchFunc: func(ctx context.Context) ([]core.RawRecord, error) {
			return nil, err
		},
	}
}

func rec(text, image string) core.RawRecord {
	return core.RawRecord{PromptText: text, ImageURL: image}
}
