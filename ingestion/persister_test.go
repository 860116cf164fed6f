package ingestion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/poiesic/promptharvest/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enrichedN(n int) []core.EnrichedRecord {
	out := make([]core.EnrichedRecord, n)
	for i := range out {
		out[i] = rec(fmt.Sprintf("prompt %d", i), "").Enriched(nil)
	}
	return out
}

func TestNewPersister_Validation(t *testing.T) {
	_, err := NewPersister(nil)
	assert.ErrorIs(t, err, ErrStoreRequired)

	_, err = NewPersister(newMemStore(), WithPersistChunkSize(0))
	assert.ErrorIs(t, err, ErrInvalidChunkSize)

	p, err := NewPersister(newMemStore())
	require.NoError(t, err)
	assert.Equal(t, DefaultChunkSize, p.chunkSize)
}

func TestPersister_ChunkCalls(t *testing.T) {
	tests := []struct {
		n, k      int
		wantCalls int
	}{
		{n: 0, k: 500, wantCalls: 0},
		{n: 1, k: 500, wantCalls: 1},
		{n: 500, k: 500, wantCalls: 1},
		{n: 501, k: 500, wantCalls: 2},
		{n: 1200, k: 500, wantCalls: 3},
		{n: 10, k: 3, wantCalls: 4},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d k=%d", tt.n, tt.k), func(t *testing.T) {
			store := newMemStore()
			p, err := NewPersister(store, WithPersistChunkSize(tt.k))
			require.NoError(t, err)

			total, err := p.Persist(context.Background(), enrichedN(tt.n))
			require.NoError(t, err)
			assert.Equal(t, tt.n, total)
			require.Len(t, store.calls, tt.wantCalls)
			for i, call := range store.calls {
				assert.LessOrEqual(t, len(call), tt.k, "call %d", i)
			}
		})
	}
}

func TestPersister_StopsAtFirstFailedChunk(t *testing.T) {
	storeErr := errors.New("503 service unavailable")
	store := newMemStore()
	store.failOn = 2
	store.err = storeErr

	p, err := NewPersister(store, WithPersistChunkSize(500))
	require.NoError(t, err)

	total, err := p.Persist(context.Background(), enrichedN(1200))

	assert.Equal(t, 500, total)
	assert.ErrorIs(t, err, ErrPersistenceFailed)
	assert.ErrorIs(t, err, storeErr)
	assert.Contains(t, err.Error(), "chunk 2 of 3")
	assert.Len(t, store.calls, 2, "third chunk must not be attempted")
	assert.Len(t, store.rows, 500, "first chunk stays written")
}

func TestPersister_RepeatedPersistIsIdempotent(t *testing.T) {
	store := newMemStore()
	p, err := NewPersister(store, WithPersistChunkSize(4))
	require.NoError(t, err)

	records := enrichedN(10)
	_, err = p.Persist(context.Background(), records)
	require.NoError(t, err)
	_, err = p.Persist(context.Background(), records)
	require.NoError(t, err)

	assert.Len(t, store.rows, 10)
}

func TestPersister_Progress(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewPersister(newMemStore(), WithPersistChunkSize(4), WithPersistProgress(&buf))
	require.NoError(t, err)

	_, err = p.Persist(context.Background(), enrichedN(10))
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "10/10 rows")
	assert.Contains(t, output, "chunk 3/3")
	assert.Contains(t, output, "\n")
}

func TestPersister_Metrics(t *testing.T) {
	m := NewMetrics("test")
	store := newMemStore()
	store.failOn = 2
	p, err := NewPersister(store, WithPersistChunkSize(2), WithPersistMetrics(m))
	require.NoError(t, err)

	_, err = p.Persist(context.Background(), enrichedN(5))
	require.Error(t, err)

	assert.Equal(t, 2.0, counterValue(t, m.RowsUpserted))
	assert.Equal(t, 1.0, counterValue(t, m.ChunkFailures))
}
