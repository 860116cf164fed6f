package ingestion

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.observeAdapter("lexica", 3, nil)
		m.observeCollected(3)
		m.observeChunk(3, nil)
		m.observeRun(time.Second, nil)
	})
}

func TestMetrics_Observe(t *testing.T) {
	m := NewMetrics("test")

	m.observeAdapter("lexica", 3, nil)
	m.observeAdapter("civitai", 0, errors.New("down"))
	m.observeCollected(3)

	assert.Equal(t, 1.0, counterValue(t, m.AdapterRuns.WithLabelValues("lexica", "success")))
	assert.Equal(t, 1.0, counterValue(t, m.AdapterRuns.WithLabelValues("civitai", "failure")))
	assert.Equal(t, 3.0, counterValue(t, m.RecordsFetched.WithLabelValues("lexica")))
	assert.Equal(t, 3.0, counterValue(t, m.RecordsCollected))

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestMetrics_Push(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	m := NewMetrics("test")
	m.observeCollected(1)

	require.NoError(t, m.Push(context.Background(), server.URL, "promptharvest"))
	assert.Equal(t, "/metrics/job/promptharvest", gotPath)
}
