package ingestion

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker_Basic(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 100, 2)

	tracker.Start()
	tracker.ChunkDone(50)
	tracker.ChunkDone(50)

	assert.Greater(t, tracker.Elapsed(), time.Duration(0))

	output := buf.String()
	assert.Contains(t, output, "50/100 rows (50.0%), chunk 1/2")
	assert.Contains(t, output, "100/100 rows (100.0%), chunk 2/2")
}

func TestProgressTracker_NotStarted(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 1)

	tracker.ChunkDone(10)
	tracker.Finish()

	assert.Empty(t, buf.String())
	assert.Equal(t, time.Duration(0), tracker.Elapsed())
}

func TestProgressTracker_FinishKeepsPartialCount(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 1000, 2)

	tracker.Start()
	tracker.ChunkDone(500)
	tracker.Finish()

	output := buf.String()
	lines := strings.Split(strings.TrimRight(output, "\n"), "\r")
	last := lines[len(lines)-1]
	assert.Contains(t, last, "500/1000")
	assert.True(t, strings.HasSuffix(output, "\n"))
}

func TestProgressTracker_CapsAtTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 1)

	tracker.Start()
	tracker.ChunkDone(25)

	assert.Contains(t, buf.String(), "10/10")
	assert.NotContains(t, buf.String(), "25/10")
}
