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
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker reports chunked upsert progress as a single
// carriage-return-updated line.
type ProgressTracker struct {
	writer      io.Writer
	totalRows   int
	totalChunks int
	rows        int
	chunks      int
	startTime   time.Time
	started     bool
	mu          sync.Mutex
}

// NewProgressTracker creates a tracker for totalRows rows split into totalChunks chunks.
func NewProgressTracker(writer io.Writer, totalRows, totalChunks int) *ProgressTracker {
	return &ProgressTracker{
		writer:      writer,
		totalRows:   totalRows,
		totalChunks: totalChunks,
	}
}

// Start resets the counters and begins timing.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.started = true
	p.rows = 0
	p.chunks = 0
}

// ChunkDone records a completed chunk of n rows and prints progress.
func (p *ProgressTracker) ChunkDone(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.chunks++
	p.rows += n
	if p.rows > p.totalRows {
		p.rows = p.totalRows
	}
	p.report()
}

// Finish prints the final line. Rows are not forced to the total so that
// an aborted run shows how far it got.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.report()
	fmt.Fprintln(p.writer)
	p.started = false
}

// Elapsed returns the time since Start.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}
	return time.Since(p.startTime)
}

// report must be called with the lock held.
func (p *ProgressTracker) report() {
	rate := 0.0
	if elapsed := time.Since(p.startTime).Seconds(); elapsed > 0 {
		rate = float64(p.rows) / elapsed
	}

	percentage := 0.0
	if p.totalRows > 0 {
		percentage = float64(p.rows) / float64(p.totalRows) * 100.0
	}

	fmt.Fprintf(p.writer, "\rUpserted: %d/%d rows (%.1f%%), chunk %d/%d - %.1f rows/s",
		p.rows, p.totalRows, percentage, p.chunks, p.totalChunks, rate)
}
