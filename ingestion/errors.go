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

import "errors"

var (
	// ErrStoreRequired is returned when a prompt store is not provided.
	ErrStoreRequired = errors.New("prompt store required")

	// ErrInvalidChunkSize is returned for a chunk size below 1.
	ErrInvalidChunkSize = errors.New("chunk size must be at least 1")

	// ErrPersistenceFailed wraps the store error of the first failed chunk.
	ErrPersistenceFailed = errors.New("persistence failed")

	// ErrMalformedOutput is reported when an adapter returns a record that
	// fails validation. The adapter's whole output is discarded.
	ErrMalformedOutput = errors.New("malformed adapter output")

	// ErrAdapterPanic is reported when an adapter panics during Fetch.
	ErrAdapterPanic = errors.New("adapter panicked")

	// ErrPoolSubmit is reported when an adapter could not be scheduled.
	ErrPoolSubmit = errors.New("failed to schedule adapter")
)
