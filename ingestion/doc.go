// Package ingestion runs one harvest of prompt records from source adapters
// into a PromptStore.
//
// A run moves through four strictly ordered phases:
//   - Fetch: every adapter runs concurrently on a worker pool; failures are
//     isolated per adapter and reported as AdapterFailure values
//   - Aggregate: records from all adapters are deduplicated on prompt text,
//     first seen wins
//   - Enrich: each unique record is tagged with style descriptors
//   - Persist: enriched records are upserted in sequential chunks
//
// Nothing is retried. A failed chunk stops persistence and the partial count
// is returned with the error.
package ingestion
