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


// Package storage provides the storage abstraction layer for promptharvest.
//
// This package defines the PromptStore interface that decouples the ingestion
// pipeline from the store it writes to. Several backends are provided:
//
//   - supabase: PostgREST upsert into a Supabase project (production default)
//   - postgres: direct PostgreSQL upsert through GORM
//   - badger: embedded BadgerDB, used for local runs and tests
//
// # Upsert Contract
//
// Every backend writes into a table (or key space) named "prompts" keyed by
// prompt_text. Writing a row whose prompt_text already exists overwrites the
// other fields instead of creating a second row, so replaying the same batch is
// harmless. Upsert returns the number of rows the store reports as processed in
// that call, which is not necessarily the number of rows that changed.
//
// A single Upsert call is atomic from the caller's point of view: it either
// reports a count or fails as a whole.
//
// # Constructor Return Type Pattern
//
// Public backend constructors return the storage.PromptStore interface:
//
//	store, err := supabase.NewStore(url, key)  // returns storage.PromptStore
//
// Backends that expose extra read helpers (badger) also export their concrete
// type for tests and tooling.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use, although the ingestion
// pipeline itself only ever issues one Upsert at a time.
package storage
