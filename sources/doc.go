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


// Package sources provides the source adapters that feed the ingestion pipeline.
//
// An Adapter performs one bounded fetch against one external site and returns the
// prompts it found. Adapters share no mutable state with each other and are safe
// to run concurrently. The concrete adapters in this package cover:
//
//   - Lexica (JSON search API)
//   - Civitai (JSON images API)
//   - Reddit (subreddit listings, image posts only)
//   - PromptHero (HTML prompt cards)
//   - OpenArt (Next.js page data)
//   - Ghauseditz (HTML journal entries)
//
// Adapters are registered explicitly: Default returns the full list and Select
// narrows it down by name. There is no global registry.
package sources
