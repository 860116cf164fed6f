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


package tagging

import (
	"strings"

	"github.com/poiesic/promptharvest/core"
)

// Vocabulary is the default ordered list of style descriptors.
var Vocabulary = []string{
	"photorealistic", "4k", "8k", "cinematic", "film grain", "portrait",
	"landscape", "sci-fi", "fantasy", "anime", "manga", "cartoon", "comic book",
	"noir", "cyberpunk", "steampunk", "vaporwave", "gothic", "art deco",
	"impressionism", "surrealism", "abstract", "minimalist", "vintage",
	"retro", "black and white", "monochrome", "vibrant", "pastel", "dark",
	"moody", "epic", "dramatic lighting", "studio lighting", "octane render",
	"unreal engine", "hyperrealistic", "concept art", "digital painting",
	"long exposure", "golden hour", "blue hour", "art nouveau", "bauhaus",
}

// Tagger matches prompt text against an ordered vocabulary.
// A Tagger is immutable and safe for concurrent use.
type Tagger struct {
	vocabulary []string
}

var defaultTagger = NewTagger(Vocabulary...)

// NewTagger creates a Tagger over the given vocabulary. Entries are lower-cased,
// empty entries and repeats are dropped, order is otherwise preserved.
func NewTagger(vocabulary ...string) *Tagger {
	seen := make(map[string]struct{}, len(vocabulary))
	vocab := make([]string, 0, len(vocabulary))
	for _, tag := range vocabulary {
		tag = strings.ToLower(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		vocab = append(vocab, tag)
	}
	return &Tagger{vocabulary: vocab}
}

// Vocabulary returns a copy of the tagger's vocabulary.
func (t *Tagger) Vocabulary() []string {
	out := make([]string, len(t.vocabulary))
	copy(out, t.vocabulary)
	return out
}

// Tags returns the vocabulary entries that occur in promptText.
// Never returns nil; an empty prompt yields an empty slice.
func (t *Tagger) Tags(promptText string) []string {
	tags := []string{}
	if promptText == "" {
		return tags
	}

	lowered := strings.ToLower(promptText)
	for _, tag := range t.vocabulary {
		if strings.Contains(lowered, tag) {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Enrich attaches style tags to every record, preserving order.
func (t *Tagger) Enrich(records []core.RawRecord) []core.EnrichedRecord {
	enriched := make([]core.EnrichedRecord, len(records))
	for i, record := range records {
		enriched[i] = record.Enriched(t.Tags(record.PromptText))
	}
	return enriched
}

// GenerateTags returns the default-vocabulary tags for promptText.
func GenerateTags(promptText string) []string {
	return defaultTagger.Tags(promptText)
}

// Enrich attaches default-vocabulary tags to every record.
func Enrich(records []core.RawRecord) []core.EnrichedRecord {
	return defaultTagger.Enrich(records)
}

// Default returns the tagger backing GenerateTags.
func Default() *Tagger {
	return defaultTagger
}
