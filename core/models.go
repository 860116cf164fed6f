package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// ID is a content-derived identifier for stored prompts.
type ID uint64

// IDFromPrompt generates a deterministic ID from prompt text using BLAKE2b hashing.
// Identical prompt text always produces the identical ID, so the ID can stand in
// for the prompt text wherever a fixed-width key is needed.
func IDFromPrompt(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// RawRecord is a single prompt as returned by a source adapter.
// It lives only for the duration of one pipeline run.
type RawRecord struct {
	PromptText string `json:"prompt_text" validate:"required"`
	ImageURL   string `json:"image_url,omitempty"`
	Source     string `json:"source,omitempty"`
}

// Key returns the identity key used for deduplication and as the storage
// conflict key. The prompt text is used verbatim.
func (r RawRecord) Key() string {
	return r.PromptText
}

// EnrichedRecord is a RawRecord plus the style tags derived from its prompt text.
type EnrichedRecord struct {
	RawRecord
	StyleTags []string `json:"style_tags"`
}

// Enriched wraps a RawRecord with the given tags.
func (r RawRecord) Enriched(tags []string) EnrichedRecord {
	if tags == nil {
		tags = []string{}
	}
	return EnrichedRecord{RawRecord: r, StyleTags: tags}
}
