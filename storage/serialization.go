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


package storage

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/promptharvest/core"
)

// promptSerializer encodes an EnrichedRecord as its three string fields followed
// by a length-prefixed list of tags.
type promptSerializer struct{}

var promptMUS = promptSerializer{}

func (promptSerializer) Size(r core.EnrichedRecord) (size int) {
	size += ord.String.Size(r.PromptText)
	size += ord.String.Size(r.ImageURL)
	size += ord.String.Size(r.Source)
	size += varint.Int.Size(len(r.StyleTags))
	for _, tag := range r.StyleTags {
		size += ord.String.Size(tag)
	}
	return size
}

func (promptSerializer) Marshal(r core.EnrichedRecord, bs []byte) (n int) {
	n = ord.String.Marshal(r.PromptText, bs)
	n += ord.String.Marshal(r.ImageURL, bs[n:])
	n += ord.String.Marshal(r.Source, bs[n:])
	n += varint.Int.Marshal(len(r.StyleTags), bs[n:])
	for _, tag := range r.StyleTags {
		n += ord.String.Marshal(tag, bs[n:])
	}
	return n
}

func (promptSerializer) Unmarshal(bs []byte) (r core.EnrichedRecord, n int, err error) {
	var m int
	if r.PromptText, m, err = ord.String.Unmarshal(bs); err != nil {
		return r, n, err
	}
	n += m
	if r.ImageURL, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n, err
	}
	n += m
	if r.Source, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n, err
	}
	n += m

	var count int
	if count, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return r, n, err
	}
	n += m
	if count < 0 || count > len(bs)-n {
		return r, n, fmt.Errorf("invalid tag count %d", count)
	}

	r.StyleTags = make([]string, count)
	for i := range count {
		if r.StyleTags[i], m, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return r, n, err
		}
		n += m
	}
	return r, n, nil
}

// MarshalPrompt serializes an EnrichedRecord to bytes.
func MarshalPrompt(record *core.EnrichedRecord) []byte {
	buf := make([]byte, promptMUS.Size(*record))
	promptMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalPrompt deserializes an EnrichedRecord from bytes.
func UnmarshalPrompt(data []byte) (*core.EnrichedRecord, error) {
	record, _, err := promptMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &record, nil
}
