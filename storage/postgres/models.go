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


package postgres

import (
	"github.com/lib/pq"
	"github.com/poiesic/promptharvest/core"
)

// Prompt is the GORM model of a row in the prompts table.
type Prompt struct {
	PromptText string         `gorm:"column:prompt_text;type:text;primaryKey"`
	ImageURL   *string        `gorm:"column:image_url;type:text"`
	Source     string         `gorm:"column:source;type:text"`
	StyleTags  pq.StringArray `gorm:"column:style_tags;type:text[]"`
}

// TableName overrides the table name
func (Prompt) TableName() string {
	return "prompts"
}

func fromRecord(r core.EnrichedRecord) Prompt {
	p := Prompt{
		PromptText: r.PromptText,
		Source:     r.Source,
		StyleTags:  pq.StringArray(r.StyleTags),
	}
	if p.StyleTags == nil {
		p.StyleTags = pq.StringArray{}
	}
	if r.ImageURL != "" {
		url := r.ImageURL
		p.ImageURL = &url
	}
	return p
}
