package sources

import (
	"context"

	"github.com/poiesic/promptharvest/core"
)

// PromptHero scrapes the PromptHero prompt listing page.
// HTML scraping is layout dependent; a redesign yields zero records, not an error.
type PromptHero struct {
	client  *Client
	PageURL string
}

var _ Adapter = (*PromptHero)(nil)

// NewPromptHero creates a PromptHero adapter.
func NewPromptHero(client *Client) *PromptHero {
	return &PromptHero{
		client:  client,
		PageURL: "https://prompthero.com/prompts",
	}
}

// Name returns "prompthero".
func (p *PromptHero) Name() string {
	return "prompthero"
}

// Fetch returns one record per prompt card that has both text and an image.
func (p *PromptHero) Fetch(ctx context.Context) ([]core.RawRecord, error) {
	doc, err := p.client.GetHTML(ctx, p.PageURL, BrowserUserAgent)
	if err != nil {
		return nil, err
	}

	var records []core.RawRecord
	for _, card := range findAll(doc, element("div", "prompt-card-container")) {
		textNode := findFirst(card, element("p", "prompt-text"))
		imgNode := findFirst(card, element("img", "prompt-image"))
		if textNode == nil || imgNode == nil {
			continue
		}
		src, ok := attr(imgNode, "src")
		if !ok {
			continue
		}
		prompt := text(textNode)
		if prompt == "" {
			continue
		}
		records = append(records, core.RawRecord{
			PromptText: prompt,
			ImageURL:   src,
			Source:     p.Name(),
		})
	}
	return records, nil
}
