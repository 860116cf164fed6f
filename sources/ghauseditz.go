package sources

import (
	"context"

	"github.com/poiesic/promptharvest/core"
	"golang.org/x/net/html"
)

// Ghauseditz scrapes prompt paragraphs from the ghauseditz.com journal.
// It follows every entry linked from the journal index once; entries carry
// no images.
type Ghauseditz struct {
	client  *Client
	BaseURL string
}

var _ Adapter = (*Ghauseditz)(nil)

// NewGhauseditz creates a Ghauseditz adapter.
func NewGhauseditz(client *Client) *Ghauseditz {
	return &Ghauseditz{
		client:  client,
		BaseURL: "https://www.ghauseditz.com",
	}
}

// Name returns "ghauseditz".
func (g *Ghauseditz) Name() string {
	return "ghauseditz"
}

const ghauseditzUserAgent = "imagesandprompts-scraper/1.0"

// Fetch reads the journal index and then each linked entry. Any failed entry
// request fails the whole fetch.
func (g *Ghauseditz) Fetch(ctx context.Context) ([]core.RawRecord, error) {
	index, err := g.client.GetHTML(ctx, g.BaseURL+"/journal", ghauseditzUserAgent)
	if err != nil {
		return nil, err
	}

	var records []core.RawRecord
	for _, link := range findAll(index, element("a", "journal-item-title-link")) {
		href, ok := attr(link, "href")
		if !ok {
			continue
		}
		entry, err := g.client.GetHTML(ctx, g.BaseURL+href, ghauseditzUserAgent)
		if err != nil {
			return nil, err
		}
		for _, p := range entryParagraphs(entry) {
			prompt := text(p)
			if prompt == "" {
				continue
			}
			records = append(records, core.RawRecord{
				PromptText: prompt,
				Source:     g.Name(),
			})
		}
	}
	return records, nil
}

// entryParagraphs returns the <p> elements inside .sqs-block-content blocks,
// each once even when blocks nest.
func entryParagraphs(doc *html.Node) []*html.Node {
	seen := make(map[*html.Node]struct{})
	var out []*html.Node
	for _, block := range findAll(doc, withClass("sqs-block-content")) {
		for _, p := range findAll(block, element("p", "")) {
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}
