package sources

import (
	"context"
	"net/url"

	"github.com/poiesic/promptharvest/core"
)

// Lexica fetches prompts from Lexica's public search API.
type Lexica struct {
	client  *Client
	BaseURL string
	Query   string
}

var _ Adapter = (*Lexica)(nil)

// NewLexica creates a Lexica adapter searching for "cinematic".
func NewLexica(client *Client) *Lexica {
	return &Lexica{
		client:  client,
		BaseURL: "https://lexica.art",
		Query:   "cinematic",
	}
}

// Name returns "lexica".
func (l *Lexica) Name() string {
	return "lexica"
}

type lexicaResponse struct {
	Images []struct {
		Prompt string `json:"prompt"`
		Src    string `json:"src"`
	} `json:"images"`
}

// Fetch returns every search result that has both a prompt and an image.
func (l *Lexica) Fetch(ctx context.Context) ([]core.RawRecord, error) {
	endpoint := l.BaseURL + "/api/v1/search?q=" + url.QueryEscape(l.Query)

	var resp lexicaResponse
	if err := l.client.GetJSON(ctx, endpoint, "", &resp); err != nil {
		return nil, err
	}

	records := make([]core.RawRecord, 0, len(resp.Images))
	for _, img := range resp.Images {
		if img.Prompt == "" || img.Src == "" {
			continue
		}
		records = append(records, core.RawRecord{
			PromptText: img.Prompt,
			ImageURL:   img.Src,
			Source:     l.Name(),
		})
	}
	return records, nil
}
