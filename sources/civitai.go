package sources

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/poiesic/promptharvest/core"
)

// Civitai fetches the newest images from Civitai's public images API.
type Civitai struct {
	client  *Client
	BaseURL string
	Limit   int
}

var _ Adapter = (*Civitai)(nil)

// NewCivitai creates a Civitai adapter fetching the 100 newest images.
func NewCivitai(client *Client) *Civitai {
	return &Civitai{
		client:  client,
		BaseURL: "https://civitai.com",
		Limit:   100,
	}
}

// Name returns "civitai".
func (c *Civitai) Name() string {
	return "civitai"
}

type civitaiResponse struct {
	Items []json.RawMessage `json:"items"`
}

type civitaiItem struct {
	URL  string `json:"url"`
	Meta *struct {
		Prompt json.RawMessage `json:"prompt"`
	} `json:"meta"`
}

// Fetch returns items that carry both a string prompt and an image URL.
// Items of unexpected shape are skipped; the API mixes several item kinds.
func (c *Civitai) Fetch(ctx context.Context) ([]core.RawRecord, error) {
	endpoint := c.BaseURL + "/api/v1/images?sort=Newest&limit=" + strconv.Itoa(c.Limit)

	var resp civitaiResponse
	if err := c.client.GetJSON(ctx, endpoint, "", &resp); err != nil {
		return nil, err
	}

	records := make([]core.RawRecord, 0, len(resp.Items))
	for _, raw := range resp.Items {
		var item civitaiItem
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		if item.Meta == nil || item.URL == "" {
			continue
		}
		var prompt string
		if err := json.Unmarshal(item.Meta.Prompt, &prompt); err != nil || prompt == "" {
			continue
		}
		records = append(records, core.RawRecord{
			PromptText: prompt,
			ImageURL:   strings.Replace(item.URL, "/width=dpr", "/width=450", 1),
			Source:     c.Name(),
		})
	}
	return records, nil
}
