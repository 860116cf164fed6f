package sources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/poiesic/promptharvest/core"
)

// OpenArt reads the explore feed embedded in OpenArt's Next.js page data.
type OpenArt struct {
	client  *Client
	PageURL string
}

var _ Adapter = (*OpenArt)(nil)

// NewOpenArt creates an OpenArt adapter.
func NewOpenArt(client *Client) *OpenArt {
	return &OpenArt{
		client:  client,
		PageURL: "https://openart.ai/explore",
	}
}

// Name returns "openart".
func (o *OpenArt) Name() string {
	return "openart"
}

type nextData struct {
	Props struct {
		PageProps struct {
			Items []json.RawMessage `json:"items"`
		} `json:"pageProps"`
	} `json:"props"`
}

type openArtItem struct {
	Prompt   json.RawMessage `json:"prompt"`
	ImageURL json.RawMessage `json:"image_url"`
}

// Fetch extracts items from the __NEXT_DATA__ script. A page without the
// script is reported as ErrMissingPageData.
func (o *OpenArt) Fetch(ctx context.Context) ([]core.RawRecord, error) {
	doc, err := o.client.GetHTML(ctx, o.PageURL, BrowserUserAgent)
	if err != nil {
		return nil, err
	}

	script := findFirst(doc, withID("script", "__NEXT_DATA__"))
	if script == nil {
		return nil, fmt.Errorf("%w: __NEXT_DATA__ script on %s", ErrMissingPageData, o.PageURL)
	}

	var data nextData
	if err := json.Unmarshal([]byte(rawText(script)), &data); err != nil {
		return nil, fmt.Errorf("failed to decode __NEXT_DATA__: %w", err)
	}

	var records []core.RawRecord
	for _, raw := range data.Props.PageProps.Items {
		var item openArtItem
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		prompt, ok := jsonString(item.Prompt)
		if !ok {
			continue
		}
		imageURL, ok := jsonString(item.ImageURL)
		if !ok {
			continue
		}
		records = append(records, core.RawRecord{
			PromptText: prompt,
			ImageURL:   imageURL,
			Source:     o.Name(),
		})
	}
	return records, nil
}

// jsonString reports the decoded value of raw when it is a non-empty JSON string.
func jsonString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return "", false
	}
	return s, true
}
