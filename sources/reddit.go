package sources

import (
	"context"
	"strconv"
	"strings"

	"github.com/poiesic/promptharvest/core"
)

// DefaultSubreddits are the communities registered by Default.
var DefaultSubreddits = []string{"StableDiffusion", "midjourney", "dalle2", "aiArt"}

// Reddit fetches image posts from one subreddit's hot listing and uses each
// post title as the prompt. One adapter is registered per subreddit so that a
// failing community does not take the others down with it.
type Reddit struct {
	client    *Client
	BaseURL   string
	Subreddit string
	Limit     int
}

var _ Adapter = (*Reddit)(nil)

// NewReddit creates an adapter for r/<subreddit>.
func NewReddit(client *Client, subreddit string) *Reddit {
	return &Reddit{
		client:    client,
		BaseURL:   "https://www.reddit.com",
		Subreddit: subreddit,
		Limit:     100,
	}
}

// Name returns "reddit/<subreddit>".
func (r *Reddit) Name() string {
	return "reddit/" + r.Subreddit
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title    string `json:"title"`
				PostHint string `json:"post_hint"`
				URL      string `json:"url_overridden_by_dest"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Fetch returns image posts whose titles do not look like discussion threads.
func (r *Reddit) Fetch(ctx context.Context) ([]core.RawRecord, error) {
	endpoint := r.BaseURL + "/r/" + r.Subreddit + "/hot.json?limit=" + strconv.Itoa(r.Limit)

	var listing redditListing
	if err := r.client.GetJSON(ctx, endpoint, "Mozilla/5.0 (compatible; "+DefaultUserAgent+")", &listing); err != nil {
		return nil, err
	}

	var records []core.RawRecord
	for _, child := range listing.Data.Children {
		post := child.Data
		if post.PostHint != "image" || post.URL == "" || post.Title == "" {
			continue
		}
		lower := strings.ToLower(post.Title)
		if strings.Contains(lower, "comment") || strings.Contains(lower, "question") {
			continue
		}
		records = append(records, core.RawRecord{
			PromptText: post.Title,
			ImageURL:   post.URL,
			Source:     r.Name(),
		})
	}
	return records, nil
}
