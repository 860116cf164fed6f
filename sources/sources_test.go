package sources

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serve starts a test server answering path with body and status 200.
// Any other path gets 404.
func serve(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for path, body := range routes {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, body)
		})
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestLexica_Fetch(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		io.WriteString(w, `{"images":[
			{"prompt":"cinematic city","src":"https://img/1.png"},
			{"prompt":"","src":"https://img/2.png"},
			{"prompt":"no image"}
		]}`)
	}))
	defer server.Close()

	l := NewLexica(NewClient())
	l.BaseURL = server.URL

	records, err := l.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cinematic", gotQuery)
	require.Len(t, records, 1)
	assert.Equal(t, "cinematic city", records[0].PromptText)
	assert.Equal(t, "https://img/1.png", records[0].ImageURL)
	assert.Equal(t, "lexica", records[0].Source)
}

func TestLexica_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	l := NewLexica(NewClient())
	l.BaseURL = server.URL

	records, err := l.Fetch(context.Background())
	assert.Nil(t, records)
	assert.True(t, errors.Is(err, ErrUnexpectedStatus))
}

func TestCivitai_Fetch(t *testing.T) {
	server := serve(t, map[string]string{
		"/api/v1/images": `{"items":[
			{"url":"https://cdn/abc/width=dpr/1.jpeg","meta":{"prompt":"neon dream"}},
			{"url":"https://cdn/2.jpeg","meta":null},
			{"url":"https://cdn/3.jpeg","meta":{"prompt":42}},
			"not an object",
			{"meta":{"prompt":"no url"}}
		]}`,
	})

	c := NewCivitai(NewClient())
	c.BaseURL = server.URL

	records, err := c.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "neon dream", records[0].PromptText)
	assert.Equal(t, "https://cdn/abc/width=450/1.jpeg", records[0].ImageURL)
	assert.Equal(t, "civitai", records[0].Source)
}

func TestReddit_Fetch(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.UserAgent()
		if r.URL.Path != "/r/StableDiffusion/hot.json" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		io.WriteString(w, `{"data":{"children":[
			{"data":{"title":"a castle at dusk","post_hint":"image","url_overridden_by_dest":"https://i.redd.it/1.png"}},
			{"data":{"title":"Question about samplers","post_hint":"image","url_overridden_by_dest":"https://i.redd.it/2.png"}},
			{"data":{"title":"weekly comment thread","post_hint":"image","url_overridden_by_dest":"https://i.redd.it/3.png"}},
			{"data":{"title":"a link post","post_hint":"link","url_overridden_by_dest":"https://example.com"}}
		]}}`)
	}))
	defer server.Close()

	r := NewReddit(NewClient(), "StableDiffusion")
	r.BaseURL = server.URL
	assert.Equal(t, "reddit/StableDiffusion", r.Name())

	records, err := r.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a castle at dusk", records[0].PromptText)
	assert.Equal(t, "https://i.redd.it/1.png", records[0].ImageURL)
	assert.Contains(t, gotUA, "Mozilla/5.0")

	other := NewReddit(NewClient(), "midjourney")
	other.BaseURL = server.URL
	_, err = other.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestPromptHero_Fetch(t *testing.T) {
	server := serve(t, map[string]string{
		"/prompts": `<html><body>
			<div class="prompt-card-container">
				<p class="prompt-text">  a fox in the snow, <b>watercolor</b> </p>
				<img class="prompt-image" src="https://ph/1.jpg">
			</div>
			<div class="prompt-card-container other">
				<p class="prompt-text">missing image</p>
			</div>
			<div class="prompt-card-container">
				<p class="prompt-text">image without src</p>
				<img class="prompt-image">
			</div>
		</body></html>`,
	})

	p := NewPromptHero(NewClient())
	p.PageURL = server.URL + "/prompts"

	records, err := p.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a fox in the snow, watercolor", records[0].PromptText)
	assert.Equal(t, "https://ph/1.jpg", records[0].ImageURL)
	assert.Equal(t, "prompthero", records[0].Source)
}

func TestOpenArt_Fetch(t *testing.T) {
	server := serve(t, map[string]string{
		"/explore": `<html><head>
			<script id="__NEXT_DATA__" type="application/json">
			{"props":{"pageProps":{"items":[
				{"prompt":"art nouveau portrait","image_url":"https://oa/1.webp"},
				{"prompt":"no image"},
				{"prompt":null,"image_url":"https://oa/3.webp"}
			]}}}
			</script></head><body></body></html>`,
		"/empty": `<html><body><p>nothing here</p></body></html>`,
	})

	o := NewOpenArt(NewClient())
	o.PageURL = server.URL + "/explore"

	records, err := o.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "art nouveau portrait", records[0].PromptText)
	assert.Equal(t, "https://oa/1.webp", records[0].ImageURL)

	o.PageURL = server.URL + "/empty"
	records, err = o.Fetch(context.Background())
	assert.Nil(t, records)
	assert.ErrorIs(t, err, ErrMissingPageData)
}

func TestGhauseditz_Fetch(t *testing.T) {
	server := serve(t, map[string]string{
		"/journal": `<html><body>
			<a class="journal-item-title-link" href="/journal/one">One</a>
			<a class="journal-item-title-link" href="/journal/two">Two</a>
		</body></html>`,
		"/journal/one": `<html><body>
			<div class="sqs-block-content"><p>golden hour portrait</p><p> </p></div>
		</body></html>`,
		"/journal/two": `<html><body>
			<div class="sqs-block-content"><div class="sqs-block-content"><p>blue hour skyline</p></div></div>
			<p>outside any block</p>
		</body></html>`,
	})

	g := NewGhauseditz(NewClient())
	g.BaseURL = server.URL

	records, err := g.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "golden hour portrait", records[0].PromptText)
	assert.Equal(t, "blue hour skyline", records[1].PromptText)
	assert.Empty(t, records[0].ImageURL)
	assert.Equal(t, "ghauseditz", records[1].Source)
}

func TestGhauseditz_EntryFailureFailsFetch(t *testing.T) {
	server := serve(t, map[string]string{
		"/journal": `<a class="journal-item-title-link" href="/journal/missing">x</a>`,
	})

	g := NewGhauseditz(NewClient())
	g.BaseURL = server.URL

	records, err := g.Fetch(context.Background())
	assert.Nil(t, records)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestClient_UserAgent(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.UserAgent()
		io.WriteString(w, `{}`)
	}))
	defer server.Close()

	var v map[string]any
	c := NewClient(WithUserAgent("custom/2.0"))
	require.NoError(t, c.GetJSON(context.Background(), server.URL, "", &v))
	assert.Equal(t, "custom/2.0", got)

	require.NoError(t, c.GetJSON(context.Background(), server.URL, "override/1.0", &v))
	assert.Equal(t, "override/1.0", got)
}

func TestClient_DecodeError(t *testing.T) {
	server := serve(t, map[string]string{"/": `not json`})

	var v map[string]any
	err := NewClient().GetJSON(context.Background(), server.URL+"/", "", &v)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnexpectedStatus)
}

func TestClient_WithTimeoutCopiesClient(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}

	c := NewClient(WithHTTPClient(shared), WithTimeout(5*time.Second))

	assert.Equal(t, time.Minute, shared.Timeout)
	assert.Equal(t, 5*time.Second, c.http.Timeout)
	assert.NotSame(t, shared, c.http)
}
