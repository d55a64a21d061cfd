package collect

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"article-etl/pkg/httpclient"
	"article-etl/pkg/logging"
	"article-etl/pkg/sources"
)

func newTestClient() *httpclient.Client {
	return httpclient.New(5 * time.Second)
}

func serveHTML(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

const articlePage = `<html><body>
<article>
  <h2><a href="https://example.com/story-1">First Story</a></h2>
  <img src="https://cdn.example.com/one.jpg">
  <p>Intro paragraph.</p>
</article>
<article>
  <h3><a href="https://example.com/story-2">Second Story</a></h3>
</article>
<article>
  <div>No heading at all</div>
</article>
</body></html>`

func TestHTMLAdapterArticleBlocks(t *testing.T) {
	server := serveHTML(t, articlePage)
	adapter := NewHTMLAdapter(newTestClient(), logging.NewNop())
	def := sources.Definition{Name: "Example", URL: server.URL, Type: sources.Html}

	articles, err := adapter.Fetch(context.Background(), def, DefaultLimit)
	require.NoError(t, err)
	require.Len(t, articles, 3)

	assert.Equal(t, "First Story", articles[0].Title)
	assert.Equal(t, "https://example.com/story-1", articles[0].Link)
	assert.Equal(t, "https://cdn.example.com/one.jpg", articles[0].ImageURL)

	assert.Equal(t, "Second Story", articles[1].Title)
	assert.Equal(t, "", articles[1].ImageURL)

	assert.Equal(t, "No title", articles[2].Title)
	assert.Equal(t, "", articles[2].Link)

	for _, a := range articles {
		assert.Equal(t, server.URL, a.Source)
		assert.Empty(t, a.SourceName)
	}
}

func TestHTMLAdapterHonorsLimit(t *testing.T) {
	server := serveHTML(t, articlePage)
	adapter := NewHTMLAdapter(newTestClient(), logging.NewNop())
	def := sources.Definition{Name: "Example", URL: server.URL}

	articles, err := adapter.Fetch(context.Background(), def, 2)
	require.NoError(t, err)
	assert.Len(t, articles, 2)
}

func TestHTMLAdapterFallbackRows(t *testing.T) {
	page := `<html><body><table>
<tr class="athing"><td><span class="titleline"><a href="https://example.com/a">Row Story A</a></span></td></tr>
<tr class="athing"><td><span class="titleline"><a href="https://example.com/b">Row Story B</a></span></td></tr>
<tr class="athing"><td><span class="titleline">no link here</span></td></tr>
</table></body></html>`
	server := serveHTML(t, page)
	adapter := NewHTMLAdapter(newTestClient(), logging.NewNop())
	def := sources.Definition{Name: "HN", URL: server.URL}

	articles, err := adapter.Fetch(context.Background(), def, DefaultLimit)
	require.NoError(t, err)
	require.Len(t, articles, 3)

	assert.Equal(t, "Row Story A", articles[0].Title)
	assert.Equal(t, "https://example.com/a", articles[0].Link)
	assert.Equal(t, "No title", articles[2].Title)
	for _, a := range articles {
		assert.Equal(t, "", a.ImageURL, "fallback rows never carry an image")
	}
}

func TestHTMLAdapterFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	adapter := NewHTMLAdapter(newTestClient(), logging.NewNop())
	def := sources.Definition{Name: "Broken", URL: server.URL}

	articles, err := adapter.Fetch(context.Background(), def, DefaultLimit)
	require.Error(t, err)
	assert.Empty(t, articles)
}
