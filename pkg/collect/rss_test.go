package collect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"article-etl/pkg/logging"
	"article-etl/pkg/sources"
)

const rssFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">
<channel>
  <title>Example Feed</title>
  <link>https://example.com</link>
  <item>
    <title>Media Content Wins</title>
    <link>https://example.com/1</link>
    <media:content url="https://cdn.example.com/media-content.jpg"/>
    <media:thumbnail url="https://cdn.example.com/thumb.jpg"/>
    <description>&lt;img src="https://cdn.example.com/summary.jpg"&gt; text</description>
  </item>
  <item>
    <title>Thumbnail Fallback</title>
    <link>https://example.com/2</link>
    <media:thumbnail url="https://cdn.example.com/thumb-2.jpg"/>
  </item>
  <item>
    <title>Summary Sniff</title>
    <link>https://example.com/3</link>
    <description>before &lt;img src="https://cdn.example.com/summary-3.png"&gt; after</description>
  </item>
  <item>
    <title>No Image</title>
    <link>https://example.com/4</link>
    <description>plain text summary</description>
  </item>
</channel>
</rss>`

func TestRSSAdapterImageResolutionOrder(t *testing.T) {
	server := serveHTML(t, rssFeed)
	adapter := NewRSSAdapter(newTestClient(), logging.NewNop())
	def := sources.Definition{Name: "Feed", URL: server.URL, Type: sources.Rss}

	articles, err := adapter.Fetch(context.Background(), def, DefaultLimit)
	require.NoError(t, err)
	require.Len(t, articles, 4)

	assert.Equal(t, "https://cdn.example.com/media-content.jpg", articles[0].ImageURL,
		"media:content wins over thumbnail and summary image")
	assert.Equal(t, "https://cdn.example.com/thumb-2.jpg", articles[1].ImageURL)
	assert.Equal(t, "https://cdn.example.com/summary-3.png", articles[2].ImageURL)
	assert.Equal(t, "", articles[3].ImageURL)
}

func TestRSSAdapterSourceFields(t *testing.T) {
	server := serveHTML(t, rssFeed)
	adapter := NewRSSAdapter(newTestClient(), logging.NewNop())
	def := sources.Definition{Name: "Feed", URL: server.URL, Type: sources.Rss}

	articles, err := adapter.Fetch(context.Background(), def, 2)
	require.NoError(t, err)
	require.Len(t, articles, 2)

	for i, a := range articles {
		assert.Equal(t, i+1, a.ID)
		assert.Equal(t, server.URL, a.Source)
		assert.Equal(t, "Example Feed", a.SourceName)
	}
	assert.Equal(t, "Media Content Wins", articles[0].Title)
	assert.Equal(t, "https://example.com/1", articles[0].Link)
}

func TestRSSAdapterUnparsableFeed(t *testing.T) {
	server := serveHTML(t, "this is not XML")
	adapter := NewRSSAdapter(newTestClient(), logging.NewNop())
	def := sources.Definition{Name: "Feed", URL: server.URL, Type: sources.Rss}

	_, err := adapter.Fetch(context.Background(), def, DefaultLimit)
	require.Error(t, err)
}
