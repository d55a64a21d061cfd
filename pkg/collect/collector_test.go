package collect

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"article-etl/pkg/config"
	"article-etl/pkg/dataset"
	"article-etl/pkg/domain"
	"article-etl/pkg/logging"
	"article-etl/pkg/sources"
	"article-etl/pkg/storage"
)

func testConfig(sourcesFile string) *config.Config {
	return &config.Config{
		BucketCollect:   "collect",
		BucketExtract:   "extract",
		BucketTransform: "transform",
		BucketLoad:      "load",
		BucketImage:     "image",
		SourcesFile:     sourcesFile,
		HTTPTimeout:     5 * time.Second,
	}
}

func writeSourcesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCollectAllIsolatesFailingSources(t *testing.T) {
	htmlServer := serveHTML(t, articlePage)
	rssServer := serveHTML(t, rssFeed)

	defs := []sources.Definition{
		{Name: "Good HTML", URL: htmlServer.URL, Type: sources.Html, Enabled: true},
		{Name: "Dead Source", URL: "http://127.0.0.1:1/unreachable", Type: sources.Html, Enabled: true},
		{Name: "Good Feed", URL: rssServer.URL, Type: sources.Rss, Enabled: true},
	}

	collector := NewCollector(testConfig(""), storage.NewMemStore(), logging.NewNop())
	combined, results := collector.CollectAll(context.Background(), defs)

	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err, "one bad source must not block the others")
	assert.NoError(t, results[2].Err)

	// 3 HTML articles + 4 feed entries, in source iteration order.
	require.Equal(t, 7, combined.Len())
	assert.Equal(t, "First Story", combined.Get(0, domain.ColTitle))
	assert.Equal(t, "Media Content Wins", combined.Get(3, domain.ColTitle))
}

func TestCollectAllRenumbersIDs(t *testing.T) {
	htmlServer := serveHTML(t, articlePage)
	rssServer := serveHTML(t, rssFeed)

	defs := []sources.Definition{
		{Name: "HTML", URL: htmlServer.URL, Type: sources.Html, Enabled: true},
		{Name: "Feed", URL: rssServer.URL, Type: sources.Rss, Enabled: true},
	}

	collector := NewCollector(testConfig(""), storage.NewMemStore(), logging.NewNop())
	combined, _ := collector.CollectAll(context.Background(), defs)

	for r := 0; r < combined.Len(); r++ {
		id, err := strconv.Atoi(combined.Get(r, domain.ColID))
		require.NoError(t, err)
		assert.Equal(t, r+1, id, "id must be unique within the run")
	}
}

func TestCollectorRunWritesArtifact(t *testing.T) {
	server := serveHTML(t, articlePage)
	path := writeSourcesFile(t, `
sources:
  - name: Fixture
    url: `+server.URL+`
    type: html
    enabled: true
`)

	store := storage.NewMemStore()
	collector := NewCollector(testConfig(path), store, logging.NewNop())
	require.NoError(t, collector.Run(context.Background()))

	data, err := store.Get(context.Background(), "collect", config.FileCollect)
	require.NoError(t, err)

	table, err := dataset.FromBytes(data)
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, domain.CollectColumns, table.Columns())
}

func TestCollectorRunNoRecordsWritesNothing(t *testing.T) {
	path := writeSourcesFile(t, `
sources:
  - name: Unreachable
    url: http://127.0.0.1:1/unreachable
    enabled: true
`)

	store := storage.NewMemStore()
	collector := NewCollector(testConfig(path), store, logging.NewNop())
	require.NoError(t, collector.Run(context.Background()), "empty run is a no-op, not a failure")

	_, err := store.Get(context.Background(), "collect", config.FileCollect)
	require.ErrorIs(t, err, storage.ErrObjectNotFound, "no artifact is written for an empty run")
}
