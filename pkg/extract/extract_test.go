package extract

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"article-etl/pkg/config"
	"article-etl/pkg/dataset"
	"article-etl/pkg/domain"
	"article-etl/pkg/logging"
	"article-etl/pkg/storage"
)

func extractorConfig() *config.Config {
	return &config.Config{
		BucketCollect: "collect",
		BucketExtract: "extract",
		BucketImage:   "image",
		HTTPTimeout:   5 * time.Second,
	}
}

// articlePageServer serves a page with qualifying paragraphs and one image
// hosted on the same server.
func articlePageServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("/article", func(w http.ResponseWriter, _ *http.Request) {
		page := fmt.Sprintf(`<html><body>
<img src="%s/img/photo.jpg">
<p>%s</p>
<p>%s</p>
<p>short one</p>
</body></html>`, server.URL, longParagraph(1), longParagraph(2))
		_, _ = w.Write([]byte(page))
	})
	mux.HandleFunc("/img/photo.jpg", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg-bytes"))
	})
	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestEnrichTable(t *testing.T) {
	server := articlePageServer(t)
	store := storage.NewMemStore()
	extractor := NewExtractor(extractorConfig(), store, logging.NewNop())

	input := dataset.New(domain.CollectColumns...)
	input.Append(map[string]string{
		domain.ColID: "1", domain.ColTitle: "Good", domain.ColLink: server.URL + "/article",
		domain.ColSource: server.URL, domain.ColSourceName: "Fixture",
	})
	input.Append(map[string]string{
		domain.ColID: "2", domain.ColTitle: "No Link",
	})
	input.Append(map[string]string{
		domain.ColID: "3", domain.ColTitle: "Broken", domain.ColLink: "http://127.0.0.1:1/gone",
	})

	enriched, results := extractor.EnrichTable(context.Background(), input)

	require.Equal(t, 2, enriched.Len(), "linkless rows are skipped entirely")
	require.Len(t, results, 2)

	assert.Equal(t, longParagraph(1)+"\n"+longParagraph(2), enriched.Get(0, domain.ColExtractedText))
	assert.True(t, strings.HasPrefix(enriched.Get(0, domain.ColFoundImages), "image/"))
	assert.Equal(t, "Fixture", enriched.Get(0, domain.ColSourceName), "collection fields carry through")
	assert.NoError(t, results[0].Err)

	assert.Equal(t, "3", enriched.Get(1, domain.ColID))
	assert.Equal(t, "", enriched.Get(1, domain.ColExtractedText), "fetch failure nulls the text")
	assert.Equal(t, "", enriched.Get(1, domain.ColFoundImages))
	assert.Error(t, results[1].Err)
}

func TestExtractorRun(t *testing.T) {
	server := articlePageServer(t)
	store := storage.NewMemStore()
	cfg := extractorConfig()

	input := dataset.New(domain.CollectColumns...)
	input.Append(map[string]string{
		domain.ColID: "1", domain.ColTitle: "Good", domain.ColLink: server.URL + "/article",
		domain.ColSource: server.URL,
	})
	require.NoError(t, storage.PutTable(context.Background(), store, cfg.BucketCollect, config.FileCollect, input))

	extractor := NewExtractor(cfg, store, logging.NewNop())
	require.NoError(t, extractor.Run(context.Background()))

	enriched, err := storage.GetTable(context.Background(), store, cfg.BucketExtract, config.FileExtract)
	require.NoError(t, err)
	assert.Equal(t, 1, enriched.Len())
	assert.Equal(t, domain.ExtractColumns, enriched.Columns())
}

func TestExtractorRunMissingInput(t *testing.T) {
	extractor := NewExtractor(extractorConfig(), storage.NewMemStore(), logging.NewNop())

	err := extractor.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collect/"+config.FileCollect,
		"fatal errors name the offending bucket and object")
}

func TestExtractorRunEmptyInput(t *testing.T) {
	store := storage.NewMemStore()
	cfg := extractorConfig()
	empty := dataset.New(domain.CollectColumns...)
	require.NoError(t, storage.PutTable(context.Background(), store, cfg.BucketCollect, config.FileCollect, empty))

	extractor := NewExtractor(cfg, store, logging.NewNop())
	require.Error(t, extractor.Run(context.Background()), "header-only input is fatal for the stage")
}
