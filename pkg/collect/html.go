package collect

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"article-etl/pkg/domain"
	"article-etl/pkg/httpclient"
	"article-etl/pkg/sources"
)

// HTMLAdapter scrapes article metadata from an HTML page. It prefers
// <article> blocks and falls back to link-list rows (tr.athing, the Hacker
// News layout) when a page has none.
type HTMLAdapter struct {
	client *httpclient.Client
	log    *zap.SugaredLogger
}

// NewHTMLAdapter creates an HTML page adapter.
func NewHTMLAdapter(client *httpclient.Client, log *zap.SugaredLogger) *HTMLAdapter {
	return &HTMLAdapter{client: client, log: log}
}

// Fetch scrapes up to limit article records from the source page.
func (a *HTMLAdapter) Fetch(ctx context.Context, def sources.Definition, limit int) ([]domain.Article, error) {
	a.log.Infow("collecting HTML articles", "source", def.Name, "url", def.URL)

	body, _, err := a.client.Get(ctx, def.URL, nil, def.Headers)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse HTML from %s: %w", def.URL, err)
	}

	articles := scrapeArticleBlocks(doc, def.URL, limit)
	if len(articles) == 0 {
		a.log.Warnw("no <article> tags found, trying fallback parser", "url", def.URL)
		articles = scrapeLinkRows(doc, def.URL, limit)
	}

	a.log.Infow("collected HTML articles", "url", def.URL, "count", len(articles))
	return articles, nil
}

// scrapeArticleBlocks reads <article> elements: title from the first
// h1/h2/h3, link from the first anchor inside that heading, image from the
// first <img> anywhere in the block.
func scrapeArticleBlocks(doc *goquery.Document, sourceURL string, limit int) []domain.Article {
	var articles []domain.Article

	doc.Find("article").EachWithBreak(func(i int, block *goquery.Selection) bool {
		if i >= limit {
			return false
		}

		title := noTitle
		link := ""
		heading := block.Find("h1, h2, h3").First()
		if heading.Length() > 0 {
			if t := strings.TrimSpace(heading.Text()); t != "" {
				title = t
			}
			link, _ = heading.Find("a").First().Attr("href")
		}

		imageURL, _ := block.Find("img").First().Attr("src")

		articles = append(articles, domain.Article{
			ID:       i + 1,
			Title:    title,
			Link:     link,
			ImageURL: imageURL,
			Source:   sourceURL,
		})
		return true
	})

	return articles
}

// scrapeLinkRows is the fallback for pages that render title/link pairs as
// table rows. Rows never carry an image.
func scrapeLinkRows(doc *goquery.Document, sourceURL string, limit int) []domain.Article {
	var articles []domain.Article

	doc.Find("tr.athing").EachWithBreak(func(i int, row *goquery.Selection) bool {
		if i >= limit {
			return false
		}

		title := noTitle
		link := ""
		titleTag := row.Find(".titleline a").First()
		if titleTag.Length() > 0 {
			if t := strings.TrimSpace(titleTag.Text()); t != "" {
				title = t
			}
			link, _ = titleTag.Attr("href")
		}

		articles = append(articles, domain.Article{
			ID:     i + 1,
			Title:  title,
			Link:   link,
			Source: sourceURL,
		})
		return true
	})

	return articles
}
