// Package extract implements the content-extraction stage: per collected
// record it derives cleaned body text and harvests page images into the
// object store.
package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	// minParagraphLength filters boilerplate: only paragraphs longer than
	// this (after trimming) count as body text.
	minParagraphLength = 40
	// maxParagraphs caps the extracted text at the first qualifying
	// paragraphs in document order.
	maxParagraphs = 10
)

// ExtractText derives the cleaned body text of a page: script, style and
// noscript elements are stripped, then qualifying paragraphs are joined with
// newlines. Returns "" when no paragraph qualifies.
func ExtractText(doc *goquery.Document) string {
	doc.Find("script, style, noscript").Remove()

	var paragraphs []string
	doc.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := strings.TrimSpace(p.Text())
		if utf8.RuneCountInString(text) > minParagraphLength {
			paragraphs = append(paragraphs, text)
		}
		return len(paragraphs) < maxParagraphs
	})

	return strings.Join(paragraphs, "\n")
}
