package extract

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"article-etl/pkg/httpclient"
	"article-etl/pkg/storage"
)

// maxImagesPerPage caps harvested candidates to avoid excessive downloads.
const maxImagesPerPage = 5

// maxArticleIDLength bounds the sanitized identifier used in object names.
const maxArticleIDLength = 50

var articleIDSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// Harvester downloads page images and persists them as individually named
// objects in the image bucket.
type Harvester struct {
	client *httpclient.Client
	store  storage.ObjectStore
	bucket string
	log    *zap.SugaredLogger
}

// NewHarvester creates an image harvester writing into the given bucket.
func NewHarvester(client *httpclient.Client, store storage.ObjectStore, bucket string, log *zap.SugaredLogger) *Harvester {
	return &Harvester{client: client, store: store, bucket: bucket, log: log}
}

// ImageCandidates collects the page's <img> tags whose src is an absolute
// http(s) URL, capped at maxImagesPerPage.
func ImageCandidates(doc *goquery.Document) []string {
	var candidates []string
	doc.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		if src, ok := img.Attr("src"); ok && strings.HasPrefix(src, "http") {
			candidates = append(candidates, src)
		}
		return len(candidates) < maxImagesPerPage
	})
	return candidates
}

// Harvest downloads each candidate image and uploads it under a name derived
// from the SHA-1 of the image URL, so re-harvesting the same URL overwrites
// the same object. Per-image failures are logged and skipped. Returns the
// object-store paths actually written.
func (h *Harvester) Harvest(ctx context.Context, candidates []string, articleID string) []string {
	if len(candidates) == 0 {
		return nil
	}

	if err := h.store.EnsureBucket(ctx, h.bucket); err != nil {
		h.log.Warnw("failed to ensure image bucket", "bucket", h.bucket, "error", err)
		return nil
	}

	sanitizedID := SanitizeArticleID(articleID)

	var uploaded []string
	for _, imgURL := range candidates {
		data, contentType, err := h.client.Get(ctx, imgURL, nil, nil)
		if err != nil {
			h.log.Warnw("failed to download image", "url", imgURL, "error", err)
			continue
		}

		objectName := objectName(imgURL, sanitizedID)
		if contentType == "" {
			contentType = "image/jpeg"
		}

		metadata := map[string]string{
			"source_url":        imgURL,
			"original_filename": originalFilename(imgURL),
		}
		if sanitizedID != "" {
			metadata["article_id"] = sanitizedID
		}

		if err := h.store.Put(ctx, h.bucket, objectName, data, contentType, metadata); err != nil {
			h.log.Warnw("failed to upload image", "url", imgURL, "object", objectName, "error", err)
			continue
		}

		uploaded = append(uploaded, h.bucket+"/"+objectName)
		h.log.Debugw("uploaded image", "url", imgURL, "object", objectName)
	}

	return uploaded
}

// SanitizeArticleID restricts an identifier to [A-Za-z0-9_-] and truncates
// it for use in object names. Empty input stays empty.
func SanitizeArticleID(articleID string) string {
	if articleID == "" {
		return ""
	}
	s := articleIDSanitizer.ReplaceAllString(articleID, "_")
	if len(s) > maxArticleIDLength {
		s = s[:maxArticleIDLength]
	}
	return s
}

// objectName derives the object name from the image URL. The identity key is
// the SHA-1 of the URL string itself, not the image bytes: the same URL maps
// to the same object across runs, distinct URLs always map to distinct
// objects.
func objectName(imgURL, sanitizedID string) string {
	sum := sha1.Sum([]byte(imgURL))
	name := hex.EncodeToString(sum[:]) + extensionFor(imgURL)
	if sanitizedID != "" {
		name = sanitizedID + "_" + name
	}
	return name
}

// extensionFor takes the URL path's trailing dot-segment as the extension
// when it looks like one (5 characters or fewer), defaulting to .jpg.
func extensionFor(imgURL string) string {
	path := imgURL
	if u, err := url.Parse(imgURL); err == nil {
		path = u.Path
	}

	if i := strings.LastIndex(path, "."); i >= 0 {
		ext := path[i+1:]
		ext = strings.SplitN(ext, "?", 2)[0]
		ext = strings.SplitN(ext, "#", 2)[0]
		if len(ext) > 0 && len(ext) <= 5 {
			return "." + ext
		}
	}
	return ".jpg"
}

// originalFilename is the last path segment of the image URL.
func originalFilename(imgURL string) string {
	path := imgURL
	if u, err := url.Parse(imgURL); err == nil {
		path = u.Path
	}
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
