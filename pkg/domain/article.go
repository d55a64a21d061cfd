package domain

import "strconv"

// Article is one collected record. String fields are empty when the value
// could not be recovered; Title falls back to "No title" at the adapter.
type Article struct {
	ID         int
	Title      string
	Link       string
	ImageURL   string
	Source     string
	SourceName string
}

// Column names shared by every stage artifact.
const (
	ColID            = "id"
	ColTitle         = "title"
	ColLink          = "link"
	ColImageURL      = "image_url"
	ColSource        = "source"
	ColSourceName    = "source_name"
	ColExtractedText = "extracted_text"
	ColFoundImages   = "found_images"
	ColTitleLength   = "title_length"
)

// CollectColumns is the column order of the collection artifact.
var CollectColumns = []string{ColID, ColTitle, ColLink, ColImageURL, ColSource, ColSourceName}

// ExtractColumns is the column order of the enriched artifact.
var ExtractColumns = []string{
	ColID, ColTitle, ColLink, ColImageURL, ColSource, ColSourceName,
	ColExtractedText, ColFoundImages,
}

// Row converts the article into a column->value map for a stage artifact.
func (a Article) Row() map[string]string {
	return map[string]string{
		ColID:         strconv.Itoa(a.ID),
		ColTitle:      a.Title,
		ColLink:       a.Link,
		ColImageURL:   a.ImageURL,
		ColSource:     a.Source,
		ColSourceName: a.SourceName,
	}
}
