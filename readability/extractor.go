// Package readability extracts article bodies with go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/harvest"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements harvest.Extractor at compile time.
var _ harvest.Extractor = (*Extractor)(nil)

// Extractor uses Mozilla's readability algorithm to find the article body.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the article title and body HTML. The title prefers the
// page title over the first heading, as readability does.
func (e *Extractor) Extract(rawHTML string) (*harvest.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, harvest.Errorf(harvest.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, harvest.WrapError(harvest.EINVALID, err, "no article content found")
	}

	return &harvest.ExtractResult{
		Title:       harvest.CleanTitle(article.Title),
		ContentHTML: strings.TrimSpace(article.Content),
	}, nil
}
