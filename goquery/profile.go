package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/harvest"
)

// Ensure PostParser implements harvest.PostParser at compile time.
var _ harvest.PostParser = (*PostParser)(nil)

const (
	postSelector  = "div.update-components-update-v2__commentary"
	imageSelector = "button.update-components-image__image-link img[src]"
)

// PostParser extracts posts from a rendered social-profile activity feed.
// The n-th image button is paired with the n-th post.
type PostParser struct{}

// NewPostParser creates a PostParser.
func NewPostParser() *PostParser {
	return &PostParser{}
}

// ParsePosts returns the feed's posts in document order.
func (p *PostParser) ParsePosts(html string) ([]harvest.PostFields, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "failed to parse HTML: %v", err)
	}

	var images []string
	doc.Find(imageSelector).Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		images = append(images, cleanImageURL(src))
	})

	var posts []harvest.PostFields
	doc.Find(postSelector).Each(func(i int, sel *goquery.Selection) {
		post := harvest.PostFields{Text: harvest.CleanText(sel.Text())}
		if i < len(images) {
			post.Image = images[i]
		}
		posts = append(posts, post)
	})
	return posts, nil
}

// cleanImageURL drops tracking query parameters and fragments.
func cleanImageURL(src string) string {
	u, err := url.Parse(strings.TrimSpace(src))
	if err != nil {
		return src
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
