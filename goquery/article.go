// Package goquery implements source-specific DOM rules with goquery.
package goquery

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/harvest"
)

// Ensure ArticleParser implements harvest.ArticleParser at compile time.
var _ harvest.ArticleParser = (*ArticleParser)(nil)

// Selectors are tried in order; the first match with text wins.
var (
	titleSelectors = []string{
		"h1",
		"h1.pw-post-title",
		"h1.article-title",
		`h1[data-testid="article-title"]`,
	}
	subtitleSelectors = []string{
		"h2.pw-subtitle-paragraph",
		"h2.article-subtitle",
		"h3.graf--subtitle",
		`h2[data-testid="article-subtitle"]`,
	}
	bodySelectors = []string{
		"article",
		".story-content",
		".postArticle-content",
		`div[data-testid="article-body"]`,
	}
)

const (
	bodyBlocks = "p, h1, h2, h3, pre, code"

	// minFallbackText is the length a div's text must exceed to count as
	// body content when no body container matched.
	minFallbackText = 100
)

var (
	readingTimeRe = regexp.MustCompile(`(\d+)\s*min read`)
	countRe       = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([kKmM])?\b`)
)

// ArticleParser extracts article fields from rendered blog-host markup.
type ArticleParser struct{}

// NewArticleParser creates an ArticleParser.
func NewArticleParser() *ArticleParser {
	return &ArticleParser{}
}

// ParseArticle returns the fields found in html. Missing fields are left
// zero; deciding whether the result is usable is up to the caller.
func (p *ArticleParser) ParseArticle(html string) (*harvest.ArticleFields, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "failed to parse HTML: %v", err)
	}

	return &harvest.ArticleFields{
		Title:           firstText(doc, titleSelectors),
		Subtitle:        firstText(doc, subtitleSelectors),
		Body:            body(doc),
		ReadingTime:     readingTime(doc),
		EngagementCount: claps(doc),
	}, nil
}

func firstText(doc *goquery.Document, selectors []string) string {
	for _, s := range selectors {
		if text := harvest.CollapseWhitespace(doc.Find(s).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func body(doc *goquery.Document) string {
	for _, s := range bodySelectors {
		container := doc.Find(s).First()
		if container.Length() == 0 {
			continue
		}
		container.Find("script, style").Remove()

		var blocks []string
		container.Find(bodyBlocks).Not("pre code").Each(func(_ int, sel *goquery.Selection) {
			if text := strings.TrimSpace(sel.Text()); text != "" {
				blocks = append(blocks, text)
			}
		})
		if len(blocks) > 0 {
			return strings.Join(blocks, "\n\n")
		}
	}

	var blocks []string
	doc.Find("div").Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); len(text) > minFallbackText {
			blocks = append(blocks, text)
		}
	})
	return strings.Join(blocks, "\n\n")
}

func readingTime(doc *goquery.Document) int {
	minutes := 0
	doc.Find("span").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		m := readingTimeRe.FindStringSubmatch(strings.ToLower(sel.Text()))
		if m == nil {
			return true
		}
		minutes, _ = strconv.Atoi(m[1])
		return false
	})
	return minutes
}

func claps(doc *goquery.Document) int {
	count := 0
	doc.Find("button").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		label, _ := sel.Attr("aria-label")
		text := strings.TrimSpace(sel.Text())
		if !strings.Contains(strings.ToLower(text+" "+label), "clap") {
			return true
		}
		n, ok := ParseCount(text)
		if !ok {
			return true
		}
		count = n
		return false
	})
	return count
}

// ParseCount parses an abbreviated count such as "42", "1.2K" or "3M".
func ParseCount(s string) (int, bool) {
	m := countRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	switch strings.ToLower(m[2]) {
	case "k":
		f *= 1e3
	case "m":
		f *= 1e6
	}
	return int(f + 0.5), true
}
