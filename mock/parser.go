package mock

import "github.com/fwojciec/harvest"

var (
	_ harvest.ArticleParser = (*ArticleParser)(nil)
	_ harvest.PostParser    = (*PostParser)(nil)
)

// ArticleParser is a mock implementation of harvest.ArticleParser.
type ArticleParser struct {
	ParseArticleFn func(html string) (*harvest.ArticleFields, error)
}

func (p *ArticleParser) ParseArticle(html string) (*harvest.ArticleFields, error) {
	return p.ParseArticleFn(html)
}

// PostParser is a mock implementation of harvest.PostParser.
type PostParser struct {
	ParsePostsFn func(html string) ([]harvest.PostFields, error)
}

func (p *PostParser) ParsePosts(html string) ([]harvest.PostFields, error) {
	return p.ParsePostsFn(html)
}
