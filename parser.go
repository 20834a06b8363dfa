package harvest

// ArticleFields holds the fields parsed from a rendered article page.
type ArticleFields struct {
	Title           string
	Subtitle        string
	Body            string
	ReadingTime     int
	EngagementCount int
}

// ArticleParser applies an article host's DOM rules to rendered markup.
type ArticleParser interface {
	ParseArticle(html string) (*ArticleFields, error)
}

// PostFields holds one post parsed from a rendered profile feed.
type PostFields struct {
	Text  string
	Image string
}

// PostParser applies a social-profile host's DOM rules to rendered markup.
type PostParser interface {
	// ParsePosts returns posts in feed order.
	ParsePosts(html string) ([]PostFields, error)
}
