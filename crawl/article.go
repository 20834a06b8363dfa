package crawl

import (
	"context"
	"log/slog"

	"github.com/fwojciec/harvest"
)

// Compile-time interface verification.
var _ harvest.Acquirer = (*ArticleAcquirer)(nil)

// ArticleAcquirer stores one long-form article per link.
//
// Pages are rendered through a browser session when Launcher is set and
// fetched statelessly through Fetcher otherwise. When the host rules find
// no body, Extractor and Converter supply one from the same markup.
type ArticleAcquirer struct {
	Contents harvest.ContentService
	Parser   harvest.ArticleParser

	Launcher harvest.BrowserLauncher
	Session  SessionConfig
	Fetcher  harvest.Fetcher

	Extractor harvest.Extractor
	Converter harvest.Converter

	Logger *slog.Logger
}

// Platform returns harvest.PlatformArticle.
func (a *ArticleAcquirer) Platform() harvest.Platform {
	return harvest.PlatformArticle
}

// Acquire retrieves the article at link and stores it.
func (a *ArticleAcquirer) Acquire(ctx context.Context, link string, user *harvest.User) error {
	logger := discardLogger(a.Logger)

	link, err := normalizeLink(link)
	if err != nil {
		return err
	}
	if exists(ctx, a.Contents, harvest.PlatformArticle, link) {
		logger.Info("article already exists", "url", link)
		return nil
	}

	html, err := a.render(ctx, link)
	if err != nil {
		return acquireError(link, err)
	}

	fields, err := a.Parser.ParseArticle(html)
	if err != nil {
		return acquireError(link, err)
	}
	if fields.Body == "" || fields.Title == "" {
		a.fallback(html, fields, logger)
	}
	if fields.Title == "" {
		return acquireError(link, harvest.Errorf(harvest.EACQUIRE, "no article title found"))
	}

	content := map[string]any{
		"title": fields.Title,
		"body":  fields.Body,
		"metadata": map[string]any{
			"reading_time":     fields.ReadingTime,
			"engagement_count": fields.EngagementCount,
			"content_hash":     ComputeHash(fields.Body),
		},
	}
	if fields.Subtitle != "" {
		content["subtitle"] = fields.Subtitle
	}

	article := &harvest.Article{
		Envelope: harvest.NewEnvelope(harvest.PlatformArticle, user, content),
		Link:     link,
		Title:    fields.Title,
	}
	if err := a.Contents.CreateContent(ctx, article); err != nil {
		return acquireError(link, err)
	}

	logger.Info("article saved", "url", link, "title", fields.Title, "body_length", len(fields.Body))
	return nil
}

func (a *ArticleAcquirer) render(ctx context.Context, link string) (string, error) {
	if a.Launcher == nil {
		if a.Fetcher == nil {
			return "", harvest.Errorf(harvest.ECONFIG, "article acquirer has neither browser nor fetcher")
		}
		return a.fetch(ctx, link)
	}

	var html string
	err := WithSession(ctx, a.Launcher, a.Session, func(s *Session) error {
		if err := s.Load(ctx, link); err != nil {
			return err
		}
		if err := s.Settle(ctx); err != nil {
			return err
		}
		if _, err := s.Paginate(ctx); err != nil {
			return err
		}
		var err error
		html, err = s.HTML(ctx)
		return err
	})
	return html, err
}

func (a *ArticleAcquirer) fetch(ctx context.Context, link string) (string, error) {
	cfg := a.Session.withDefaults()
	var html string
	_, err := retryOnTimeout(ctx, cfg.Timeout, cfg.RetryDelays, cfg.Logger, link, func(ctx context.Context) error {
		var err error
		html, err = a.Fetcher.Fetch(ctx, link)
		return err
	})
	return html, err
}

// fallback fills a missing body or title from the boilerplate-removing
// extractor. Extraction failures leave fields unchanged.
func (a *ArticleAcquirer) fallback(html string, fields *harvest.ArticleFields, logger *slog.Logger) {
	if a.Extractor == nil {
		return
	}
	res, err := a.Extractor.Extract(html)
	if err != nil {
		logger.Warn("fallback extraction failed", "error", err)
		return
	}
	if fields.Title == "" {
		fields.Title = res.Title
	}
	if fields.Body == "" && res.ContentHTML != "" && a.Converter != nil {
		md, err := a.Converter.Convert(res.ContentHTML)
		if err != nil {
			logger.Warn("fallback conversion failed", "error", err)
			return
		}
		fields.Body = md
	}
}
