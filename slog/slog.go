// Package slog provides logging decorators for harvest services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/harvest"
)

// Ensure LoggingAcquirer implements harvest.Acquirer.
var _ harvest.Acquirer = (*LoggingAcquirer)(nil)

// LoggingAcquirer wraps an Acquirer with logging.
type LoggingAcquirer struct {
	next   harvest.Acquirer
	logger *slog.Logger
}

// NewLoggingAcquirer creates a new LoggingAcquirer.
func NewLoggingAcquirer(next harvest.Acquirer, logger *slog.Logger) *LoggingAcquirer {
	return &LoggingAcquirer{next: next, logger: logger}
}

// Platform delegates to the wrapped acquirer.
func (a *LoggingAcquirer) Platform() harvest.Platform {
	return a.next.Platform()
}

// Acquire logs the link being acquired and delegates to the wrapped
// acquirer. Failures are logged at error level.
func (a *LoggingAcquirer) Acquire(ctx context.Context, link string, user *harvest.User) (err error) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		if err != nil {
			level = slog.LevelError
		}
		a.logger.Log(ctx, level, "acquire",
			"platform", a.next.Platform(),
			"url", link,
			"user", user.FullName(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Acquire(ctx, link, user)
}

// Ensure LoggingFetcher implements harvest.Fetcher.
var _ harvest.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   harvest.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next harvest.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Debug("fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// Ensure LoggingCloner implements harvest.Cloner.
var _ harvest.Cloner = (*LoggingCloner)(nil)

// LoggingCloner wraps a Cloner with debug logging.
type LoggingCloner struct {
	next   harvest.Cloner
	logger *slog.Logger
}

// NewLoggingCloner creates a new LoggingCloner.
func NewLoggingCloner(next harvest.Cloner, logger *slog.Logger) *LoggingCloner {
	return &LoggingCloner{next: next, logger: logger}
}

// Clone logs the repository being cloned and delegates to the wrapped
// cloner.
func (c *LoggingCloner) Clone(ctx context.Context, repoURL, dir string) (root string, err error) {
	defer func(begin time.Time) {
		c.logger.Debug("clone",
			"url", repoURL,
			"dir", root,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Clone(ctx, repoURL, dir)
}
