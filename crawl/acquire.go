// Package crawl routes URLs to source acquirers and drives their fetch
// sessions. Each acquirer checks the store for an existing record before
// retrieving anything, so resubmitting a URL is a no-op.
package crawl

import (
	"context"
	"log/slog"

	"github.com/fwojciec/harvest"
)

// exists reports whether a record of platform is stored for link.
func exists(ctx context.Context, contents harvest.ContentService, platform harvest.Platform, link string) bool {
	_, ok := contents.FindContent(ctx, harvest.ContentFilter{Platform: platform, Link: &link})
	return ok
}

// acquireError wraps err as an acquisition failure for link.
func acquireError(link string, err error) error {
	return harvest.WrapError(harvest.EACQUIRE, err, "acquiring %s", link)
}

// normalizeLink canonicalizes link for the idempotency check and storage.
func normalizeLink(link string) (string, error) {
	normalized, err := harvest.NormalizeURL(link)
	if err != nil {
		return "", acquireError(link, err)
	}
	return normalized, nil
}

func discardLogger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}
