package mock

import (
	"context"

	"github.com/fwojciec/harvest"
)

var (
	_ harvest.Browser         = (*Browser)(nil)
	_ harvest.BrowserLauncher = (*BrowserLauncher)(nil)
)

// Browser is a mock implementation of harvest.Browser.
type Browser struct {
	NavigateFn       func(ctx context.Context, url string) error
	ScrollToBottomFn func(ctx context.Context) error
	ContentHeightFn  func(ctx context.Context) (int, error)
	HTMLFn           func(ctx context.Context) (string, error)
	ClickFn          func(ctx context.Context, selector string) error
	InputFn          func(ctx context.Context, selector, text string) error
	ScreenshotFn     func(ctx context.Context, path string) error
	CloseFn          func() error
}

func (b *Browser) Navigate(ctx context.Context, url string) error {
	return b.NavigateFn(ctx, url)
}

func (b *Browser) ScrollToBottom(ctx context.Context) error {
	return b.ScrollToBottomFn(ctx)
}

func (b *Browser) ContentHeight(ctx context.Context) (int, error) {
	return b.ContentHeightFn(ctx)
}

func (b *Browser) HTML(ctx context.Context) (string, error) {
	return b.HTMLFn(ctx)
}

func (b *Browser) Click(ctx context.Context, selector string) error {
	return b.ClickFn(ctx, selector)
}

func (b *Browser) Input(ctx context.Context, selector, text string) error {
	return b.InputFn(ctx, selector, text)
}

func (b *Browser) Screenshot(ctx context.Context, path string) error {
	return b.ScreenshotFn(ctx, path)
}

func (b *Browser) Close() error {
	return b.CloseFn()
}

// BrowserLauncher is a mock implementation of harvest.BrowserLauncher.
type BrowserLauncher struct {
	LaunchFn func(ctx context.Context) (harvest.Browser, error)
}

func (l *BrowserLauncher) Launch(ctx context.Context) (harvest.Browser, error) {
	return l.LaunchFn(ctx)
}
