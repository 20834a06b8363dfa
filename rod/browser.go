package rod

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/fwojciec/harvest"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Browser implements harvest.Browser at compile time.
var _ harvest.Browser = (*Browser)(nil)

// Browser is a single-page Chrome rendering context. Operations are bound
// to the context passed to each call, so a deadline aborts the operation
// and surfaces as context.DeadlineExceeded.
type Browser struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	scratch  string
	closed   atomic.Bool
}

// Navigate loads the URL and waits for the load event.
func (b *Browser) Navigate(ctx context.Context, url string) error {
	page := b.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("waiting for %s: %w", url, err)
	}
	return nil
}

// ScrollToBottom scrolls the window to the end of the document.
func (b *Browser) ScrollToBottom(ctx context.Context) error {
	_, err := b.page.Context(ctx).Eval(`() => window.scrollTo(0, document.body.scrollHeight)`)
	if err != nil {
		return fmt.Errorf("scrolling: %w", err)
	}
	return nil
}

// ContentHeight returns the document body scroll height.
func (b *Browser) ContentHeight(ctx context.Context) (int, error) {
	res, err := b.page.Context(ctx).Eval(`() => document.body.scrollHeight`)
	if err != nil {
		return 0, fmt.Errorf("reading scroll height: %w", err)
	}
	return res.Value.Int(), nil
}

// HTML returns the rendered markup of the page.
func (b *Browser) HTML(ctx context.Context) (string, error) {
	html, err := b.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("reading HTML: %w", err)
	}
	return html, nil
}

// Click waits for the first element matching selector and clicks it.
func (b *Browser) Click(ctx context.Context, selector string) error {
	el, err := b.page.Context(ctx).Element(selector)
	if err != nil {
		return fmt.Errorf("finding %s: %w", selector, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("clicking %s: %w", selector, err)
	}
	return nil
}

// Input waits for the first element matching selector and types text into
// it, replacing any existing value.
func (b *Browser) Input(ctx context.Context, selector, text string) error {
	el, err := b.page.Context(ctx).Element(selector)
	if err != nil {
		return fmt.Errorf("finding %s: %w", selector, err)
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("clearing %s: %w", selector, err)
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("typing into %s: %w", selector, err)
	}
	return nil
}

// Screenshot captures the full page as PNG and writes it to path.
func (b *Browser) Screenshot(ctx context.Context, path string) error {
	img, err := b.page.Context(ctx).Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return fmt.Errorf("capturing screenshot: %w", err)
	}
	return os.WriteFile(path, img, 0o644)
}

// Close closes the page and browser, kills the browser process and removes
// its scratch directories. Close is safe to call multiple times.
func (b *Browser) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}

	var errs []error
	if b.page != nil {
		if err := b.page.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing page: %w", err))
		}
	}
	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing browser: %w", err))
		}
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
	if b.scratch != "" {
		if err := os.RemoveAll(b.scratch); err != nil {
			errs = append(errs, fmt.Errorf("removing scratch dir: %w", err))
		}
	}
	return errors.Join(errs...)
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (b *Browser) LauncherPID() int {
	if b.launcher == nil {
		return 0
	}
	return b.launcher.PID()
}

// ScratchDir returns the directory holding the browser profile and cache.
func (b *Browser) ScratchDir() string {
	return b.scratch
}
