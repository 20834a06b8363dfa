package harvest

import "context"

// Browser is a headless, scriptable rendering context. A Browser is owned
// by exactly one session and is never shared across acquisitions.
type Browser interface {
	// Navigate loads the URL and waits for the page to load.
	// The context controls timeout and cancellation.
	Navigate(ctx context.Context, url string) error

	// ScrollToBottom triggers loading of more content.
	ScrollToBottom(ctx context.Context) error

	// ContentHeight returns the current rendered content height, used as the
	// probe for pagination convergence.
	ContentHeight(ctx context.Context) (int, error)

	// HTML returns the current rendered markup.
	HTML(ctx context.Context) (string, error)

	// Click clicks the first element matching the CSS selector.
	Click(ctx context.Context, selector string) error

	// Input types text into the first element matching the CSS selector.
	Input(ctx context.Context, selector, text string) error

	// Screenshot writes a PNG screenshot of the page to path.
	Screenshot(ctx context.Context, path string) error

	// Close releases the rendering context and its scratch storage.
	Close() error
}

// BrowserLauncher starts new rendering contexts.
type BrowserLauncher interface {
	Launch(ctx context.Context) (Browser, error)
}
