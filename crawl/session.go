package crawl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/harvest"
)

// DefaultSettleInterval is how long a session waits for content to render
// after an action that loads more of it.
const DefaultSettleInterval = 2 * time.Second

// SessionState is a stage in a session's lifecycle.
type SessionState int

// Session states. Closed is terminal.
const (
	StateUninitialized SessionState = iota
	StateReady
	StateLoading
	StatePaginating
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateLoading:
		return "loading"
	case StatePaginating:
		return "paginating"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// SessionConfig configures a Session. Zero values select defaults.
type SessionConfig struct {
	// Timeout bounds each navigation attempt and page operation.
	Timeout time.Duration

	// RetryDelays are the waits between timed-out navigation attempts.
	RetryDelays []time.Duration

	// ScrollLimit caps pagination steps. Zero or less means no cap.
	ScrollLimit int

	// SettleInterval is the wait after each pagination step.
	SettleInterval time.Duration

	Logger *slog.Logger
}

func (c SessionConfig) withDefaults() SessionConfig {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RetryDelays == nil {
		c.RetryDelays = DefaultRetryDelays()
	}
	if c.SettleInterval <= 0 {
		c.SettleInterval = DefaultSettleInterval
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// Session is a stateful handle to one rendering context. It is owned by a
// single acquisition and must be closed on every exit path; WithSession
// does that for the caller.
type Session struct {
	browser harvest.Browser
	cfg     SessionConfig

	mu    sync.Mutex
	state SessionState
}

// OpenSession launches a rendering context and returns a ready session.
func OpenSession(ctx context.Context, launcher harvest.BrowserLauncher, cfg SessionConfig) (*Session, error) {
	s := &Session{cfg: cfg.withDefaults()}

	browser, err := launcher.Launch(ctx)
	if err != nil {
		return nil, harvest.WrapError(harvest.EACQUIRE, err, "launching browser")
	}
	s.browser = browser
	s.state = StateReady
	return s, nil
}

// WithSession opens a session, passes it to fn and closes it afterwards,
// whether fn succeeds or not.
func WithSession(ctx context.Context, launcher harvest.BrowserLauncher, cfg SessionConfig, fn func(s *Session) error) error {
	s, err := OpenSession(ctx, launcher, cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// transition moves the session to next unless it is closed.
func (s *Session) transition(next SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return harvest.Errorf(harvest.EINTERNAL, "session is closed")
	}
	s.state = next
	return nil
}

// Load navigates to url. Attempts that time out are retried with the
// configured delays; other failures are returned at once.
func (s *Session) Load(ctx context.Context, url string) error {
	if err := s.transition(StateLoading); err != nil {
		return err
	}
	defer s.transition(StateReady)

	attempts, err := retryOnTimeout(ctx, s.cfg.Timeout, s.cfg.RetryDelays, s.cfg.Logger, url, func(ctx context.Context) error {
		return s.browser.Navigate(ctx, url)
	})
	if err != nil {
		return harvest.WrapError(harvest.EACQUIRE, err, "loading %s failed after %d attempt(s)", url, attempts)
	}
	return nil
}

// Paginate loads more content until the content height stops changing or
// the scroll limit is reached, and returns the number of steps taken.
func (s *Session) Paginate(ctx context.Context) (int, error) {
	if err := s.transition(StatePaginating); err != nil {
		return 0, err
	}
	defer s.transition(StateReady)

	last, err := s.probe(ctx)
	if err != nil {
		return 0, err
	}

	steps := 0
	for {
		if err := s.withTimeout(ctx, s.browser.ScrollToBottom); err != nil {
			return steps, harvest.WrapError(harvest.EACQUIRE, err, "scrolling")
		}
		steps++

		if err := s.Settle(ctx); err != nil {
			return steps, err
		}

		next, err := s.probe(ctx)
		if err != nil {
			return steps, err
		}
		if next == last || (s.cfg.ScrollLimit > 0 && steps >= s.cfg.ScrollLimit) {
			return steps, nil
		}
		last = next
	}
}

func (s *Session) probe(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	h, err := s.browser.ContentHeight(ctx)
	if err != nil {
		return 0, harvest.WrapError(harvest.EACQUIRE, err, "measuring content height")
	}
	return h, nil
}

// Settle waits for the configured settle interval.
func (s *Session) Settle(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return harvest.WrapError(harvest.EACQUIRE, ctx.Err(), "waiting for content")
	case <-time.After(s.cfg.SettleInterval):
		return nil
	}
}

// HTML returns the current rendered markup.
func (s *Session) HTML(ctx context.Context) (string, error) {
	if s.State() == StateClosed {
		return "", harvest.Errorf(harvest.EINTERNAL, "session is closed")
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	html, err := s.browser.HTML(ctx)
	if err != nil {
		return "", harvest.WrapError(harvest.EACQUIRE, err, "reading page markup")
	}
	return html, nil
}

// Click clicks the first element matching selector.
func (s *Session) Click(ctx context.Context, selector string) error {
	return s.withTimeout(ctx, func(ctx context.Context) error {
		return s.browser.Click(ctx, selector)
	})
}

// Input types text into the first element matching selector.
func (s *Session) Input(ctx context.Context, selector, text string) error {
	return s.withTimeout(ctx, func(ctx context.Context) error {
		return s.browser.Input(ctx, selector, text)
	})
}

// Screenshot saves a screenshot of the current page to path.
func (s *Session) Screenshot(ctx context.Context, path string) error {
	return s.withTimeout(ctx, func(ctx context.Context) error {
		return s.browser.Screenshot(ctx, path)
	})
}

func (s *Session) withTimeout(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.State() == StateClosed {
		return harvest.Errorf(harvest.EINTERNAL, "session is closed")
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	return fn(ctx)
}

// Close releases the rendering context. It is safe to call more than once;
// only the first call releases anything. A release failure is logged and
// not returned.
func (s *Session) Close() {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	s.state = StateClosed
	s.mu.Unlock()

	if s.browser == nil {
		return
	}
	if err := s.browser.Close(); err != nil {
		s.cfg.Logger.Error("failed to release browser", "error", err)
	}
}
