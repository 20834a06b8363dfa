package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fwojciec/harvest"
)

// MaxPosts caps the posts stored per profile.
const MaxPosts = 20

// Login page elements of the social-profile host.
const (
	loginURL             = "https://www.linkedin.com/login"
	loginUserSelector    = "#username"
	loginPassSelector    = "#password"
	loginSubmit          = ".login__form_action_container button"
	postsTabSelector     = ".profile-creator-shared-content-view__footer-action"
	screenshotTimeLayout = "20060102_150405"
)

// ProfileConfig configures a ProfileAcquirer.
type ProfileConfig struct {
	Contents harvest.ContentService
	Launcher harvest.BrowserLauncher
	Parser   harvest.PostParser
	Session  SessionConfig

	Email    string
	Password string

	// DebugDir, when set, receives a screenshot of the page on failure.
	DebugDir string

	Logger *slog.Logger
}

// Compile-time interface verification.
var _ harvest.Acquirer = (*ProfileAcquirer)(nil)

// ProfileAcquirer stores the recent posts of a social profile. It logs in
// first, so it needs account credentials.
type ProfileAcquirer struct {
	cfg    ProfileConfig
	logger *slog.Logger
}

// NewProfileAcquirer returns a ProfileAcquirer.
// Returns ECONFIG if the credentials are missing.
func NewProfileAcquirer(cfg ProfileConfig) (*ProfileAcquirer, error) {
	if cfg.Email == "" || cfg.Password == "" {
		return nil, harvest.Errorf(harvest.ECONFIG, "profile credentials not configured: set LINKEDIN_EMAIL and LINKEDIN_PASSWORD")
	}
	if cfg.Launcher == nil {
		return nil, harvest.Errorf(harvest.ECONFIG, "profile acquisition requires a browser")
	}
	return &ProfileAcquirer{cfg: cfg, logger: discardLogger(cfg.Logger)}, nil
}

// Platform returns harvest.PlatformPost.
func (a *ProfileAcquirer) Platform() harvest.Platform {
	return harvest.PlatformPost
}

// Acquire logs in, loads the profile at link and stores its posts.
func (a *ProfileAcquirer) Acquire(ctx context.Context, link string, user *harvest.User) error {
	link, err := normalizeLink(link)
	if err != nil {
		return err
	}
	if exists(ctx, a.cfg.Contents, harvest.PlatformPost, link) {
		a.logger.Info("posts already exist", "url", link)
		return nil
	}

	var posts []harvest.PostFields
	err = WithSession(ctx, a.cfg.Launcher, a.cfg.Session, func(s *Session) error {
		var err error
		posts, err = a.collect(ctx, s, link)
		if err != nil {
			a.screenshot(ctx, s, "extraction_error")
		}
		return err
	})
	if err != nil {
		return acquireError(link, err)
	}

	if len(posts) > MaxPosts {
		posts = posts[:MaxPosts]
	}
	recs := make([]harvest.Record, len(posts))
	for i, p := range posts {
		recs[i] = &harvest.Post{
			Envelope: harvest.NewEnvelope(harvest.PlatformPost, user, map[string]any{
				"text":  p.Text,
				"index": i,
				"metadata": map[string]any{
					"has_image": p.Image != "",
				},
			}),
			Link:  link,
			Image: p.Image,
		}
	}
	if err := a.cfg.Contents.CreateContents(ctx, recs); err != nil {
		return acquireError(link, err)
	}

	a.logger.Info("posts saved", "url", link, "count", len(recs))
	return nil
}

func (a *ProfileAcquirer) collect(ctx context.Context, s *Session, link string) ([]harvest.PostFields, error) {
	if err := a.login(ctx, s); err != nil {
		return nil, err
	}
	if err := s.Load(ctx, link); err != nil {
		return nil, err
	}

	if err := s.Click(ctx, postsTabSelector); err != nil {
		a.logger.Warn("could not open posts tab", "url", link, "error", err)
	} else if err := s.Settle(ctx); err != nil {
		return nil, err
	}

	if _, err := s.Paginate(ctx); err != nil {
		return nil, err
	}

	html, err := s.HTML(ctx)
	if err != nil {
		return nil, err
	}
	posts, err := a.cfg.Parser.ParsePosts(html)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, harvest.Errorf(harvest.EACQUIRE, "no posts found")
	}
	return posts, nil
}

func (a *ProfileAcquirer) login(ctx context.Context, s *Session) error {
	if err := s.Load(ctx, loginURL); err != nil {
		return err
	}
	if err := s.Input(ctx, loginUserSelector, a.cfg.Email); err != nil {
		return harvest.WrapError(harvest.EACQUIRE, err, "entering login email")
	}
	if err := s.Input(ctx, loginPassSelector, a.cfg.Password); err != nil {
		return harvest.WrapError(harvest.EACQUIRE, err, "entering login password")
	}
	if err := s.Click(ctx, loginSubmit); err != nil {
		return harvest.WrapError(harvest.EACQUIRE, err, "submitting login form")
	}
	return s.Settle(ctx)
}

// screenshot saves the current page into DebugDir. Failures are logged.
func (a *ProfileAcquirer) screenshot(ctx context.Context, s *Session, prefix string) {
	if a.cfg.DebugDir == "" {
		return
	}
	path := filepath.Join(a.cfg.DebugDir, fmt.Sprintf("%s_%s.png", prefix, time.Now().Format(screenshotTimeLayout)))
	if err := s.Screenshot(ctx, path); err != nil {
		a.logger.Error("failed to save debug screenshot", "path", path, "error", err)
		return
	}
	a.logger.Info("debug screenshot saved", "path", path)
}
