package crawl_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/crawl"
	"github.com/fwojciec/harvest/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profileConfig(contents harvest.ContentService, browser *mock.Browser, posts []harvest.PostFields) crawl.ProfileConfig {
	return crawl.ProfileConfig{
		Contents: contents,
		Launcher: launcherFor(browser),
		Parser: &mock.PostParser{ParsePostsFn: func(html string) ([]harvest.PostFields, error) {
			return posts, nil
		}},
		Session:  testSessionConfig(),
		Email:    "ada@example.com",
		Password: "secret",
	}
}

func interactiveBrowser(navigated *[]string, inputs map[string]string) *mock.Browser {
	var scrolls atomic.Int32
	b := probeBrowser([]int{1}, &scrolls)
	b.NavigateFn = func(ctx context.Context, url string) error {
		*navigated = append(*navigated, url)
		return nil
	}
	b.InputFn = func(ctx context.Context, selector, text string) error {
		inputs[selector] = text
		return nil
	}
	b.ClickFn = func(ctx context.Context, selector string) error { return nil }
	b.ScreenshotFn = func(ctx context.Context, path string) error { return nil }
	return b
}

func TestNewProfileAcquirer(t *testing.T) {
	t.Parallel()

	t.Run("requires credentials", func(t *testing.T) {
		t.Parallel()

		_, err := crawl.NewProfileAcquirer(crawl.ProfileConfig{Email: "ada@example.com"})
		require.Error(t, err)
		assert.Equal(t, harvest.ECONFIG, harvest.ErrorCode(err))
	})

	t.Run("requires a browser", func(t *testing.T) {
		t.Parallel()

		_, err := crawl.NewProfileAcquirer(crawl.ProfileConfig{Email: "ada@example.com", Password: "secret"})
		require.Error(t, err)
		assert.Equal(t, harvest.ECONFIG, harvest.ErrorCode(err))
	})
}

func TestProfileAcquirer_Acquire(t *testing.T) {
	t.Parallel()

	t.Run("logs in and stores posts in one batch", func(t *testing.T) {
		t.Parallel()

		var saved []harvest.Record
		batches := 0
		contents := emptyStore(&saved)
		createContents := contents.CreateContentsFn
		contents.CreateContentsFn = func(ctx context.Context, recs []harvest.Record) error {
			batches++
			return createContents(ctx, recs)
		}

		var navigated []string
		inputs := map[string]string{}
		browser := interactiveBrowser(&navigated, inputs)

		acq, err := crawl.NewProfileAcquirer(profileConfig(contents, browser, []harvest.PostFields{
			{Text: "first"},
			{Text: "second", Image: "https://media.licdn.com/a.jpg"},
		}))
		require.NoError(t, err)

		user := testUser()
		require.NoError(t, acq.Acquire(context.Background(), "https://www.linkedin.com/in/ada/", user))

		assert.Equal(t, []string{"https://www.linkedin.com/login", "https://www.linkedin.com/in/ada"}, navigated)
		assert.Equal(t, "ada@example.com", inputs["#username"])
		assert.Equal(t, "secret", inputs["#password"])

		assert.Equal(t, 1, batches)
		require.Len(t, saved, 2)
		second := saved[1].(*harvest.Post)
		assert.Equal(t, "https://www.linkedin.com/in/ada", second.Link)
		assert.Equal(t, "https://media.licdn.com/a.jpg", second.Image)
		assert.Equal(t, user.ID, second.AuthorID)
		assert.Equal(t, "second", second.Content["text"])
		assert.Equal(t, 1, second.Content["index"])
		assert.Equal(t, map[string]any{"has_image": true}, second.Content["metadata"])
	})

	t.Run("caps the number of posts", func(t *testing.T) {
		t.Parallel()

		var saved []harvest.Record
		var navigated []string
		posts := make([]harvest.PostFields, crawl.MaxPosts+5)
		for i := range posts {
			posts[i] = harvest.PostFields{Text: fmt.Sprintf("post %d", i)}
		}
		acq, err := crawl.NewProfileAcquirer(profileConfig(emptyStore(&saved), interactiveBrowser(&navigated, map[string]string{}), posts))
		require.NoError(t, err)

		require.NoError(t, acq.Acquire(context.Background(), "https://www.linkedin.com/in/ada", testUser()))
		assert.Len(t, saved, crawl.MaxPosts)
	})

	t.Run("continues when the posts tab is missing", func(t *testing.T) {
		t.Parallel()

		var saved []harvest.Record
		var navigated []string
		browser := interactiveBrowser(&navigated, map[string]string{})
		browser.ClickFn = func(ctx context.Context, selector string) error {
			if selector == ".profile-creator-shared-content-view__footer-action" {
				return errors.New("element not found")
			}
			return nil
		}
		acq, err := crawl.NewProfileAcquirer(profileConfig(emptyStore(&saved), browser, []harvest.PostFields{{Text: "only"}}))
		require.NoError(t, err)

		require.NoError(t, acq.Acquire(context.Background(), "https://www.linkedin.com/in/ada", testUser()))
		assert.Len(t, saved, 1)
	})

	t.Run("fails without posts and saves a debug screenshot", func(t *testing.T) {
		t.Parallel()

		var saved []harvest.Record
		var navigated []string
		var shots []string
		var closes atomic.Int32
		browser := interactiveBrowser(&navigated, map[string]string{})
		browser.ScreenshotFn = func(ctx context.Context, path string) error {
			shots = append(shots, path)
			return nil
		}
		browser.CloseFn = func() error {
			closes.Add(1)
			return nil
		}
		cfg := profileConfig(emptyStore(&saved), browser, nil)
		cfg.DebugDir = t.TempDir()
		acq, err := crawl.NewProfileAcquirer(cfg)
		require.NoError(t, err)

		err = acq.Acquire(context.Background(), "https://www.linkedin.com/in/ada", testUser())
		require.Error(t, err)
		assert.Equal(t, harvest.EACQUIRE, harvest.ErrorCode(err))
		assert.Empty(t, saved)
		require.Len(t, shots, 1)
		assert.Contains(t, shots[0], cfg.DebugDir+string(os.PathSeparator)+"extraction_error_")
		assert.Equal(t, int32(1), closes.Load())
	})

	t.Run("is a no-op when posts exist for the link", func(t *testing.T) {
		t.Parallel()

		var navigated []string
		contents := &mock.ContentService{
			FindContentFn: func(ctx context.Context, filter harvest.ContentFilter) (harvest.Record, bool) {
				assert.Equal(t, harvest.PlatformPost, filter.Platform)
				return &harvest.Post{}, true
			},
		}
		acq, err := crawl.NewProfileAcquirer(profileConfig(contents, interactiveBrowser(&navigated, map[string]string{}), nil))
		require.NoError(t, err)

		require.NoError(t, acq.Acquire(context.Background(), "https://www.linkedin.com/in/ada", testUser()))
		assert.Empty(t, navigated)
	})
}
