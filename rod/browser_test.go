//go:build integration

package rod_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPage = `<!doctype html>
<html>
<head><title>Feed</title></head>
<body>
<input id="q">
<button id="more" onclick="document.getElementById('out').textContent = document.getElementById('q').value">more</button>
<div id="out"></div>
<div style="height: 3000px">tall</div>
</body>
</html>`

func launch(t *testing.T) *rod.Browser {
	t.Helper()

	b, err := rod.NewLauncher().Launch(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	return b.(*rod.Browser)
}

func pageServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(testPage))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBrowser_RendersAndInteracts(t *testing.T) {
	t.Parallel()

	srv := pageServer(t)
	b := launch(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, b.Navigate(ctx, srv.URL))

	height, err := b.ContentHeight(ctx)
	require.NoError(t, err)
	assert.Greater(t, height, 3000)
	require.NoError(t, b.ScrollToBottom(ctx))

	require.NoError(t, b.Input(ctx, "#q", "hello"))
	require.NoError(t, b.Click(ctx, "#more"))

	html, err := b.HTML(ctx)
	require.NoError(t, err)
	assert.Contains(t, html, `<div id="out">hello</div>`)

	shot := filepath.Join(t.TempDir(), "page.png")
	require.NoError(t, b.Screenshot(ctx, shot))
	info, err := os.Stat(shot)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestBrowser_Navigate_DeadlineExceeded(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	b := launch(t)
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := b.Navigate(ctx, srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestBrowser_Close_RemovesScratchDir(t *testing.T) {
	t.Parallel()

	b, err := rod.NewLauncher().Launch(context.Background())
	require.NoError(t, err)
	dir := b.(*rod.Browser).ScratchDir()
	require.DirExists(t, dir)

	require.NoError(t, b.Close())
	require.NoError(t, b.Close())
	assert.NoDirExists(t, dir)
}

func TestLauncher_Launch_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var l harvest.BrowserLauncher = rod.NewLauncher()
	_, err := l.Launch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
