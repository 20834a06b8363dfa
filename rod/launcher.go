// Package rod provides headless Chrome rendering contexts using go-rod.
package rod

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/harvest"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Launcher implements harvest.BrowserLauncher at compile time.
var _ harvest.BrowserLauncher = (*Launcher)(nil)

// Launcher starts one isolated headless Chrome per Launch call. Every
// browser gets its own profile and cache directories, removed on Close.
type Launcher struct {
	// Bin is the Chrome executable. Empty lets rod find or download one.
	Bin string

	// TempDir is the parent of per-browser scratch directories. Empty means
	// the system default.
	TempDir string
}

// NewLauncher returns a Launcher with default settings.
func NewLauncher() *Launcher {
	return &Launcher{}
}

// Launch starts a browser and opens a blank page in it.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func (l *Launcher) Launch(ctx context.Context) (harvest.Browser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scratch, err := os.MkdirTemp(l.TempDir, "harvest-browser-*")
	if err != nil {
		return nil, fmt.Errorf("creating browser scratch dir: %w", err)
	}

	lnchr := launcher.New().
		NoSandbox(true).
		Headless(true).
		UserDataDir(filepath.Join(scratch, "profile")).
		Set("disk-cache-dir", filepath.Join(scratch, "cache")).
		Set("disable-popup-blocking").
		Set("disable-notifications").
		Set("disable-extensions").
		Set("disable-dev-shm-usage").
		Set("ignore-certificate-errors").
		Leakless(true)
	if l.Bin != "" {
		lnchr = lnchr.Bin(l.Bin)
	}

	u, err := lnchr.Launch()
	if err != nil {
		os.RemoveAll(scratch)
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	b := &Browser{launcher: lnchr, scratch: scratch}

	b.browser = rod.New().ControlURL(u)
	if err := b.browser.Connect(); err != nil {
		b.browser = nil
		b.Close()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	if err := b.browser.IgnoreCertErrors(true); err != nil {
		b.Close()
		return nil, fmt.Errorf("configuring browser: %w", err)
	}

	b.page, err = b.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("opening page: %w", err)
	}

	return b, nil
}
