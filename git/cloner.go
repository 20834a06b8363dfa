// Package git retrieves repositories by running the git command line tool.
package git

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"strings"

	"github.com/fwojciec/harvest"
)

// Ensure Cloner implements harvest.Cloner at compile time.
var _ harvest.Cloner = (*Cloner)(nil)

// Cloner performs shallow clones with an optional access token.
type Cloner struct {
	// Token authenticates HTTPS clones of private repositories.
	Token string

	// Binary is the git executable. Empty means "git" on PATH.
	Binary string
}

// Clone shallow-clones repoURL into dir and returns the checkout root.
// The token never appears in returned errors.
func (c *Cloner) Clone(ctx context.Context, repoURL, dir string) (string, error) {
	src, err := AuthenticatedURL(repoURL, c.Token)
	if err != nil {
		return "", err
	}

	bin := c.Binary
	if bin == "" {
		bin = "git"
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "clone", "--depth", "1", "--quiet", src, dir)
	cmd.Env = append(cmd.Environ(), "GIT_TERMINAL_PROMPT=0")
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(c.redact(stderr.String()))
		if msg == "" {
			msg = c.redact(err.Error())
		}
		return "", fmt.Errorf("git clone %s: %s", repoURL, msg)
	}
	return dir, nil
}

func (c *Cloner) redact(s string) string {
	if c.Token == "" {
		return s
	}
	return strings.ReplaceAll(s, c.Token, "***")
}

// AuthenticatedURL returns repoURL with token set as the URL user. An empty
// token or a non-HTTP URL is returned unchanged.
func AuthenticatedURL(repoURL, token string) (string, error) {
	if token == "" {
		return repoURL, nil
	}
	u, err := url.Parse(repoURL)
	if err != nil {
		return "", fmt.Errorf("parsing repository URL: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return repoURL, nil
	}
	u.User = url.User(token)
	return u.String(), nil
}
