package mock

import (
	"context"

	"github.com/fwojciec/harvest"
)

var _ harvest.Cloner = (*Cloner)(nil)

// Cloner is a mock implementation of harvest.Cloner.
type Cloner struct {
	CloneFn func(ctx context.Context, repoURL, dir string) (string, error)
}

func (c *Cloner) Clone(ctx context.Context, repoURL, dir string) (string, error) {
	return c.CloneFn(ctx, repoURL, dir)
}
