package mock

import (
	"context"

	"github.com/fwojciec/harvest"
)

var _ harvest.Acquirer = (*Acquirer)(nil)

// Acquirer is a mock implementation of harvest.Acquirer.
type Acquirer struct {
	PlatformFn func() harvest.Platform
	AcquireFn  func(ctx context.Context, link string, user *harvest.User) error
}

func (a *Acquirer) Platform() harvest.Platform {
	return a.PlatformFn()
}

func (a *Acquirer) Acquire(ctx context.Context, link string, user *harvest.User) error {
	return a.AcquireFn(ctx, link, user)
}
