package harvest

import "context"

// Cloner retrieves a copy of a code repository.
type Cloner interface {
	// Clone copies the repository at repoURL into dir and returns the root
	// of the checkout.
	Clone(ctx context.Context, repoURL, dir string) (string, error)
}
