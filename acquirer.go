package harvest

import "context"

// Acquirer retrieves and normalizes content from one external source and
// writes it through a ContentService.
//
// Acquire is idempotent per link: if a record for the link already exists
// it returns nil without writing. Every other failure is returned as an
// EACQUIRE error that wraps the original cause.
type Acquirer interface {
	// Platform returns the platform of the records this acquirer creates.
	Platform() Platform

	// Acquire extracts the content behind link and attributes it to user.
	Acquire(ctx context.Context, link string, user *User) error
}
