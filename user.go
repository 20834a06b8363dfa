package harvest

import (
	"context"

	"github.com/google/uuid"
)

// User is the author that acquired content is attributed to.
// The (FirstName, LastName) pair is its natural key.
type User struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
}

// FullName returns the first and last name joined by a space.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Validate returns an error if the user contains invalid fields.
func (u *User) Validate() error {
	if u.FirstName == "" {
		return Errorf(EINVALID, "user first name required")
	}
	if u.LastName == "" {
		return Errorf(EINVALID, "user last name required")
	}
	return nil
}

// UserService represents a service for managing users.
type UserService interface {
	// GetOrCreateUser returns the user with the given natural key, creating
	// it if absent. Concurrent callers racing on the same key all receive
	// the same user.
	GetOrCreateUser(ctx context.Context, firstName, lastName string) (*User, error)

	// ResolveUser splits fullName into its natural key and delegates to
	// GetOrCreateUser. Returns EINVALID if fullName has fewer than two parts.
	ResolveUser(ctx context.Context, fullName string) (*User, error)

	// FindUserByID retrieves a user by ID.
	// Returns ENOTFOUND if the user does not exist.
	FindUserByID(ctx context.Context, id uuid.UUID) (*User, error)
}
