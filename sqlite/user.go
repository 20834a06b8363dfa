package sqlite

import (
	"context"

	"github.com/fwojciec/harvest"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ harvest.UserService = (*UserService)(nil)

// UsersCollection describes the users collection. The first and last name
// pair is unique.
var UsersCollection = CollectionSpec{
	Name:   "users",
	Unique: [][]string{{"first_name", "last_name"}},
}

type userCodec struct{}

func (userCodec) Encode(u *harvest.User) (uuid.UUID, map[string]any, error) {
	if err := u.Validate(); err != nil {
		return uuid.Nil, nil, err
	}
	return u.ID, map[string]any{
		"first_name": u.FirstName,
		"last_name":  u.LastName,
	}, nil
}

func (userCodec) Decode(id uuid.UUID, doc map[string]any) (*harvest.User, error) {
	return &harvest.User{
		ID:        id,
		FirstName: stringField(doc, "first_name"),
		LastName:  stringField(doc, "last_name"),
	}, nil
}

// UserService implements harvest.UserService using SQLite.
type UserService struct {
	users *Collection[*harvest.User]
}

// NewUserService creates a new UserService.
func NewUserService(db *DB) *UserService {
	return &UserService{users: NewCollection[*harvest.User](db, UsersCollection, userCodec{})}
}

// GetOrCreateUser returns the user with the given name, creating it if absent.
func (s *UserService) GetOrCreateUser(ctx context.Context, firstName, lastName string) (*harvest.User, error) {
	u := &harvest.User{FirstName: firstName, LastName: lastName}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return s.users.GetOrCreate(ctx, Filter{
		"first_name": firstName,
		"last_name":  lastName,
	})
}

// ResolveUser splits fullName and returns the matching user, creating it if
// absent.
func (s *UserService) ResolveUser(ctx context.Context, fullName string) (*harvest.User, error) {
	first, last, err := harvest.SplitFullName(fullName)
	if err != nil {
		return nil, err
	}
	return s.GetOrCreateUser(ctx, first, last)
}

// FindUserByID retrieves a user by ID.
func (s *UserService) FindUserByID(ctx context.Context, id uuid.UUID) (*harvest.User, error) {
	return s.users.Lookup(ctx, Filter{"id": id})
}
