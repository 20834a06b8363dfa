package mock

import (
	"context"

	"github.com/fwojciec/harvest"
	"github.com/google/uuid"
)

var _ harvest.UserService = (*UserService)(nil)

// UserService is a mock implementation of harvest.UserService.
type UserService struct {
	GetOrCreateUserFn func(ctx context.Context, firstName, lastName string) (*harvest.User, error)
	ResolveUserFn     func(ctx context.Context, fullName string) (*harvest.User, error)
	FindUserByIDFn    func(ctx context.Context, id uuid.UUID) (*harvest.User, error)
}

func (s *UserService) GetOrCreateUser(ctx context.Context, firstName, lastName string) (*harvest.User, error) {
	return s.GetOrCreateUserFn(ctx, firstName, lastName)
}

func (s *UserService) ResolveUser(ctx context.Context, fullName string) (*harvest.User, error) {
	return s.ResolveUserFn(ctx, fullName)
}

func (s *UserService) FindUserByID(ctx context.Context, id uuid.UUID) (*harvest.User, error) {
	return s.FindUserByIDFn(ctx, id)
}
