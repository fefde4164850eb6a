package users

import (
	"context"
	"fmt"
)

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	store UserStore
}

// NewUserService creates a new user service instance
func NewUserService(store UserStore) *UserServiceImpl {
	return &UserServiceImpl{
		store: store,
	}
}

// CreateUser creates a new user
func (s *UserServiceImpl) CreateUser(ctx context.Context, params NewUserParams) (*User, error) {
	if params.Email == "" || params.Name == "" {
		return nil, fmt.Errorf("email and name are required")
	}
	return s.store.CreateUser(ctx, params)
}

// UpdateUser updates an existing user keyed by id
func (s *UserServiceImpl) UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*User, error) {
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}
	return s.store.UpdateUser(ctx, id, params)
}

// DeleteUser deletes a user by id and returns the removed record
func (s *UserServiceImpl) DeleteUser(ctx context.Context, id string) (*User, error) {
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}
	return s.store.DeleteUser(ctx, id)
}

// GetUsers returns the full user collection
func (s *UserServiceImpl) GetUsers(ctx context.Context) (*UserList, error) {
	return s.store.GetUsers(ctx)
}

// Ping reports storage health
func (s *UserServiceImpl) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
