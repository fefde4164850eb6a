package users

import (
	"context"
)

// UserStore defines the interface for user storage operations
type UserStore interface {
	CreateUser(ctx context.Context, params NewUserParams) (*User, error)
	UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*User, error)
	DeleteUser(ctx context.Context, id string) (*User, error)
	GetUsers(ctx context.Context) (*UserList, error)
	Ping(ctx context.Context) error
}

// UserService defines the interface for user service operations
type UserService interface {
	UserStore
}
