package users

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryUserStore implements the UserStore interface in process memory. It
// backs the memory storage driver and the test suites; semantics match the
// PostgreSQL store.
type MemoryUserStore struct {
	mu    sync.Mutex
	users []User
}

// NewMemoryUserStore creates an empty in-memory user store
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{}
}

// CreateUser inserts a new user and assigns its id
func (s *MemoryUserStore) CreateUser(ctx context.Context, params NewUserParams) (*User, error) {
	if params.Email == "" || params.Name == "" {
		return nil, fmt.Errorf("email and name cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == params.Email {
			return nil, NewUserAlreadyExistsError("create", params.Email)
		}
	}

	user := User{
		ID:     uuid.New().String(),
		Email:  params.Email,
		Name:   params.Name,
		IsPaid: params.IsPaid,
	}
	s.users = append(s.users, user)
	return &user, nil
}

// UpdateUser replaces the stored fields of the user with the given id
func (s *MemoryUserStore) UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*User, error) {
	if id == "" {
		return nil, fmt.Errorf("id cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].Email = params.Email
			s.users[i].Name = params.Name
			s.users[i].IsPaid = params.IsPaid
			user := s.users[i]
			return &user, nil
		}
	}
	return nil, NewUserNotFoundError("update", id)
}

// DeleteUser removes the user with the given id and returns it
func (s *MemoryUserStore) DeleteUser(ctx context.Context, id string) (*User, error) {
	if id == "" {
		return nil, fmt.Errorf("id cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == id {
			user := s.users[i]
			s.users = append(s.users[:i], s.users[i+1:]...)
			return &user, nil
		}
	}
	return nil, NewUserNotFoundError("delete", id)
}

// GetUsers returns a copy of the full collection in insertion order
func (s *MemoryUserStore) GetUsers(ctx context.Context) (*UserList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := &UserList{Users: make([]User, len(s.users))}
	copy(list.Users, s.users)
	return list, nil
}

// Ping always succeeds for the in-memory store
func (s *MemoryUserStore) Ping(ctx context.Context) error {
	return nil
}
