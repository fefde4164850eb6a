package users

// User represents a single account record. ID is assigned by the store on
// creation and immutable afterwards; an empty ID marks a record that has not
// been confirmed yet.
type User struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	IsPaid bool   `json:"isPaid"`
}

// UserList is the shape returned by list reads.
type UserList struct {
	Users []User `json:"users"`
}

// NewUserParams is the validated payload for creating a user. No ID: new
// records are never client-assigned.
type NewUserParams struct {
	Email  string `json:"email" validate:"required"`
	Name   string `json:"name" validate:"required"`
	IsPaid bool   `json:"isPaid"`
}

// UpdateUserParams is the validated payload for updating a user, keyed by the
// existing ID.
type UpdateUserParams struct {
	ID     string `json:"id" validate:"required"`
	Email  string `json:"email" validate:"required"`
	Name   string `json:"name" validate:"required"`
	IsPaid bool   `json:"isPaid"`
}

// UserIDParams is the id-only payload used for deletes.
type UserIDParams struct {
	ID string `json:"id" validate:"required"`
}

// User builds the record a NewUserParams describes, with the placeholder
// empty ID.
func (p NewUserParams) User() User {
	return User{Email: p.Email, Name: p.Name, IsPaid: p.IsPaid}
}

// User builds the record an UpdateUserParams describes.
func (p UpdateUserParams) User() User {
	return User{ID: p.ID, Email: p.Email, Name: p.Name, IsPaid: p.IsPaid}
}
