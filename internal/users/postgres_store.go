package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// UserSchema represents the users table schema in PostgreSQL
type UserSchema struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Email     string    `bun:"email,notnull,unique" json:"email"`
	Name      string    `bun:"name,notnull" json:"name"`
	IsPaid    bool      `bun:"is_paid,notnull,default:false" json:"is_paid"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// PostgresUserStore implements the UserStore interface on PostgreSQL
type PostgresUserStore struct {
	db *bun.DB
}

// NewPostgresUserStore creates a new PostgreSQL-backed user store
func NewPostgresUserStore(db *bun.DB) *PostgresUserStore {
	return &PostgresUserStore{
		db: db,
	}
}

// OpenDatabase opens a bun database handle for the given DSN and verifies
// connectivity before returning it.
func OpenDatabase(dsn string, maxConnections int) (*bun.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	if maxConnections <= 0 {
		maxConnections = 10
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	sqldb.SetMaxOpenConns(maxConnections)
	sqldb.SetMaxIdleConns(maxConnections / 2)
	sqldb.SetConnMaxLifetime(time.Hour)

	db := bun.NewDB(sqldb, pgdialect.New())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// CreateTables creates the users table if it does not exist
func CreateTables(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().
		Model((*UserSchema)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	return nil
}

// CreateUser inserts a new user and returns the stored record with its
// database-assigned id
func (s *PostgresUserStore) CreateUser(ctx context.Context, params NewUserParams) (*User, error) {
	if params.Email == "" || params.Name == "" {
		return nil, fmt.Errorf("email and name cannot be empty")
	}

	schema := UserSchema{
		ID:        uuid.New(),
		Email:     params.Email,
		Name:      params.Name,
		IsPaid:    params.IsPaid,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	_, err := s.db.NewInsert().
		Model(&schema).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") ||
			strings.Contains(err.Error(), "users_email_key") {
			return nil, NewUserAlreadyExistsError("create", params.Email)
		}
		return nil, NewStoreQueryError("create", err)
	}

	user := userSchemaToUser(schema)
	return &user, nil
}

// UpdateUser updates an existing user keyed by id and returns the stored
// record
func (s *PostgresUserStore) UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*User, error) {
	if id == "" {
		return nil, fmt.Errorf("id cannot be empty")
	}

	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, NewUserNotFoundError("update", id)
	}

	var schema UserSchema
	res, err := s.db.NewUpdate().
		Model(&schema).
		Where("id = ?", userID).
		Set("email = ?", params.Email).
		Set("name = ?", params.Name).
		Set("is_paid = ?", params.IsPaid).
		Set("updated_at = ?", time.Now()).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewUserNotFoundError("update", id)
		}
		return nil, NewStoreQueryError("update", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return nil, NewUserNotFoundError("update", id)
	}

	user := userSchemaToUser(schema)
	return &user, nil
}

// DeleteUser removes a user by id and returns the removed record. Deletion
// is permanent.
func (s *PostgresUserStore) DeleteUser(ctx context.Context, id string) (*User, error) {
	if id == "" {
		return nil, fmt.Errorf("id cannot be empty")
	}

	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, NewUserNotFoundError("delete", id)
	}

	var schema UserSchema
	res, err := s.db.NewDelete().
		Model(&schema).
		Where("id = ?", userID).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewUserNotFoundError("delete", id)
		}
		return nil, NewStoreQueryError("delete", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return nil, NewUserNotFoundError("delete", id)
	}

	user := userSchemaToUser(schema)
	return &user, nil
}

// GetUsers returns the full, unpaginated user collection in creation order
func (s *PostgresUserStore) GetUsers(ctx context.Context) (*UserList, error) {
	var schemas []UserSchema
	err := s.db.NewSelect().
		Model(&schemas).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, NewStoreQueryError("list", err)
	}

	list := &UserList{Users: make([]User, 0, len(schemas))}
	for _, schema := range schemas {
		list.Users = append(list.Users, userSchemaToUser(schema))
	}
	return list, nil
}

// Ping verifies database connectivity
func (s *PostgresUserStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func userSchemaToUser(schema UserSchema) User {
	return User{
		ID:     schema.ID.String(),
		Email:  schema.Email,
		Name:   schema.Name,
		IsPaid: schema.IsPaid,
	}
}
