package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/evcraddock/realty/internal/db"
)

// Repository provides storage for users.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a user repository.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const selectColumns = `id, name, email, password, role, created_at`

// Create inserts u and returns the stored row. A taken email surfaces as a
// unique *db.StorageError.
func (r *Repository) Create(ctx context.Context, u *User) (*User, error) {
	role := u.Role
	if role == "" {
		role = RoleUser
	}

	var id int64
	err := r.db.QueryRowxContext(ctx,
		r.db.Rebind(`INSERT INTO users (name, email, password, role) VALUES (?, ?, ?, ?) RETURNING id`),
		u.Name, NormalizeEmail(u.Email), u.Password, role,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("inserting user: %w", db.Classify(err))
	}

	return r.GetByID(ctx, id)
}

// GetByID returns a user by ID.
func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.getOne(ctx, "id = ?", id)
}

// GetByEmail returns a user by email, ignoring case.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getOne(ctx, "email = ?", NormalizeEmail(email))
}

func (r *Repository) getOne(ctx context.Context, where string, arg any) (*User, error) {
	var u User
	query := r.db.Rebind(fmt.Sprintf("SELECT %s FROM users WHERE %s", selectColumns, where))
	err := r.db.GetContext(ctx, &u, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", db.Classify(err))
	}
	return &u, nil
}

// List returns all users, newest first.
func (r *Repository) List(ctx context.Context) ([]*User, error) {
	users := []*User{}
	query := fmt.Sprintf("SELECT %s FROM users ORDER BY created_at DESC, id DESC", selectColumns)
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("listing users: %w", db.Classify(err))
	}
	return users, nil
}

// Delete removes a user. Favorites, reviews and passkeys cascade; a user
// who still owns listings is refused with a foreign key *db.StorageError.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM users WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", db.Classify(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}
