package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/evcraddock/realty/internal/db"
)

// PasswordHasher hashes plaintext passwords for storage.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// EnsureAdmin creates an admin account unless one with email already
// exists. It reports whether a new account was created. An existing
// account is left untouched, whatever its role.
func EnsureAdmin(ctx context.Context, repo *Repository, hasher PasswordHasher, name, email, password string) (*User, bool, error) {
	if NormalizeEmail(email) == "" {
		return nil, false, errors.New("admin email is required")
	}
	if password == "" {
		return nil, false, errors.New("admin password is required")
	}

	existing, err := repo.GetByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, fmt.Errorf("checking for admin: %w", err)
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, false, fmt.Errorf("hashing admin password: %w", err)
	}

	u, err := repo.Create(ctx, &User{Name: name, Email: email, Password: hash, Role: RoleAdmin})
	if db.IsKind(err, db.KindUnique) {
		// Another process created it between the lookup and the insert.
		existing, getErr := repo.GetByEmail(ctx, email)
		if getErr != nil {
			return nil, false, fmt.Errorf("reloading admin: %w", getErr)
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("creating admin: %w", err)
	}

	return u, true, nil
}
