package favorite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/evcraddock/realty/internal/db"
)

// Repository provides storage for favorites.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a favorite repository.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Add records that userID favorited propertyID. A repeat surfaces as a
// unique *db.StorageError and a missing property as a foreign key one.
func (r *Repository) Add(ctx context.Context, userID, propertyID int64) (*Favorite, error) {
	var id int64
	err := r.db.QueryRowxContext(ctx,
		r.db.Rebind("INSERT INTO favorites (user_id, property_id) VALUES (?, ?) RETURNING id"),
		userID, propertyID,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("inserting favorite: %w", db.Classify(err))
	}

	var f Favorite
	err = r.db.GetContext(ctx, &f,
		r.db.Rebind("SELECT id, user_id, property_id, created_at FROM favorites WHERE id = ?"), id)
	if err != nil {
		return nil, fmt.Errorf("reading back favorite: %w", db.Classify(err))
	}

	return &f, nil
}

// Remove deletes the favorite of userID for propertyID.
func (r *Repository) Remove(ctx context.Context, userID, propertyID int64) error {
	result, err := r.db.ExecContext(ctx,
		r.db.Rebind("DELETE FROM favorites WHERE user_id = ? AND property_id = ?"),
		userID, propertyID,
	)
	if err != nil {
		return fmt.Errorf("deleting favorite: %w", db.Classify(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// ListForUser returns the user's favorited properties, newest favorite first.
func (r *Repository) ListForUser(ctx context.Context, userID int64) ([]*Entry, error) {
	query := `SELECT f.id AS favorite_id, f.created_at AS favorited_at,
		p.id, p.owner_id, p.title, p.description, p.price, p.address, p.city, p.state,
		p.zip_code, p.latitude, p.longitude, p.type, p.beds, p.baths, p.sqft, p.images, p.created_at
		FROM favorites f JOIN properties p ON p.id = f.property_id
		WHERE f.user_id = ?
		ORDER BY f.created_at DESC, f.id DESC`

	entries := []*Entry{}
	if err := r.db.SelectContext(ctx, &entries, r.db.Rebind(query), userID); err != nil {
		return nil, fmt.Errorf("listing favorites: %w", db.Classify(err))
	}

	return entries, nil
}

// Count returns how many favorites userID has for propertyID (0 or 1).
func (r *Repository) Count(ctx context.Context, userID, propertyID int64) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n,
		r.db.Rebind("SELECT COUNT(*) FROM favorites WHERE user_id = ? AND property_id = ?"),
		userID, propertyID)
	if err != nil {
		return 0, fmt.Errorf("counting favorites: %w", db.Classify(err))
	}
	return n, nil
}
