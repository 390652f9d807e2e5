package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/evcraddock/realty/internal/db"
)

// Repository provides storage for reviews.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a review repository.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const selectSQL = `SELECT r.id, r.property_id, r.user_id, r.review, r.rating, r.created_at, u.name AS reviewer_name
	FROM reviews r JOIN users u ON u.id = r.user_id`

// Add creates a review by userID on propertyID and returns it with the
// reviewer's name.
func (r *Repository) Add(ctx context.Context, propertyID, userID int64, text string, rating int) (*Review, error) {
	var id int64
	err := r.db.QueryRowxContext(ctx,
		r.db.Rebind("INSERT INTO reviews (property_id, user_id, review, rating) VALUES (?, ?, ?, ?) RETURNING id"),
		propertyID, userID, strings.TrimSpace(text), rating,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("inserting review: %w", db.Classify(err))
	}

	var rv Review
	if err := r.db.GetContext(ctx, &rv, r.db.Rebind(selectSQL+" WHERE r.id = ?"), id); err != nil {
		return nil, fmt.Errorf("reading back review: %w", db.Classify(err))
	}

	return &rv, nil
}

// ListByProperty returns the reviews of a property, newest first.
func (r *Repository) ListByProperty(ctx context.Context, propertyID int64) ([]*Review, error) {
	reviews := []*Review{}
	query := r.db.Rebind(selectSQL + " WHERE r.property_id = ? ORDER BY r.created_at DESC, r.id DESC")
	if err := r.db.SelectContext(ctx, &reviews, query, propertyID); err != nil {
		return nil, fmt.Errorf("listing reviews: %w", db.Classify(err))
	}

	return reviews, nil
}
