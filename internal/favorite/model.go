// Package favorite provides saved-listing records and data access.
package favorite

import (
	"errors"
	"time"

	"github.com/evcraddock/realty/internal/property"
)

// ErrNotFound is returned when the user has not favorited the property.
var ErrNotFound = errors.New("favorite not found")

// Favorite links a user to a property they saved.
type Favorite struct {
	ID         int64     `db:"id" json:"id"`
	UserID     int64     `db:"user_id" json:"user_id"`
	PropertyID int64     `db:"property_id" json:"property_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Entry is a favorited property as listed for its user.
type Entry struct {
	property.Property
	FavoriteID  int64     `db:"favorite_id" json:"favorite_id"`
	FavoritedAt time.Time `db:"favorited_at" json:"favorited_at"`
}
