// Package review provides property reviews: model, validation and data access.
package review

import (
	"strings"
	"time"

	"github.com/evcraddock/realty/internal/apperr"
)

// Review is a rated note a user left on a property.
type Review struct {
	ID           int64     `db:"id" json:"id"`
	PropertyID   int64     `db:"property_id" json:"property_id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	Review       string    `db:"review" json:"review"`
	Rating       int       `db:"rating" json:"rating"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	ReviewerName string    `db:"reviewer_name" json:"reviewer_name,omitempty"`
}

// Input is a create request body. Nil fields were absent.
type Input struct {
	Review *string `json:"review"`
	Rating *int    `json:"rating"`
}

// Validate requires both fields and a rating in [1,5]. A rating of 0 is
// present, so it fails the range check rather than the presence check.
func (in Input) Validate() *apperr.Error {
	if in.Review == nil || strings.TrimSpace(*in.Review) == "" || in.Rating == nil {
		return apperr.New(apperr.ValidationFailed, "Review and rating are required")
	}
	if *in.Rating < 1 || *in.Rating > 5 {
		return apperr.New(apperr.ValidationFailed, "Rating must be between 1 and 5")
	}
	return nil
}
