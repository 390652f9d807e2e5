// Package property provides the listing domain model, validation and data access.
package property

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when no property matches a lookup.
var ErrNotFound = errors.New("property not found")

// Property is a listing. AgentName and AgentEmail come from the owning
// user and are only filled by queries that join it.
type Property struct {
	ID          int64     `db:"id" json:"id"`
	OwnerID     int64     `db:"owner_id" json:"owner_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Price       float64   `db:"price" json:"price"`
	Address     string    `db:"address" json:"address"`
	City        string    `db:"city" json:"city"`
	State       string    `db:"state" json:"state"`
	ZipCode     string    `db:"zip_code" json:"zip_code"`
	Latitude    float64   `db:"latitude" json:"latitude"`
	Longitude   float64   `db:"longitude" json:"longitude"`
	Type        string    `db:"type" json:"type"`
	Beds        int       `db:"beds" json:"beds"`
	Baths       float64   `db:"baths" json:"baths"`
	Sqft        int       `db:"sqft" json:"sqft"`
	Images      Images    `db:"images" json:"images"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	AgentName   string    `db:"agent_name" json:"agent_name,omitempty"`
	AgentEmail  string    `db:"agent_email" json:"agent_email,omitempty"`
}

// Images is the ordered list of image data URLs, stored as a JSON document.
type Images []string

// Value implements driver.Valuer.
func (im Images) Value() (driver.Value, error) {
	if im == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(im))
	if err != nil {
		return nil, fmt.Errorf("encoding images: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner for TEXT and JSONB columns.
func (im *Images) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*im = Images{}
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("scanning images: unsupported type %T", src)
	}

	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("decoding images: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*im = out
	return nil
}
