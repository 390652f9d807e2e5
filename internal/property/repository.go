package property

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/evcraddock/realty/internal/db"
)

// Repository provides CRUD operations for properties.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a property repository.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const selectColumns = `p.id, p.owner_id, p.title, p.description, p.price, p.address, p.city, p.state,
	p.zip_code, p.latitude, p.longitude, p.type, p.beds, p.baths, p.sqft, p.images, p.created_at`

const insertSQL = `INSERT INTO properties
	(owner_id, title, description, price, address, city, state, zip_code, latitude, longitude, type, beds, baths, sqft, images)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	RETURNING id`

const updateSQL = `UPDATE properties SET
	title = ?, description = ?, price = ?, address = ?, city = ?, state = ?, zip_code = ?,
	latitude = ?, longitude = ?, type = ?, beds = ?, baths = ?, sqft = ?, images = ?
	WHERE id = ?`

// Insert adds a new property and returns it with its generated ID.
// Out-of-range values surface as check *db.StorageError.
func (r *Repository) Insert(ctx context.Context, p *Property) (*Property, error) {
	var id int64
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(insertSQL),
		p.OwnerID, p.Title, p.Description, p.Price,
		p.Address, p.City, p.State, p.ZipCode,
		p.Latitude, p.Longitude, p.Type,
		p.Beds, p.Baths, p.Sqft, p.Images,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("inserting property: %w", db.Classify(err))
	}

	return r.GetByID(ctx, id)
}

// GetByID returns a property with its agent's name and email.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Property, error) {
	query := fmt.Sprintf(`SELECT %s, u.name AS agent_name, u.email AS agent_email
		FROM properties p JOIN users u ON u.id = p.owner_id
		WHERE p.id = ?`, selectColumns)

	var p Property
	err := r.db.GetContext(ctx, &p, r.db.Rebind(query), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying property %d: %w", id, db.Classify(err))
	}

	return &p, nil
}

// List returns all properties with their agent's name, newest first.
func (r *Repository) List(ctx context.Context) ([]*Property, error) {
	return r.list(ctx, "", nil)
}

// ListByOwner returns the properties owned by ownerID, newest first.
func (r *Repository) ListByOwner(ctx context.Context, ownerID int64) ([]*Property, error) {
	return r.list(ctx, "WHERE p.owner_id = ?", []any{ownerID})
}

func (r *Repository) list(ctx context.Context, where string, args []any) ([]*Property, error) {
	query := fmt.Sprintf(`SELECT %s, u.name AS agent_name
		FROM properties p JOIN users u ON u.id = p.owner_id
		%s
		ORDER BY p.created_at DESC, p.id DESC`, selectColumns, where)

	properties := []*Property{}
	if err := r.db.SelectContext(ctx, &properties, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("listing properties: %w", db.Classify(err))
	}

	return properties, nil
}

// Update replaces the fields of property id. Inside one transaction it
// locks the row, hands the stored owner to prepare and writes whatever
// prepare returns. An error from prepare aborts the update unchanged.
// The owner is never changed.
func (r *Repository) Update(ctx context.Context, id int64, prepare func(ownerID int64) (*Property, error)) (*Property, error) {
	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var ownerID int64
		lookup := tx.Rebind("SELECT owner_id FROM properties WHERE id = ?" + db.ForUpdate(tx))
		err := tx.GetContext(ctx, &ownerID, lookup, id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("locking property %d: %w", id, db.Classify(err))
		}

		p, err := prepare(ownerID)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind(updateSQL),
			p.Title, p.Description, p.Price,
			p.Address, p.City, p.State, p.ZipCode,
			p.Latitude, p.Longitude, p.Type,
			p.Beds, p.Baths, p.Sqft, p.Images,
			id,
		); err != nil {
			return fmt.Errorf("updating property %d: %w", id, db.Classify(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// Delete removes a property by ID. Favorites and reviews cascade.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM properties WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("deleting property: %w", db.Classify(err))
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

// Exists reports whether property id exists.
func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, r.db.Rebind("SELECT COUNT(*) FROM properties WHERE id = ?"), id); err != nil {
		return false, fmt.Errorf("checking property %d: %w", id, db.Classify(err))
	}
	return n > 0, nil
}
