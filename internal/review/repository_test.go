package review

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/evcraddock/realty/internal/db"
	"github.com/evcraddock/realty/internal/property"
	"github.com/evcraddock/realty/internal/user"
)

func TestAddAndListByProperty(t *testing.T) {
	repo, userID, propID := testSetup(t)
	ctx := context.Background()

	rv, err := repo.Add(ctx, propID, userID, "  Nice backyard ", 4)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if rv.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if rv.Review != "Nice backyard" {
		t.Errorf("review = %q, want trimmed text", rv.Review)
	}
	if rv.ReviewerName != "Reviewer" {
		t.Errorf("reviewer_name = %q, want Reviewer", rv.ReviewerName)
	}

	if _, err := repo.Add(ctx, propID, userID, "Second visit", 5); err != nil {
		t.Fatalf("add second: %v", err)
	}

	reviews, err := repo.ListByProperty(ctx, propID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("got %d reviews, want 2 (no one-per-user limit)", len(reviews))
	}
	if reviews[0].Review != "Second visit" {
		t.Errorf("first = %q, want newest first", reviews[0].Review)
	}
}

func TestListEmpty(t *testing.T) {
	repo, _, propID := testSetup(t)

	reviews, err := repo.ListByProperty(context.Background(), propID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if reviews == nil || len(reviews) != 0 {
		t.Errorf("got %v, want empty non-nil slice", reviews)
	}
}

func TestAddRejected(t *testing.T) {
	repo, userID, propID := testSetup(t)

	tests := []struct {
		name       string
		propertyID int64
		rating     int
		kind       db.ErrorKind
	}{
		{"rating out of range", propID, 9, db.KindCheck},
		{"missing property", 9999, 3, db.KindForeignKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Add(context.Background(), tt.propertyID, userID, "text", tt.rating)
			if !db.IsKind(err, tt.kind) {
				t.Errorf("err = %v, want %v violation", err, tt.kind)
			}
		})
	}
}

func testSetup(t *testing.T) (*Repository, int64, int64) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	d, err := db.OpenSQLite(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})

	ctx := context.Background()
	u, err := user.NewRepository(d).Create(ctx, &user.User{Name: "Reviewer", Email: "r@example.com", Password: "hash"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	p, err := property.NewRepository(d).Insert(ctx, &property.Property{
		OwnerID: u.ID, Title: "House", Description: "d", Price: 1, Address: "a", City: "c",
		State: "s", ZipCode: "z", Type: "house", Images: property.Images{"data:image/png;base64,AA=="},
	})
	if err != nil {
		t.Fatalf("insert property: %v", err)
	}

	return NewRepository(d), u.ID, p.ID
}
