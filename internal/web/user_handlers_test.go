package web

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/evcraddock/realty/internal/property"
	"github.com/evcraddock/realty/internal/user"
)

func TestGetUser(t *testing.T) {
	srv := testServer(t)
	admin, _ := adminToken(t, srv)
	ada, adaID := signup(t, srv, "Ada", "ada@example.com")
	bob, _ := signup(t, srv, "Bob", "bob@example.com")
	path := fmt.Sprintf("/api/users/%d", adaID)

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"self", ada, http.StatusOK},
		{"admin", admin, http.StatusOK},
		{"other user", bob, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := apiRequest(t, srv, http.MethodGet, path, tt.token, nil)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			if tt.status == http.StatusOK {
				if got := decode[user.User](t, w); got.Email != "ada@example.com" {
					t.Errorf("email = %q", got.Email)
				}
			}
		})
	}

	assertError(t, apiRequest(t, srv, http.MethodGet, "/api/users/999", admin, nil), http.StatusNotFound, "User not found")
}

func TestListUserProperties(t *testing.T) {
	srv := testServer(t)
	admin, adminID := adminToken(t, srv)
	createProperty(t, srv, admin, "Mine")
	ada, _ := signup(t, srv, "Ada", "ada@example.com")
	path := fmt.Sprintf("/api/users/%d/properties", adminID)

	w := apiRequest(t, srv, http.MethodGet, path, admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if list := decode[[]property.Property](t, w); len(list) != 1 || list[0].Title != "Mine" {
		t.Errorf("list = %+v", list)
	}

	assertError(t, apiRequest(t, srv, http.MethodGet, path, ada, nil), http.StatusForbidden, "Access denied")
	assertError(t, apiRequest(t, srv, http.MethodGet, "/api/users/999/properties", admin, nil), http.StatusNotFound, "User not found")
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	srv := testServer(t)
	adminToken(t, srv)
	token, adaID := signup(t, srv, "Ada", "ada@example.com")
	_, bobID := signup(t, srv, "Bob", "bob@example.com")

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/admin/users"},
		{http.MethodGet, "/api/admin/properties"},
		{http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", bobID)},
		{http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", adaID)},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := apiRequest(t, srv, tt.method, tt.path, token, nil)
			assertError(t, w, http.StatusForbidden, "Access denied. Admin only.")
		})
	}

	if _, err := srv.users.GetByID(t.Context(), bobID); err != nil {
		t.Errorf("bob should still exist: %v", err)
	}
}

func TestAdminListUsers(t *testing.T) {
	srv := testServer(t)
	admin, _ := adminToken(t, srv)
	signup(t, srv, "Ada", "ada@example.com")

	w := apiRequest(t, srv, http.MethodGet, "/api/admin/users", admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if users := decode[[]user.User](t, w); len(users) != 2 {
		t.Errorf("users = %d, want 2", len(users))
	}
}

func TestAdminListProperties(t *testing.T) {
	srv := testServer(t)
	admin, _ := adminToken(t, srv)
	createProperty(t, srv, admin, "One")

	w := apiRequest(t, srv, http.MethodGet, "/api/admin/properties", admin, nil)
	if list := decode[[]property.Property](t, w); len(list) != 1 {
		t.Errorf("properties = %d, want 1", len(list))
	}
}

func TestAdminDeleteUser(t *testing.T) {
	srv := testServer(t)
	admin, adminID := adminToken(t, srv)
	_, adaID := signup(t, srv, "Ada", "ada@example.com")

	w := apiRequest(t, srv, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", adaID), admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if got := decode[map[string]string](t, w); got["message"] != "User deleted successfully" {
		t.Errorf("message = %q", got["message"])
	}

	assertError(t, apiRequest(t, srv, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", adaID), admin, nil),
		http.StatusNotFound, "User not found")
	assertError(t, apiRequest(t, srv, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", adminID), admin, nil),
		http.StatusBadRequest, "You cannot delete your own account")
}

func TestAdminCannotDeleteSelfWithOtherAdmins(t *testing.T) {
	srv := testServer(t)
	admin, adminID := adminToken(t, srv)

	second, _, err := user.EnsureAdmin(t.Context(), srv.users, srv.hasher, "Second", "second@example.com", "pw")
	if err != nil {
		t.Fatalf("ensure second admin: %v", err)
	}
	secondToken := issueToken(t, srv, second)

	for _, tt := range []struct {
		name  string
		token string
		id    int64
	}{
		{"first admin", admin, adminID},
		{"second admin", secondToken, second.ID},
	} {
		t.Run(tt.name, func(t *testing.T) {
			w := apiRequest(t, srv, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", tt.id), tt.token, nil)
			assertError(t, w, http.StatusBadRequest, "You cannot delete your own account")
		})
	}

	if _, err := srv.users.GetByID(t.Context(), adminID); err != nil {
		t.Errorf("first admin should still exist: %v", err)
	}
}

func TestAdminDeleteUserWithProperties(t *testing.T) {
	srv := testServer(t)
	admin, _ := adminToken(t, srv)

	second, _, err := user.EnsureAdmin(t.Context(), srv.users, srv.hasher, "Second", "second@example.com", "pw")
	if err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	secondToken := issueToken(t, srv, second)
	createProperty(t, srv, secondToken, "Owned")

	w := apiRequest(t, srv, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", second.ID), admin, nil)
	assertError(t, w, http.StatusBadRequest, "Cannot delete a user who still owns properties")
}
