package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/evcraddock/realty/internal/favorite"
	"github.com/evcraddock/realty/internal/property"
	"github.com/evcraddock/realty/internal/review"
	"github.com/evcraddock/realty/internal/user"
)

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode: %v", err)
	}
}

func TestSignin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/signin" {
			t.Errorf("%s %s, want POST /api/signin", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("signin must not send a token")
		}
		var req struct{ Email, Password string }
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if req.Email != "ada@example.com" || req.Password != "pw" {
			t.Errorf("req = %+v", req)
		}
		writeJSON(t, w, http.StatusOK, AuthResponse{Token: "tok", User: &user.User{ID: 7, Email: req.Email}})
	}))
	defer srv.Close()

	resp, err := New(srv.URL, "").Signin("ada@example.com", "pw")
	if err != nil {
		t.Fatalf("signin: %v", err)
	}
	if resp.Token != "tok" || resp.User.ID != 7 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestSignup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/signup" {
			t.Errorf("path = %q", r.URL.Path)
		}
		writeJSON(t, w, http.StatusCreated, AuthResponse{Token: "new", User: &user.User{ID: 1}})
	}))
	defer srv.Close()

	resp, err := New(srv.URL, "").Signup("Ada", "ada@example.com", "pw")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if resp.Token != "new" {
		t.Errorf("token = %q", resp.Token)
	}
}

func TestListProperties(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/properties" {
			t.Errorf("path = %q, want /api/properties", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer testtoken" {
			t.Error("expected Bearer testtoken")
		}
		writeJSON(t, w, http.StatusOK, []*property.Property{{ID: 1, Title: "Loft"}})
	}))
	defer srv.Close()

	props, err := New(srv.URL+"/", "testtoken").ListProperties()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(props) != 1 || props[0].Title != "Loft" {
		t.Errorf("props = %+v", props)
	}
}

func TestGetProperty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/properties/42" {
			t.Errorf("path = %q", r.URL.Path)
		}
		writeJSON(t, w, http.StatusOK, property.Property{ID: 42, Address: "42 Elm St", Images: property.Images{"x"}})
	}))
	defer srv.Close()

	p, err := New(srv.URL, "").GetProperty(42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.ID != 42 || p.Address != "42 Elm St" {
		t.Errorf("property = %+v", p)
	}
}

func TestDeleteProperty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/properties/1" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		writeJSON(t, w, http.StatusOK, map[string]string{"message": "Property deleted successfully"})
	}))
	defer srv.Close()

	if err := New(srv.URL, "admintoken").DeleteProperty(1); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestFavorites(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/favorites":
			writeJSON(t, w, http.StatusOK, []*favorite.Entry{{Property: property.Property{ID: 3}, FavoriteID: 9}})
		case r.Method == http.MethodPost && r.URL.Path == "/api/favorites":
			var req struct {
				PropertyID int64 `json:"propertyId"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode: %v", err)
			}
			writeJSON(t, w, http.StatusCreated, favorite.Favorite{ID: 9, PropertyID: req.PropertyID})
		case r.Method == http.MethodDelete && r.URL.Path == "/api/favorites/3":
			writeJSON(t, w, http.StatusOK, map[string]string{"message": "Removed from favorites"})
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	f, err := c.AddFavorite(3)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if f.PropertyID != 3 {
		t.Errorf("property id = %d", f.PropertyID)
	}

	entries, err := c.ListFavorites()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != 3 || entries[0].FavoriteID != 9 {
		t.Errorf("entries = %+v", entries)
	}

	if err := c.RemoveFavorite(3); err != nil {
		t.Fatalf("remove: %v", err)
	}
}

func TestReviews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/properties/5/reviews" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Method == http.MethodGet {
			writeJSON(t, w, http.StatusOK, []*review.Review{{ID: 1, Review: "ok", Rating: 4}})
			return
		}
		var req struct {
			Review string `json:"review"`
			Rating int    `json:"rating"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		writeJSON(t, w, http.StatusCreated, review.Review{ID: 2, Review: req.Review, Rating: req.Rating})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	rv, err := c.AddReview(5, "great", 5)
	if err != nil {
		t.Fatalf("add review: %v", err)
	}
	if rv.Review != "great" || rv.Rating != 5 {
		t.Errorf("review = %+v", rv)
	}

	list, err := c.ListReviews(5)
	if err != nil {
		t.Fatalf("list reviews: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("got %d reviews", len(list))
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	status, err := New(srv.URL, "").Health()
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if status != "ok" {
		t.Errorf("status = %q", status)
	}
}

func TestServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]any{
			"error":  "Validation failed",
			"errors": []string{"Title is required"},
		})
	}))
	defer srv.Close()

	_, err := New(srv.URL, "tok").ListProperties()
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *Error", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
	if err.Error() != "Validation failed: Title is required" {
		t.Errorf("error = %q", err.Error())
	}
}

func TestUnauthorizedPlainBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "badtoken").ListFavorites()
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401 *Error", err)
	}
	if apiErr.Message != "server error: Unauthorized" {
		t.Errorf("message = %q", apiErr.Message)
	}
}
