package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testEngine(tokens *TokenService, observe func(string)) *gin.Engine {
	r := gin.New()
	r.GET("/protected", RequireAuth(tokens, observe), func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, id)
	})
	r.GET("/admin", RequireAuth(tokens, observe), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	tokens := NewTokenService("secret", time.Hour)
	valid, err := tokens.Issue(Identity{ID: 3, Email: "u@x.com", Role: "user"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	forged, err := NewTokenService("other", time.Hour).Issue(Identity{ID: 3, Role: "admin"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantError  string
		wantReason string
	}{
		{"no header", "", http.StatusUnauthorized, "Access denied. No token provided.", ReasonMissingToken},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "Access denied. No token provided.", ReasonMissingToken},
		{"bearer without token", "Bearer ", http.StatusUnauthorized, "Access denied. No token provided.", ReasonMissingToken},
		{"garbage token", "Bearer nope", http.StatusForbidden, "Invalid or expired token", ReasonInvalidToken},
		{"forged token", "Bearer " + forged, http.StatusForbidden, "Invalid or expired token", ReasonInvalidToken},
		{"valid token", "Bearer " + valid, http.StatusOK, "", ""},
		{"lowercase scheme", "bearer " + valid, http.StatusOK, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reason string
			r := testEngine(tokens, func(r string) { reason = r })

			req := httptest.NewRequest("GET", "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if reason != tt.wantReason {
				t.Errorf("observed reason = %q, want %q", reason, tt.wantReason)
			}

			if tt.wantError != "" {
				var body map[string]string
				if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if body["error"] != tt.wantError {
					t.Errorf("error = %q, want %q", body["error"], tt.wantError)
				}
				return
			}

			var id Identity
			if err := json.NewDecoder(rec.Body).Decode(&id); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if id.ID != 3 || id.Email != "u@x.com" || id.Role != "user" {
				t.Errorf("identity = %+v", id)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	tokens := NewTokenService("secret", time.Hour)
	r := testEngine(tokens, nil)

	tests := []struct {
		name       string
		role       string
		wantStatus int
	}{
		{"admin allowed", "admin", http.StatusOK},
		{"user forbidden", "user", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := tokens.Issue(Identity{ID: 1, Email: "a@x.com", Role: tt.role})
			if err != nil {
				t.Fatalf("issue: %v", err)
			}
			req := httptest.NewRequest("GET", "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
