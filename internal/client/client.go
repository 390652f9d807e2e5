// Package client provides an HTTP client for the realty REST API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/evcraddock/realty/internal/favorite"
	"github.com/evcraddock/realty/internal/property"
	"github.com/evcraddock/realty/internal/review"
	"github.com/evcraddock/realty/internal/user"
)

// Client is an HTTP client for the realty API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a new API client. token may be empty for public endpoints.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Error is a non-2xx response from the server.
type Error struct {
	StatusCode int
	Message    string
	Details    []string
}

func (e *Error) Error() string {
	if len(e.Details) > 0 {
		return e.Message + ": " + strings.Join(e.Details, "; ")
	}
	return e.Message
}

// AuthResponse is returned by signup and signin.
type AuthResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

// Signup creates an account and returns its token.
func (c *Client) Signup(name, email, password string) (*AuthResponse, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var resp AuthResponse
	if err := c.post("/api/signup", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signin exchanges credentials for a token.
func (c *Client) Signin(email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var resp AuthResponse
	if err := c.post("/api/signin", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// User returns the account with id.
func (c *Client) User(id int64) (*user.User, error) {
	var u user.User
	if err := c.get(fmt.Sprintf("/api/users/%d", id), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListProperties returns all listings, newest first.
func (c *Client) ListProperties() ([]*property.Property, error) {
	var props []*property.Property
	if err := c.get("/api/properties", &props); err != nil {
		return nil, err
	}
	return props, nil
}

// GetProperty returns a single listing.
func (c *Client) GetProperty(id int64) (*property.Property, error) {
	var p property.Property
	if err := c.get(fmt.Sprintf("/api/properties/%d", id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProperty removes a listing. Admin only.
func (c *Client) DeleteProperty(id int64) error {
	return c.doDelete(fmt.Sprintf("/api/properties/%d", id))
}

// ListFavorites returns the caller's saved listings.
func (c *Client) ListFavorites() ([]*favorite.Entry, error) {
	var entries []*favorite.Entry
	if err := c.get("/api/favorites", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// AddFavorite saves a listing for the caller.
func (c *Client) AddFavorite(propertyID int64) (*favorite.Favorite, error) {
	body := map[string]int64{"propertyId": propertyID}
	var f favorite.Favorite
	if err := c.post("/api/favorites", body, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// RemoveFavorite unsaves a listing.
func (c *Client) RemoveFavorite(propertyID int64) error {
	return c.doDelete(fmt.Sprintf("/api/favorites/%d", propertyID))
}

// ListReviews returns the reviews of a listing, newest first.
func (c *Client) ListReviews(propertyID int64) ([]*review.Review, error) {
	var reviews []*review.Review
	if err := c.get(fmt.Sprintf("/api/properties/%d/reviews", propertyID), &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// AddReview posts a review with a rating from 1 to 5.
func (c *Client) AddReview(propertyID int64, text string, rating int) (*review.Review, error) {
	body := map[string]any{"review": text, "rating": rating}
	var rv review.Review
	if err := c.post(fmt.Sprintf("/api/properties/%d/reviews", propertyID), body, &rv); err != nil {
		return nil, err
	}
	return &rv, nil
}

// Health reports the server's health status.
func (c *Client) Health() (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.get("/health", &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// get performs a GET request and decodes the response.
func (c *Client) get(path string, result any) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

// post performs a POST request with a JSON body and decodes the response.
func (c *Client) post(path string, body any, result any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, result)
}

// doDelete performs a DELETE request.
func (c *Client) doDelete(path string) error {
	req, err := http.NewRequest(http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, nil)
}

// do executes an HTTP request with the auth header and handles errors.
func (c *Client) do(req *http.Request, result any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	// The body is read in full below, so a close failure loses nothing.
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		var errResp struct {
			Error  string   `json:"error"`
			Errors []string `json:"errors"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			apiErr.Message = errResp.Error
			apiErr.Details = errResp.Errors
		} else {
			apiErr.Message = "server error: " + http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
