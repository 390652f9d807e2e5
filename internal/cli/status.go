package cli

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/evcraddock/realty/internal/auth"
	"github.com/evcraddock/realty/internal/client"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check connection and auth status",
		Long:  "Tests the connection to the server and checks whether the stored token is still accepted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}
}

func runStatus() error {
	serverURL := getServerURL()
	token := getToken()

	fmt.Printf("Server:  %s\n", serverURL)

	c := client.New(serverURL, token)
	health, err := c.Health()
	if err != nil {
		fmt.Printf("Health:  ✗ cannot reach server (%v)\n", err)
		return nil
	}
	fmt.Printf("Health:  %s\n", health)

	if token == "" {
		fmt.Println("Token:   not configured")
		fmt.Println("\nRun 'realty login' to authenticate.")
		return nil
	}

	claims, ok := peekClaims(token)
	if !ok {
		fmt.Println("Token:   ✗ malformed")
		fmt.Println("\nRun 'realty login' to re-authenticate.")
		return nil
	}
	fmt.Printf("Token:   %s (%s)\n", claims.Email, claims.Role)

	_, err = c.User(claims.UserID)
	var apiErr *client.Error
	switch {
	case err == nil:
		fmt.Println("Status:  ✓ connected and authenticated")
	case errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden):
		fmt.Println("Status:  ✗ token rejected")
		fmt.Println("\nRun 'realty login' to re-authenticate.")
	default:
		fmt.Printf("Status:  ✗ unexpected response (%v)\n", err)
	}

	return nil
}

// peekClaims decodes the token payload without verifying its signature.
// The server remains the authority on whether the token is valid.
func peekClaims(token string) (*auth.Claims, bool) {
	claims := &auth.Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}
