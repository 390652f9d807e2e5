package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evcraddock/realty/internal/client"
)

func newSignupCmd() *cobra.Command {
	var server, name, email, password string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and store its token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSignup(os.Stdin, server, name, email, password)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "server URL (default: from config or "+DefaultServerURL+")")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted if empty)")

	return cmd
}

func runSignup(in io.Reader, serverFlag, name, email, password string) error {
	serverURL := serverFlag
	if serverURL == "" {
		serverURL = getServerURL()
	}

	reader := bufio.NewReader(in)
	var err error
	if name == "" {
		if name, err = prompt(reader, "Name: "); err != nil {
			return err
		}
	}
	if email == "" {
		if email, err = prompt(reader, "Email: "); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = prompt(reader, "Password: "); err != nil {
			return err
		}
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("no name provided")
	}
	if err := validateCredentials(email, password); err != nil {
		return err
	}

	resp, err := client.New(serverURL, "").Signup(name, email, password)
	if err != nil {
		return err
	}
	return storeSession(serverFlag, resp)
}
