package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/evcraddock/realty/internal/auth"
	"github.com/evcraddock/realty/internal/config"
	"github.com/evcraddock/realty/internal/user"
)

func newCreateAdminCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		Long:  "Creates an admin account directly in the database. An account with the same email is left as is.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadServerConfig()
			if err != nil {
				return err
			}
			return runCreateAdmin(cmd.Context(), os.Stdin, cfg, name, email, password)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name (default: ADMIN_NAME)")
	cmd.Flags().StringVar(&email, "email", "", "admin email (default: ADMIN_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "admin password (default: ADMIN_PASSWORD, prompted if empty)")

	return cmd
}

func runCreateAdmin(ctx context.Context, in io.Reader, cfg config.Config, name, email, password string) error {
	if name == "" {
		name = cfg.AdminName
	}
	if email == "" {
		email = cfg.AdminEmail
	}
	if password == "" {
		password = cfg.AdminPassword
	}

	reader := bufio.NewReader(in)
	var err error
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
	if err := validateCredentials(email, password); err != nil {
		return err
	}

	database, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB(database)

	u, created, err := user.EnsureAdmin(ctx, user.NewRepository(database), auth.NewPasswordHasher(cfg.BcryptCost), name, email, password)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(map[string]any{"user": u, "created": created})
	}
	if !created {
		fmt.Printf("Account %s already exists (role: %s).\n", u.Email, u.Role)
		return nil
	}
	fmt.Printf("✓ Admin #%d created: %s\n", u.ID, u.Email)
	return nil
}
