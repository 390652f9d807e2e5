// Package cli defines the cobra command tree for realty.
package cli

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/evcraddock/realty/internal/client"
	"github.com/evcraddock/realty/internal/config"
	"github.com/evcraddock/realty/internal/db"
)

var (
	flagFormat string
	flagConfig string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "realty",
		Short:         "Real estate listings API and client",
		Long:          "Run the realty listings API server, or browse listings, favorites and reviews against a running server.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "server config file (default: $REALTY_CONFIG)")

	root.AddCommand(
		newServeCmd(),
		newCreateAdminCmd(),
		newSignupCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newStatusCmd(),
		newListCmd(),
		newShowCmd(),
		newRemoveCmd(),
		newFavoritesCmd(),
		newFavoriteCmd(),
		newUnfavoriteCmd(),
		newReviewsCmd(),
		newReviewCmd(),
		newVersionCmd(),
	)

	return root
}

// loadServerConfig reads server configuration using the --config flag.
func loadServerConfig() (config.Config, error) {
	return config.Load(flagConfig)
}

// openDB opens and migrates the database named by cfg.
func openDB(cfg config.Config) (*sqlx.DB, error) {
	return db.Open(cfg.DBOptions())
}

// newAPIClient creates an HTTP client for the realty API.
func newAPIClient() *client.Client {
	return client.New(getServerURL(), getToken())
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// closeDB closes the database, logging any error to stderr.
func closeDB(database *sqlx.DB) {
	if err := database.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing database: %v\n", err)
	}
}
