package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/evcraddock/realty/internal/auth"
	"github.com/evcraddock/realty/internal/config"
	"github.com/evcraddock/realty/internal/logging"
	"github.com/evcraddock/realty/internal/user"
	"github.com/evcraddock/realty/internal/web"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the HTTP API server. Configuration comes from the --config file, a .env file and the environment.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadServerConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "port to listen on (overrides PORT)")

	return cmd
}

func runServe(ctx context.Context, cfg config.Config) error {
	if cfg.Development() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	log, err := logging.New(logging.Options{Level: cfg.LogLevel, Development: cfg.Development()})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	database, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB(database)

	if cfg.DefaultSecret() {
		log.Warn("JWT_SECRET is not set; using the built-in development secret")
	}

	if cfg.AdminEmail != "" {
		users := user.NewRepository(database)
		admin, created, err := user.EnsureAdmin(ctx, users, auth.NewPasswordHasher(cfg.BcryptCost),
			cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			return err
		}
		if created {
			log.Info("admin account created", zap.Int64("user_id", admin.ID), zap.String("email", admin.Email))
		}
	}

	srv, err := web.NewServer(database, cfg, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	log.Info("starting realty API",
		zap.String("addr", cfg.Addr()),
		zap.String("driver", cfg.DBDriver),
		zap.Bool("passkeys", cfg.WebAuthnOrigin != ""),
	)
	return srv.ListenAndServe(ctx, cfg.Addr())
}
