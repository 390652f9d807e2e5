// Package web provides the HTTP API server and handlers for the realty listings service.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/evcraddock/realty/internal/auth"
	"github.com/evcraddock/realty/internal/config"
	"github.com/evcraddock/realty/internal/favorite"
	"github.com/evcraddock/realty/internal/logging"
	"github.com/evcraddock/realty/internal/metrics"
	"github.com/evcraddock/realty/internal/property"
	"github.com/evcraddock/realty/internal/review"
	"github.com/evcraddock/realty/internal/user"
)

// Server is the API HTTP server.
type Server struct {
	db         *sqlx.DB
	log        *zap.Logger
	tokens     *auth.TokenService
	hasher     *auth.PasswordHasher
	users      *user.Repository
	properties *property.Repository
	favorites  *favorite.Repository
	reviews    *review.Repository
	metrics    *metrics.Metrics
	passkeys   *passkeyHandlers
	engine     *gin.Engine
}

// NewServer creates an API server over database configured by cfg.
// Passkey routes are registered only when cfg.WebAuthnOrigin is set.
func NewServer(database *sqlx.DB, cfg config.Config, log *zap.Logger) (*Server, error) {
	s := &Server{
		db:         database,
		log:        log,
		tokens:     auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry),
		hasher:     auth.NewPasswordHasher(cfg.BcryptCost),
		users:      user.NewRepository(database),
		properties: property.NewRepository(database),
		favorites:  favorite.NewRepository(database),
		reviews:    review.NewRepository(database),
		metrics:    metrics.New("realty"),
	}

	if cfg.WebAuthnOrigin != "" {
		ph, err := newPasskeyHandlers(cfg.WebAuthnOrigin, auth.NewPasskeyStore(database), s.users, s.tokens)
		if err != nil {
			return nil, fmt.Errorf("configuring passkeys: %w", err)
		}
		s.passkeys = ph
	}

	s.engine = s.routes()
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(
		logging.RequestID(),
		logging.RequestLogger(s.log),
		s.metrics.Middleware(),
		gin.CustomRecovery(s.handlePanic),
		requireJSONBody(),
	)

	r.GET("/", s.handleRoot)
	r.GET("/health", s.handleHealth)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := r.Group("/api")
	api.POST("/signup", s.handleSignup)
	api.POST("/signin", s.handleSignin)
	api.GET("/properties", s.handleListProperties)
	api.GET("/properties/:id", s.handleGetProperty)
	api.GET("/properties/:id/reviews", s.handleListReviews)

	authed := api.Group("", auth.RequireAuth(s.tokens, s.metrics.AuthFailure))
	authed.POST("/properties", auth.RequireAdmin(), s.handleCreateProperty)
	authed.PUT("/properties/:id", s.handleUpdateProperty)
	authed.DELETE("/properties/:id", auth.RequireAdmin(), s.handleDeleteProperty)
	authed.POST("/properties/:id/reviews", s.handleCreateReview)

	authed.GET("/users/:id", s.handleGetUser)
	authed.GET("/users/:id/properties", s.handleListUserProperties)

	authed.GET("/favorites", s.handleListFavorites)
	authed.POST("/favorites", s.handleAddFavorite)
	authed.DELETE("/favorites/:propertyId", s.handleRemoveFavorite)

	admin := authed.Group("/admin", auth.RequireAdmin())
	admin.GET("/users", s.handleAdminListUsers)
	admin.GET("/properties", s.handleAdminListProperties)
	admin.DELETE("/users/:id", s.handleAdminDeleteUser)

	if s.passkeys != nil {
		api.POST("/passkeys/login/begin", s.passkeys.handleBeginLogin)
		api.POST("/passkeys/login/finish", s.passkeys.handleFinishLogin)
		authed.POST("/passkeys/register/begin", s.passkeys.handleBeginRegistration)
		authed.POST("/passkeys/register/finish", s.passkeys.handleFinishRegistration)
		authed.GET("/passkeys", s.passkeys.handleList)
		authed.DELETE("/passkeys/:id", s.passkeys.handleDelete)
	}

	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully, letting in-flight requests finish.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
