package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/evcraddock/realty/internal/apperr"
	"github.com/evcraddock/realty/internal/auth"
	"github.com/evcraddock/realty/internal/db"
	"github.com/evcraddock/realty/internal/logging"
	"github.com/evcraddock/realty/internal/user"
)

var errUserNotFound = apperr.New(apperr.NotFound, "User not found")

// handleGetUser returns a user to themself or an admin.
func (s *Server) handleGetUser(c *gin.Context) {
	id, ok := pathID(c, "id", "user")
	if !ok {
		return
	}
	if err := auth.CanReadUser(caller(c), id); err != nil {
		respondError(c, err)
		return
	}

	u, err := s.users.GetByID(c.Request.Context(), id)
	if errors.Is(err, user.ErrNotFound) {
		respondError(c, errUserNotFound)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// handleListUserProperties returns the listings a user owns.
func (s *Server) handleListUserProperties(c *gin.Context) {
	id, ok := pathID(c, "id", "user")
	if !ok {
		return
	}
	if err := auth.CanReadUser(caller(c), id); err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			respondError(c, errUserNotFound)
			return
		}
		respondError(c, err)
		return
	}

	list, err := s.properties.ListByOwner(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) handleAdminListUsers(c *gin.Context) {
	users, err := s.users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (s *Server) handleAdminListProperties(c *gin.Context) {
	list, err := s.properties.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// handleAdminDeleteUser deletes another account. Admins cannot delete
// themselves, and accounts that still own listings are refused.
func (s *Server) handleAdminDeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id", "user")
	if !ok {
		return
	}
	who := caller(c)
	if err := auth.CanDeleteUser(who, id); err != nil {
		respondError(c, err)
		return
	}

	err := s.users.Delete(c.Request.Context(), id)
	switch {
	case errors.Is(err, user.ErrNotFound):
		respondError(c, errUserNotFound)
		return
	case db.IsKind(err, db.KindForeignKey):
		respondError(c, apperr.New(apperr.InvalidOperation, "Cannot delete a user who still owns properties"))
		return
	case err != nil:
		respondError(c, err)
		return
	}

	logging.FromContext(c).Info("user deleted", zap.Int64("user_id", id), zap.Int64("by", who.ID))
	respondMessage(c, http.StatusOK, "User deleted successfully")
}
