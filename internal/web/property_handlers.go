package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evcraddock/realty/internal/apperr"
	"github.com/evcraddock/realty/internal/auth"
	"github.com/evcraddock/realty/internal/property"
)

var errPropertyNotFound = apperr.New(apperr.NotFound, "Property not found")

func (s *Server) handleListProperties(c *gin.Context) {
	list, err := s.properties.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) handleGetProperty(c *gin.Context) {
	id, ok := pathID(c, "id", "property")
	if !ok {
		return
	}

	p, err := s.properties.GetByID(c.Request.Context(), id)
	if errors.Is(err, property.ErrNotFound) {
		respondError(c, errPropertyNotFound)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// handleCreateProperty creates a listing owned by the calling admin.
func (s *Server) handleCreateProperty(c *gin.Context) {
	var in property.Input
	if !bindJSON(c, &in, nil) {
		return
	}
	if err := in.Validate(); err != nil {
		respondError(c, err)
		return
	}

	p, err := s.properties.Insert(c.Request.Context(), in.Property(caller(c).ID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// handleUpdateProperty replaces a listing. The lookup, ownership check,
// validation and write run in one transaction, in that order.
func (s *Server) handleUpdateProperty(c *gin.Context) {
	id, ok := pathID(c, "id", "property")
	if !ok {
		return
	}

	var in property.Input
	if !bindJSON(c, &in, nil) {
		return
	}

	who := caller(c)
	p, err := s.properties.Update(c.Request.Context(), id, func(ownerID int64) (*property.Property, error) {
		if err := auth.CanUpdateProperty(who, ownerID); err != nil {
			return nil, err
		}
		if err := in.Validate(); err != nil {
			return nil, err
		}
		return in.Property(ownerID), nil
	})
	if errors.Is(err, property.ErrNotFound) {
		respondError(c, errPropertyNotFound)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleDeleteProperty(c *gin.Context) {
	id, ok := pathID(c, "id", "property")
	if !ok {
		return
	}

	err := s.properties.Delete(c.Request.Context(), id)
	if errors.Is(err, property.ErrNotFound) {
		respondError(c, errPropertyNotFound)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Property deleted successfully")
}

// requireProperty responds 404 and returns false when property id does not exist.
func (s *Server) requireProperty(c *gin.Context, id int64) bool {
	exists, err := s.properties.Exists(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return false
	}
	if !exists {
		respondError(c, errPropertyNotFound)
		return false
	}
	return true
}
