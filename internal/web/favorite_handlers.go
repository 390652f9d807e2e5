package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/evcraddock/realty/internal/apperr"
	"github.com/evcraddock/realty/internal/favorite"
)

// flexibleID accepts an ID sent as a JSON number or a numeric string.
type flexibleID int64

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return err
	}
	*f = flexibleID(n)
	return nil
}

type addFavoriteRequest struct {
	PropertyID flexibleID `json:"propertyId"`
}

var _ json.Unmarshaler = (*flexibleID)(nil)

func (s *Server) handleListFavorites(c *gin.Context) {
	entries, err := s.favorites.ListForUser(c.Request.Context(), caller(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// handleAddFavorite saves a property for the caller.
func (s *Server) handleAddFavorite(c *gin.Context) {
	var req addFavoriteRequest
	if !bindJSON(c, &req, nil) {
		return
	}
	if req.PropertyID <= 0 {
		respondError(c, apperr.New(apperr.ValidationFailed, "Property ID is required"))
		return
	}

	propertyID := int64(req.PropertyID)
	if !s.requireProperty(c, propertyID) {
		return
	}

	f, err := s.favorites.Add(c.Request.Context(), caller(c).ID, propertyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

func (s *Server) handleRemoveFavorite(c *gin.Context) {
	propertyID, ok := pathID(c, "propertyId", "property")
	if !ok {
		return
	}

	err := s.favorites.Remove(c.Request.Context(), caller(c).ID, propertyID)
	if errors.Is(err, favorite.ErrNotFound) {
		respondError(c, apperr.New(apperr.NotFound, "Favorite not found"))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Removed from favorites")
}
