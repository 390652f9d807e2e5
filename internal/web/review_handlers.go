package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evcraddock/realty/internal/review"
)

func (s *Server) handleListReviews(c *gin.Context) {
	id, ok := pathID(c, "id", "property")
	if !ok {
		return
	}

	reviews, err := s.reviews.ListByProperty(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// handleCreateReview adds the caller's review to a property.
func (s *Server) handleCreateReview(c *gin.Context) {
	id, ok := pathID(c, "id", "property")
	if !ok {
		return
	}

	var in review.Input
	if !bindJSON(c, &in, nil) {
		return
	}
	if err := in.Validate(); err != nil {
		respondError(c, err)
		return
	}
	if !s.requireProperty(c, id) {
		return
	}

	rv, err := s.reviews.Add(c.Request.Context(), id, caller(c).ID, *in.Review, *in.Rating)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rv)
}
