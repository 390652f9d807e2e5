package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/evcraddock/realty/internal/logging"
)

// handleRoot is the plain-text liveness probe.
func (s *Server) handleRoot(c *gin.Context) {
	c.String(http.StatusOK, "Real estate API is running")
}

// handleHealth reports whether the database is reachable.
func (s *Server) handleHealth(c *gin.Context) {
	if err := s.db.PingContext(c.Request.Context()); err != nil {
		logging.FromContext(c).Error("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
