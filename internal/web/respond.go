package web

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/evcraddock/realty/internal/apperr"
	"github.com/evcraddock/realty/internal/logging"
)

// respondError translates err and writes it as the JSON error body.
// Internal errors are logged with the request-scoped logger.
func respondError(c *gin.Context, err error) {
	appErr := apperr.From(err)
	if appErr.Kind == apperr.Internal {
		logging.FromContext(c).Error("request failed", zap.Error(err))
	}
	c.AbortWithStatusJSON(appErr.Status(), appErr)
}

// respondMessage writes {"message": msg}.
func respondMessage(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"message": msg})
}

var errInvalidBody = apperr.New(apperr.ValidationFailed, "Invalid request body")

// bindJSON decodes the request body into v and applies its binding tags.
// An empty body decodes as {}. A failed binding rule is reported as
// missing, or as an invalid body when missing is nil; so are bodies that
// are valid JSON of the wrong shape.
func bindJSON(c *gin.Context, v any, missing *apperr.Error) bool {
	if c.Request.Body == nil {
		c.Request.Body = http.NoBody
	}

	err := c.ShouldBindJSON(v)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(v)
	}
	if err == nil {
		return true
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && missing != nil {
		respondError(c, missing)
		return false
	}
	respondError(c, errInvalidBody)
	return false
}

// pathID parses the named path parameter as a positive ID.
func pathID(c *gin.Context, name, resource string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, apperr.Newf(apperr.ValidationFailed, "Invalid %s ID", resource))
		return 0, false
	}
	return id, true
}

// handlePanic turns a panic into an InternalError response instead of
// killing the process.
func (s *Server) handlePanic(c *gin.Context, recovered any) {
	logging.FromContext(c).Error("panic in handler", zap.Any("panic", recovered), zap.Stack("stack"))
	err := apperr.New(apperr.Internal, "Internal server error")
	c.AbortWithStatusJSON(http.StatusInternalServerError, err)
}
