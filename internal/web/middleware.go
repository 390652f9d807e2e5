package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evcraddock/realty/internal/apperr"
)

// requireJSONBody rejects POST and PUT requests whose body is present but
// not valid JSON, before any handler runs. The body is restored for the
// handler to decode.
func requireJSONBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut {
			c.Next()
			return
		}
		if c.Request.Body == nil {
			c.Next()
			return
		}

		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			invalid := apperr.New(apperr.ValidationFailed, "Invalid JSON body")
			c.AbortWithStatusJSON(invalid.Status(), invalid)
			return
		}
		if len(bytes.TrimSpace(data)) > 0 && !json.Valid(data) {
			invalid := apperr.New(apperr.ValidationFailed, "Invalid JSON body")
			c.AbortWithStatusJSON(invalid.Status(), invalid)
			return
		}

		c.Request.Body = io.NopCloser(bytes.NewReader(data))
		c.Next()
	}
}
