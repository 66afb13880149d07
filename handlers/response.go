package handlers

import (
	"catalog/core"
	"catalog/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError maps err onto the error taxonomy and writes {error}.
// Server-side failures are recorded with their underlying cause; the caller only sees the generic message.
func abortWithError(c *gin.Context, source string, err error) {
	status := statusFor(err)
	msg := err.Error()

	if status == http.StatusInternalServerError {
		if !errors.Is(err, service.ErrUpstream) {
			msg = "Internal server error"
		}
		core.LogErrorWithContext(source, msg, service.Cause(err).Error(), requestContext(c))
	}

	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}

func requestContext(c *gin.Context) map[string]interface{} {
	ctx := map[string]interface{}{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	}
	if id := c.GetString(ctxRequestID); id != "" {
		ctx["request_id"] = id
	}
	if id := adminID(c); id != 0 {
		ctx["admin_id"] = id
	}
	return ctx
}
