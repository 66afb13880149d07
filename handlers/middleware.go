package handlers

import (
	"catalog/core"
	"catalog/metrics"
	"catalog/models"
	"catalog/service"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ctxRequestID = "request_id"
	ctxAdmin     = "admin"
)

// RequestID tags each request with an id, reusing an incoming X-Request-ID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = "req_" + uuid.New().String()[:12]
		}
		c.Set(ctxRequestID, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// AccessLog writes one zap line per request and feeds the HTTP metrics.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		status := c.Writer.Status()

		metrics.HTTPRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(status)).Inc()
		metrics.HTTPDuration.WithLabelValues(route, c.Request.Method).Observe(elapsed.Seconds())

		fields := []zap.Field{
			zap.String("request_id", c.GetString(ctxRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", elapsed),
			zap.String("client_ip", c.ClientIP()),
		}
		if admin, ok := CurrentAdmin(c); ok {
			fields = append(fields, zap.Uint("admin_id", admin.ID))
		}

		log := zap.L().Named("http")
		switch {
		case status >= 500:
			log.Error("request", fields...)
		case status >= 400:
			log.Warn("request", fields...)
		default:
			log.Debug("request", fields...)
		}
	}
}

// RequireAdminNetwork refuses admin routes to clients outside the configured networks.
func RequireAdminNetwork(acl *core.AdminNetworkACL) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !acl.Allows(c.ClientIP()) {
			metrics.AuthRejections.WithLabelValues("network").Inc()
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.Next()
	}
}

// RequireAdmin resolves the bearer token and checks the admin allow-list.
// On success the admin row is stored on the context for handlers and audit.
func RequireAdmin(verifier core.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c.GetHeader("Authorization"))
		if token == "" {
			metrics.AuthRejections.WithLabelValues("missing_token").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No authorization token provided"})
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, core.ErrInvalidToken) {
				metrics.AuthRejections.WithLabelValues("invalid_token").Inc()
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
				return
			}
			metrics.AuthRejections.WithLabelValues("error").Inc()
			core.LogErrorWithContext("Auth", "Authentication failed", err.Error(), requestContext(c))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Authentication failed"})
			return
		}

		admin, err := service.GlobalServices.Admins.Authorize(c.Request.Context(), identity.Email)
		if err != nil {
			if errors.Is(err, service.ErrForbidden) {
				metrics.AuthRejections.WithLabelValues("not_admin").Inc()
			} else {
				metrics.AuthRejections.WithLabelValues("error").Inc()
			}
			abortWithError(c, "Auth", err)
			return
		}

		service.GlobalServices.Admins.TouchLastLogin(admin.ID)
		c.Set(ctxAdmin, admin)
		c.Next()
	}
}

// CurrentAdmin returns the admin resolved by RequireAdmin.
func CurrentAdmin(c *gin.Context) (*models.AdminUser, bool) {
	v, ok := c.Get(ctxAdmin)
	if !ok {
		return nil, false
	}
	admin, ok := v.(*models.AdminUser)
	return admin, ok
}

func adminID(c *gin.Context) uint {
	if admin, ok := CurrentAdmin(c); ok {
		return admin.ID
	}
	return 0
}

func extractBearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
