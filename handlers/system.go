package handlers

import (
	"catalog/core"
	"catalog/metrics"
	"catalog/service"
	"catalog/version"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cast"
)

// HealthCheck always answers 200
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"message":   "Central Celulares API is running",
		"timestamp": time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		"version":   version.GetFullVersion(),
	})
}

// GetPrometheusMetrics exposes the catalog registry in the Prometheus text format
func GetPrometheusMetrics() gin.HandlerFunc {
	h := promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}

// GetErrorLogs returns recent error logs
func GetErrorLogs(c *gin.Context) {
	c.JSON(http.StatusOK, core.ErrorLoggerInstance.GetErrorLogs())
}

// ClearErrorLogs wipes error logs
func ClearErrorLogs(c *gin.Context) {
	core.ErrorLoggerInstance.ClearErrorLogs()
	c.JSON(http.StatusOK, gin.H{"message": "Error logs cleared"})
}

// GetAuditLog pages through the audit trail, filtered by entity_type, entity_id and action
func GetAuditLog(c *gin.Context) {
	filter := service.AuditFilter{
		EntityType: c.Query("entity_type"),
		EntityID:   c.Query("entity_id"),
		Action:     c.Query("action"),
	}
	page := cast.ToInt(c.DefaultQuery("page", "1"))
	pageSize := cast.ToInt(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}

	entries, total, err := service.GlobalServices.Audit.ListPage(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		abortWithError(c, "Audit", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries, "total": total, "page": page, "page_size": pageSize})
}

// ListAdmins returns the admin allow-list
func ListAdmins(c *gin.Context) {
	admins, err := service.GlobalServices.Admins.List(c.Request.Context())
	if err != nil {
		abortWithError(c, "Admins", err)
		return
	}
	c.JSON(http.StatusOK, admins)
}

// UpsertAdmin adds an email to the allow-list or toggles it
func UpsertAdmin(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		IsActive *bool  `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "A valid email is required")
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	admin, err := service.GlobalServices.Admins.Upsert(c.Request.Context(), req.Email, active)
	if err != nil {
		abortWithError(c, "Admins", err)
		return
	}
	c.JSON(http.StatusOK, admin)
}
