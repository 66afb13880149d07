package handlers

import (
	"catalog/core"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterOptions carries what the API routes need beyond the global services.
type RouterOptions struct {
	Verifier       core.TokenVerifier
	AllowedOrigins []string
	MaxImageBytes  int64
	Storage        *core.LocalStore // serves stored images when set
	AdminNetwork   *core.AdminNetworkACL
}

// SetupRouter builds the gin engine with middleware and the /api routes.
func SetupRouter(opts RouterOptions) *gin.Engine {
	if opts.MaxImageBytes > 0 {
		maxImageBytes = opts.MaxImageBytes
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     opts.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if opts.Storage != nil {
		r.Static(opts.Storage.RoutePrefix(), opts.Storage.Dir())
	}

	api := r.Group("/api")
	{
		api.GET("/health", HealthCheck)
		api.GET("/metrics", GetPrometheusMetrics())

		api.GET("/products", ListProducts)
		api.GET("/products/:id", GetProduct)
		api.GET("/config", GetConfig)
		api.GET("/config/:key", GetConfigKey)
	}

	admin := api.Group("", RequireAdminNetwork(opts.AdminNetwork), RequireAdmin(opts.Verifier))
	{
		// Product routes
		admin.POST("/products", CreateProduct)
		admin.PUT("/products/:id", UpdateProduct)
		admin.DELETE("/products/:id", DeleteProduct)

		// Config routes
		admin.PUT("/config/:key", PutConfigKey)
		admin.POST("/config/bulk", BulkUpdateConfig)
		admin.DELETE("/config/:key", DeleteConfigKey)

		// Operational routes
		admin.GET("/audit-log", GetAuditLog)
		admin.GET("/admins", ListAdmins)
		admin.POST("/admins", UpsertAdmin)
		admin.GET("/error-logs", GetErrorLogs)
		admin.DELETE("/error-logs", ClearErrorLogs)
	}

	return r
}
