package handlers

import (
	"catalog/models"
	"catalog/service"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetConfig returns every key as one flat object
func GetConfig(c *gin.Context) {
	all, err := service.GlobalServices.Config.GetAll(c.Request.Context())
	if err != nil {
		abortWithError(c, "Config", err)
		return
	}
	c.JSON(http.StatusOK, all)
}

// GetConfigKey returns the raw value stored under :key
func GetConfigKey(c *gin.Context) {
	value, err := service.GlobalServices.Config.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		abortWithError(c, "Config", err)
		return
	}
	c.Data(http.StatusOK, gin.MIMEJSON+"; charset=utf-8", value)
}

// PutConfigKey upserts one key from {"value": ...}
func PutConfigKey(c *gin.Context) {
	var req struct {
		Value json.RawMessage `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Value is required")
		return
	}

	row, action, err := service.GlobalServices.Config.Put(c.Request.Context(), adminID(c), c.Param("key"), req.Value)
	if err != nil {
		abortWithError(c, "Config", err)
		return
	}
	c.JSON(http.StatusOK, configEntry(*row, action))
}

// BulkUpdateConfig upserts every key of {"updates": {...}} in one batch
func BulkUpdateConfig(c *gin.Context) {
	var req struct {
		Updates map[string]json.RawMessage `json:"updates"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Updates object is required")
		return
	}

	rows, err := service.GlobalServices.Config.Bulk(c.Request.Context(), adminID(c), req.Updates)
	if err != nil {
		abortWithError(c, "Config", err)
		return
	}

	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, configEntry(row, ""))
	}
	c.JSON(http.StatusOK, out)
}

// DeleteConfigKey removes :key
func DeleteConfigKey(c *gin.Context) {
	if err := service.GlobalServices.Config.Delete(c.Request.Context(), adminID(c), c.Param("key")); err != nil {
		abortWithError(c, "Config", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Config key deleted successfully"})
}

func configEntry(row models.SiteConfig, action string) gin.H {
	entry := gin.H{
		"key":        row.Key,
		"value":      json.RawMessage(row.Value),
		"updated_by": row.UpdatedBy,
		"updated_at": row.UpdatedAt,
	}
	if action != "" {
		entry["action"] = action
	}
	return entry
}
