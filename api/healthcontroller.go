package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"qbank/app"
)

// RegisterHealthRoutes registers health check endpoints.
func RegisterHealthRoutes(r *gin.Engine, a *app.App) {
	r.GET("/api/health", handleHealth)
	r.GET("/api/stats", func(c *gin.Context) { handleStats(c, a) })
	r.GET("/api/activity", func(c *gin.Context) { handleActivity(c, a) })
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleStats returns the last polled bucket counts
func handleStats(c *gin.Context, a *app.App) {
	stats, updated, err := a.Stats.Latest()
	resp := gin.H{"stats": stats, "updated_at": updated}
	if err != nil {
		resp["error"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func handleActivity(c *gin.Context, a *app.App) {
	c.JSON(http.StatusOK, gin.H{"logs": a.Activity.Entries()})
}
