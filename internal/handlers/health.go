package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kosarica/compare-service/internal/database"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Catalog  string `json:"catalog"`
}

// HealthCheck handles the health check endpoint
// @Summary Service health
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:   "ok",
		Database: "not configured",
		Catalog:  "not configured",
	}
	healthy := true

	// Database is only used by the postgres catalog source and the importer
	if database.Pool() != nil {
		if err := database.Status(c.Request.Context()); err != nil {
			response.Database = "disconnected"
			healthy = false
		} else {
			response.Database = "connected"
		}
	}

	if catalogCache != nil {
		if catalogCache.IsHealthy() {
			response.Catalog = "loaded"
		} else {
			response.Catalog = "unavailable"
			healthy = false
		}
	}

	if !healthy {
		response.Status = "degraded"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}
	c.JSON(http.StatusOK, response)
}
