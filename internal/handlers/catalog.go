package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kosarica/compare-service/internal/catalog"
)

// CatalogRefreshResponse describes a completed refresh.
type CatalogRefreshResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	LoadID  string `json:"loadId"`
	Items   int    `json:"items"`
	Stores  int    `json:"stores"`
	Prices  int    `json:"prices"`
}

// CatalogHealthResponse reports catalog cache state.
type CatalogHealthResponse struct {
	Status              string            `json:"status"`
	CircuitState        string            `json:"circuitState"`
	ConsecutiveFailures int               `json:"consecutiveFailures"`
	Freshness           catalog.Freshness `json:"freshness"`
}

// CatalogRefresh reloads the catalog from its provider
// @Summary Refresh the catalog
// @Description Reloads and validates the catalog, then swaps it in atomically. The previous catalog keeps serving on failure.
// @Tags catalog
// @Produce json
// @Param reset query bool false "Close the circuit breaker before loading"
// @Success 200 {object} CatalogRefreshResponse
// @Failure 500 {object} ErrorResponse "Load failed"
// @Failure 503 {object} ErrorResponse "Circuit breaker open"
// @Security ApiKeyAuth
// @Router /internal/catalog/refresh [post]
func CatalogRefresh(c *gin.Context) {
	if catalogCache == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "catalog not initialized"})
		return
	}

	if c.Query("reset") == "true" {
		catalogCache.ResetCircuitBreaker()
	}

	snap, err := catalogCache.Refresh(c.Request.Context())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, catalog.ErrCircuitOpen) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, ErrorResponse{Error: "Failed to refresh catalog: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, CatalogRefreshResponse{
		Status:  "ok",
		Version: snap.Catalog.Version,
		LoadID:  snap.LoadID,
		Items:   len(snap.Catalog.Items),
		Stores:  len(snap.Catalog.Stores),
		Prices:  len(snap.Catalog.Prices),
	})
}

// CatalogHealth reports catalog cache health
// @Summary Catalog health
// @Tags catalog
// @Produce json
// @Success 200 {object} CatalogHealthResponse
// @Failure 503 {object} CatalogHealthResponse "No catalog loaded or breaker open"
// @Security ApiKeyAuth
// @Router /internal/catalog/health [get]
func CatalogHealth(c *gin.Context) {
	if catalogCache == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "catalog not initialized"})
		return
	}

	resp := CatalogHealthResponse{
		Status:              "ok",
		CircuitState:        catalogCache.CircuitState().String(),
		ConsecutiveFailures: catalogCache.FailureCount(),
		Freshness:           catalogCache.Freshness(),
	}
	switch {
	case !catalogCache.IsHealthy():
		resp.Status = "unavailable"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	case resp.Freshness.IsStale:
		resp.Status = "stale"
	}
	c.JSON(http.StatusOK, resp)
}
