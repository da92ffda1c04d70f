package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/kosarica/compare-service/internal/location"
)

// LocationSearchQuery binds GET /internal/locations/search.
type LocationSearchQuery struct {
	Q string `form:"q" binding:"required,min=2,max=100"`
}

// LocationSearchResponse lists candidate locations.
type LocationSearchResponse struct {
	Results []location.SearchResult `json:"results"`
}

// SearchLocations searches locations by free text
// @Summary Search locations
// @Description Returns candidate locations for a free-text query of at least two characters
// @Tags locations
// @Produce json
// @Param q query string true "Search text" minlength(2)
// @Success 200 {object} LocationSearchResponse
// @Failure 400 {object} ErrorResponse "Query too short"
// @Failure 502 {object} ErrorResponse "Location provider failed"
// @Failure 503 {object} ErrorResponse "Location service not configured"
// @Security ApiKeyAuth
// @Router /internal/locations/search [get]
func SearchLocations(c *gin.Context) {
	var q LocationSearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Field: "q"})
		return
	}

	if locationService == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "location service not configured"})
		return
	}

	results, err := locationService.Search(c.Request.Context(), q.Q)
	if err != nil {
		log.Warn().Err(err).Str("query", q.Q).Msg("Location search failed")
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "location search failed"})
		return
	}
	if results == nil {
		results = []location.SearchResult{}
	}

	c.JSON(http.StatusOK, LocationSearchResponse{Results: results})
}
