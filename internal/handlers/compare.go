package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/kosarica/compare-service/internal/catalog"
	"github.com/kosarica/compare-service/internal/compare"
	"github.com/kosarica/compare-service/internal/location"
)

// Dependencies initialized by the application
var (
	compareEngine   *compare.Engine
	catalogCache    *catalog.Cache
	locationService location.Service
	defaultLocation *compare.UserLocation
)

// InitCompare wires the comparison handlers. This should be called during
// application startup. locations and fallback may be nil.
func InitCompare(engine *compare.Engine, cache *catalog.Cache, locations location.Service, fallback *compare.UserLocation) {
	compareEngine = engine
	catalogCache = cache
	locationService = locations
	defaultLocation = fallback
}

// Compare computes the default comparison list
// @Summary Compare item prices across nearby stores
// @Description Returns one comparison per catalog item, restricted to eligible stores and escalated through the fallback ladder when nothing is local
// @Tags compare
// @Accept json
// @Produce json
// @Param request body CompareRequest true "Location and filters"
// @Success 200 {object} CompareResponse
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 503 {object} ErrorResponse "Catalog unavailable"
// @Security ApiKeyAuth
// @Router /internal/compare [post]
func Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	snap, ok := activeSnapshot(c)
	if !ok {
		return
	}

	loc := resolveLocation(c.Request.Context(), req.Location, req.UseDefaultLocation)
	filters := compare.Filters{
		MaxDistance: req.MaxDistance,
		Query:       req.Query,
		Category:    req.Category,
		SortBy:      compare.SortKey(req.SortBy),
	}

	result, err := compareEngine.Compare(c.Request.Context(), snap.Catalog, loc, filters)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, compareResponseFromDomain(result, snap.Catalog.Version))
}

// ItemStores returns every store carrying one item
// @Summary List all stores for an item
// @Description Returns the item's open in-state stores within maxDistance, or all of them when includeFar is set, sorted by price or distance
// @Tags compare
// @Accept json
// @Produce json
// @Param itemId path string true "Item ID"
// @Param request body StoresRequest false "Location and view options"
// @Success 200 {object} StoresResponse
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 404 {object} ErrorResponse "Item not found"
// @Failure 503 {object} ErrorResponse "Catalog unavailable"
// @Security ApiKeyAuth
// @Router /internal/compare/items/{itemId}/stores [post]
func ItemStores(c *gin.Context) {
	itemID := c.Param("itemId")
	if itemID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "itemId is required", Field: "itemId"})
		return
	}

	var req StoresRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	snap, ok := activeSnapshot(c)
	if !ok {
		return
	}

	loc := resolveLocation(c.Request.Context(), req.Location, req.UseDefaultLocation)
	entries, err := compareEngine.Stores(c.Request.Context(), snap.Catalog, itemID, loc, compare.StoresViewOptions{
		Sort:        compare.SortKey(req.Sort),
		IncludeFar:  req.IncludeFar,
		MaxDistance: req.MaxDistance,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StoresResponse{
		ItemID:  itemID,
		Entries: entriesFromDomain(entries),
		Total:   len(entries),
	})
}

// bindOptionalJSON binds the body into obj. An empty body, whether sent with
// Content-Length 0 or chunked, leaves obj at its zero value.
func bindOptionalJSON(c *gin.Context, obj interface{}) error {
	if c.Request.ContentLength == 0 && len(c.Request.TransferEncoding) == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// activeSnapshot writes a 503 and returns false when no catalog is loaded.
func activeSnapshot(c *gin.Context) (*catalog.Snapshot, bool) {
	if compareEngine == nil || catalogCache == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "comparison service not initialized"})
		return nil, false
	}
	snap := catalogCache.Snapshot()
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "catalog not loaded"})
		return nil, false
	}
	return snap, true
}

// resolveLocation prefers the request's location; otherwise, when asked to,
// falls back to the location service and then to the configured default.
func resolveLocation(ctx context.Context, dto *LocationDTO, useDefault bool) *compare.UserLocation {
	if dto != nil {
		return dto.toDomain()
	}
	if !useDefault {
		return nil
	}
	loc, usedFallback := location.ResolveOrFallback(ctx, locationService, defaultLocation)
	if usedFallback {
		log.Debug().Msg("Using default location for comparison")
	}
	return loc
}

func respondError(c *gin.Context, err error) {
	var invalid compare.ErrInvalidRequest
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: invalid.Error(), Field: invalid.Field})
	case errors.Is(err, compare.ErrItemNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Comparison failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
