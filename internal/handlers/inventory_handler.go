package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/cache"
	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/models"
	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/query"
	apperrors "github.com/wrightcn2/Inventory-Search-Code-Test/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InventoryQuerier is the read side the handlers depend on. *query.Engine implements it.
type InventoryQuerier interface {
	Search(ctx context.Context, q *models.SearchQuery) (models.SearchResult, error)
	PeakAvailability(ctx context.Context, partNumber string) (models.AvailabilityResult, error)
	Part(ctx context.Context, partNumber string) ([]models.InventoryItem, error)
}

type InventoryHandler struct {
	logger   *zap.Logger
	engine   InventoryQuerier
	cache    cache.Cache
	cacheTTL time.Duration
}

// NewInventoryHandler creates the handler. A nil responseCache disables response caching.
func NewInventoryHandler(logger *zap.Logger, engine InventoryQuerier, responseCache cache.Cache, cacheTTL time.Duration) *InventoryHandler {
	return &InventoryHandler{
		logger:   logger,
		engine:   engine,
		cache:    responseCache,
		cacheTTL: cacheTTL,
	}
}

// SearchInventory handles GET /inventory/search
// @Summary      Search inventory
// @Description  Filters, sorts and paginates inventory records. `total` counts every match regardless of page.
//
// **Examples:**
// - Part number contains: `GET /inventory/search?criteria=PN-1000`
// - Description in two branches, in stock only: `GET /inventory/search?criteria=bolt&by=description&branches=SEA,PDX&onlyAvailable=true`
// - Second page sorted by quantity: `GET /inventory/search?page=1&size=10&sort=availableQty:desc`
//
// @Tags         inventory
// @Produce      json
// @Param        X-Request-ID   header    string  false  "Request ID for request tracking (UUID). If not provided, a new one will be generated."
// @Param        criteria       query     string  false  "Substring to match, case-insensitive"
// @Param        by             query     string  false  "Field to match: partNumber (default), description, supplierSku"
// @Param        branches       query     string  false  "Comma-separated branch codes" example(SEA,PDX)
// @Param        onlyAvailable  query     bool    false  "Only records with availableQty > 0"
// @Param        page           query     int     false  "Zero-based page index (default 0)"
// @Param        size           query     int     false  "Page size (default 20)"
// @Param        sort           query     string  false  "<field>:<asc|desc>" example(availableQty:desc)
// @Success      200  {object}  SearchResponse  "One page of matches"
// @Failure      400  {object}  ErrorResponse   "Invalid parameter"
// @Failure      500  {object}  ErrorResponse   "Unhandled failure"
// @Router       /inventory/search [get]
func (h *InventoryHandler) SearchInventory(c *gin.Context) {
	q, err := parseSearchQuery(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	cacheKey := cache.SearchKey(&q)
	if h.cache != nil {
		var cached models.SearchResult
		if err := cache.GetJSON(c.Request.Context(), h.cache, cacheKey, &cached); err == nil {
			h.logger.Debug("Cache hit", zap.String("key", cacheKey))
			c.JSON(http.StatusOK, apperrors.Succeed(cached))
			return
		}
	}

	result, err := h.engine.Search(c.Request.Context(), &q)
	if err != nil {
		_ = c.Error(toStandardError(err, "search failed"))
		return
	}

	h.store(c.Request.Context(), cacheKey, result)
	c.JSON(http.StatusOK, apperrors.Succeed(result))
}

// GetPeakAvailability handles GET /inventory/availability/peak
// @Summary      Peak availability of a part
// @Description  Sums a part's quantity per branch. An unknown part is an empty result, not an error.
//
// **Examples:**
// - `GET /inventory/availability/peak?partNumber=PN-1000`
// - Missing part number (400): `GET /inventory/availability/peak`
//
// @Tags         inventory
// @Produce      json
// @Param        X-Request-ID  header    string  false  "Request ID for request tracking (UUID). If not provided, a new one will be generated."
// @Param        partNumber    query     string  true   "Part number, matched exactly (case-insensitive)" example(PN-1000)
// @Success      200  {object}  PeakAvailabilityResponse  "Per-branch breakdown, largest first"
// @Failure      400  {object}  ErrorResponse             "partNumber is missing or blank"
// @Failure      500  {object}  ErrorResponse             "Unhandled failure"
// @Router       /inventory/availability/peak [get]
func (h *InventoryHandler) GetPeakAvailability(c *gin.Context) {
	partNumber := strings.TrimSpace(c.Query("partNumber"))
	if partNumber == "" {
		_ = c.Error(apperrors.NewInvalidArgument("partNumber is required", "partNumber"))
		return
	}

	cacheKey := cache.PeakKey(partNumber)
	if h.cache != nil {
		var cached models.AvailabilityResult
		if err := cache.GetJSON(c.Request.Context(), h.cache, cacheKey, &cached); err == nil {
			h.logger.Debug("Cache hit", zap.String("key", cacheKey))
			c.JSON(http.StatusOK, apperrors.Succeed(cached))
			return
		}
	}

	result, err := h.engine.PeakAvailability(c.Request.Context(), partNumber)
	if err != nil {
		_ = c.Error(toStandardError(err, "peak availability failed"))
		return
	}

	h.store(c.Request.Context(), cacheKey, result)
	c.JSON(http.StatusOK, apperrors.Succeed(result))
}

// GetPart handles GET /inventory/parts/:partNumber
// @Summary      Records of one part
// @Description  Returns every branch record of a part, lots included. An unknown part yields an empty list.
// @Tags         inventory
// @Produce      json
// @Param        X-Request-ID  header    string  false  "Request ID for request tracking (UUID). If not provided, a new one will be generated."
// @Param        partNumber    path      string  true   "Part number" example(PN-1000)
// @Success      200  {object}  PartResponse   "Branch records"
// @Failure      500  {object}  ErrorResponse  "Unhandled failure"
// @Router       /inventory/parts/{partNumber} [get]
func (h *InventoryHandler) GetPart(c *gin.Context) {
	items, err := h.engine.Part(c.Request.Context(), c.Param("partNumber"))
	if err != nil {
		_ = c.Error(toStandardError(err, "part lookup failed"))
		return
	}
	if items == nil {
		items = []models.InventoryItem{}
	}
	c.JSON(http.StatusOK, apperrors.Succeed(items))
}

// HealthCheck handles GET /health
// @Summary      Health check endpoint
// @Tags         health
// @Produce      json
// @Success      200  {object}  HealthResponse  "Service is up"
// @Router       /health [get]
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *InventoryHandler) store(ctx context.Context, key string, value interface{}) {
	if h.cache == nil {
		return
	}
	if err := cache.SetJSON(ctx, h.cache, key, value, h.cacheTTL); err != nil {
		h.logger.Warn("Failed to cache response", zap.String("key", key), zap.Error(err))
	}
}

// parseSearchQuery reads the search parameters. Absent parameters take their
// defaults; malformed ones are InvalidArgument.
func parseSearchQuery(c *gin.Context) (models.SearchQuery, error) {
	q := models.SearchQuery{Criteria: c.Query("criteria")}

	by, err := models.ParseSearchField(c.Query("by"))
	if err != nil {
		return q, apperrors.NewInvalidArgument(err.Error(), "by")
	}
	q.By = by

	for _, raw := range c.QueryArray("branches") {
		q.Branches = append(q.Branches, strings.Split(raw, ",")...)
	}

	if raw := c.Query("onlyAvailable"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return q, apperrors.NewInvalidArgument("onlyAvailable must be true or false", "onlyAvailable")
		}
		q.OnlyAvailable = v
	}

	if q.Page, err = intParam(c, "page"); err != nil {
		return q, err
	}
	if q.Size, err = intParam(c, "size"); err != nil {
		return q, err
	}

	if q.Sort, err = models.ParseSort(c.Query("sort")); err != nil {
		return q, apperrors.NewInvalidArgument(err.Error(), "sort")
	}

	return q.Normalize(), nil
}

func intParam(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewInvalidArgument(name+" must be an integer", name)
	}
	return v, nil
}

func toStandardError(err error, message string) error {
	var stdErr *apperrors.StandardError
	switch {
	case errors.As(err, &stdErr):
		return stdErr
	case errors.Is(err, query.ErrInvalidArgument):
		return apperrors.NewInvalidArgument(err.Error(), "query")
	default:
		return apperrors.NewInternalError(message, err)
	}
}
