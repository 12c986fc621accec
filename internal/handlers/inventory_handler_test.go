package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/cache"
	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/models"
	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/query"
	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/repository"
	"github.com/wrightcn2/Inventory-Search-Code-Test/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockCache is a mock implementation of cache.Cache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) DeleteByPattern(ctx context.Context, pattern string) error {
	args := m.Called(ctx, pattern)
	return args.Error(0)
}

// MockQuerier is a mock implementation of InventoryQuerier
type MockQuerier struct {
	mock.Mock
}

func (m *MockQuerier) Search(ctx context.Context, q *models.SearchQuery) (models.SearchResult, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(models.SearchResult), args.Error(1)
}

func (m *MockQuerier) PeakAvailability(ctx context.Context, partNumber string) (models.AvailabilityResult, error) {
	args := m.Called(ctx, partNumber)
	return args.Get(0).(models.AvailabilityResult), args.Error(1)
}

func (m *MockQuerier) Part(ctx context.Context, partNumber string) ([]models.InventoryItem, error) {
	args := m.Called(ctx, partNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.InventoryItem), args.Error(1)
}

const testCacheTTL = 30 * time.Second

// seededEngine serves 60 generated records over 9 branches
func seededEngine() *query.Engine {
	return query.NewEngine(repository.NewInMemoryRepository(repository.Generate(60, 42)))
}

func setupTestRouter(handler *InventoryHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler(zap.NewNop()))
	router.GET("/health", HealthCheck)
	inventory := router.Group("/inventory")
	{
		inventory.GET("/search", handler.SearchInventory)
		inventory.GET("/availability/peak", handler.GetPeakAvailability)
		inventory.GET("/parts/:partNumber", handler.GetPart)
	}
	return router
}

func get(router *gin.Engine, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealthCheck(t *testing.T) {
	router := setupTestRouter(NewInventoryHandler(zap.NewNop(), seededEngine(), nil, testCacheTTL))

	w := get(router, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[HealthResponse](t, w).Status)
}

func TestSearchInventory_PartNumberScenario(t *testing.T) {
	router := setupTestRouter(NewInventoryHandler(zap.NewNop(), seededEngine(), nil, testCacheTTL))

	w := get(router, "/inventory/search?criteria=pn-1000&by=partNumber")

	assert.Equal(t, http.StatusOK, w.Code)
	response := decode[SearchResponse](t, w)
	assert.False(t, response.IsFailed)
	assert.Empty(t, response.Message)
	require.NotNil(t, response.Data)
	assert.GreaterOrEqual(t, response.Data.Total, 1)
	for _, item := range response.Data.Items {
		assert.Contains(t, strings.ToUpper(item.PartNumber), "PN-1000")
	}
}

func TestSearchInventory_BranchesCommaAndRepeated(t *testing.T) {
	router := setupTestRouter(NewInventoryHandler(zap.NewNop(), seededEngine(), nil, testCacheTTL))

	comma := decode[SearchResponse](t, get(router, "/inventory/search?branches=SEA,PDX&size=100"))
	repeated := decode[SearchResponse](t, get(router, "/inventory/search?branches=pdx&branches=sea&size=100"))

	require.NotNil(t, comma.Data)
	require.NotNil(t, repeated.Data)
	assert.Greater(t, comma.Data.Total, 0)
	assert.Equal(t, comma.Data.Total, repeated.Data.Total)
	for _, item := range comma.Data.Items {
		assert.Contains(t, []string{"SEA", "PDX"}, item.Branch)
	}
}

func TestSearchInventory_PageBeyondEndIsEmpty(t *testing.T) {
	router := setupTestRouter(NewInventoryHandler(zap.NewNop(), seededEngine(), nil, testCacheTTL))

	for _, path := range []string{
		"/inventory/search?page=99&size=10",
		"/inventory/search?page=4611686018427387904&size=4",
	} {
		w := get(router, path)

		assert.Equal(t, http.StatusOK, w.Code, path)
		response := decode[SearchResponse](t, w)
		require.NotNil(t, response.Data)
		assert.Equal(t, 60, response.Data.Total, path)
		assert.NotNil(t, response.Data.Items)
		assert.Empty(t, response.Data.Items, path)
	}
}

func TestSearchInventory_SortParam(t *testing.T) {
	router := setupTestRouter(NewInventoryHandler(zap.NewNop(), seededEngine(), nil, testCacheTTL))

	response := decode[SearchResponse](t, get(router, "/inventory/search?sort=availableQty:desc&size=60"))

	require.NotNil(t, response.Data)
	items := response.Data.Items
	require.Len(t, items, 60)
	for i := 1; i < len(items); i++ {
		assert.GreaterOrEqual(t, items[i-1].AvailableQty, items[i].AvailableQty)
	}
}

func TestSearchInventory_InvalidParameters(t *testing.T) {
	router := setupTestRouter(NewInventoryHandler(zap.NewNop(), seededEngine(), nil, testCacheTTL))

	tests := []struct {
		name   string
		target string
	}{
		{"unknown sort field", "/inventory/search?sort=color:asc"},
		{"unknown sort direction", "/inventory/search?sort=branch:sideways"},
		{"unknown search field", "/inventory/search?by=color"},
		{"non-numeric page", "/inventory/search?page=two"},
		{"non-numeric size", "/inventory/search?size=lots"},
		{"non-boolean availability", "/inventory/search?onlyAvailable=maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(router, tt.target)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			response := decode[ErrorResponse](t, w)
			assert.True(t, response.IsFailed)
			assert.Nil(t, response.Data)
			assert.NotEmpty(t, response.Message)
		})
	}
}

func TestSearchInventory_CacheHit(t *testing.T) {
	// Setup
	mockCache := new(MockCache)
	mockEngine := new(MockQuerier)
	router := setupTestRouter(NewInventoryHandler(zap.NewNop(), mockEngine, mockCache, testCacheTTL))

	q := models.SearchQuery{Criteria: "PN-1000"}.Normalize()
	cached, _ := json.Marshal(models.SearchResult{Total: 7, Items: []models.InventoryItem{}})
	mockCache.On("Get", mock.Anything, cache.SearchKey(&q)).Return(cached, nil)

	// Execute
	w := get(router, "/inventory/search?criteria=PN-1000")

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	mockCache.AssertExpectations(t)
	mockEngine.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)

	response := decode[SearchResponse](t, w)
	require.NotNil(t, response.Data)
	assert.Equal(t, 7, response.Data.Total)
}

func TestSearchInventory_CacheMissStoresResult(t *testing.T) {
	// Setup
	mockCache := new(MockCache)
	router := setupTestRouter(NewInventoryHandler(zap.NewNop(), seededEngine(), mockCache, testCacheTTL))

	q := models.SearchQuery{Criteria: "pn-1001", Branches: []string{"PDX", "SEA"}}.Normalize()
	key := cache.SearchKey(&q)
	mockCache.On("Get", mock.Anything, key).Return(nil, cache.ErrCacheMiss)
	mockCache.On("Set", mock.Anything, key, mock.Anything, testCacheTTL).Return(nil)

	// Execute
	w := get(router, "/inventory/search?criteria=PN-1001&branches=SEA,PDX")

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	mockCache.AssertExpectations(t)
}

func TestSearchInventory_CacheWriteFailureStillResponds(t *testing.T) {
	mockCache := new(MockCache)
	router := setupTestRouter(NewInventoryHandler(zap.NewNop(), seededEngine(), mockCache, testCacheTTL))

	mockCache.On("Get", mock.Anything, mock.Anything).Return(nil, cache.ErrCacheMiss)
	mockCache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))

	w := get(router, "/inventory/search")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[SearchResponse](t, w).IsFailed)
}

func TestSearchInventory_EngineFailure(t *testing.T) {
	mockEngine := new(MockQuerier)
	router := setupTestRouter(NewInventoryHandler(zap.NewNop(), mockEngine, nil, testCacheTTL))
	mockEngine.On("Search", mock.Anything, mock.Anything).Return(models.SearchResult{}, errors.New("snapshot unreadable"))

	w := get(router, "/inventory/search")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	response := decode[ErrorResponse](t, w)
	assert.True(t, response.IsFailed)
	assert.Equal(t, "search failed", response.Message)
}

func TestGetPeakAvailability(t *testing.T) {
	router := setupTestRouter(NewInventoryHandler(zap.NewNop(), seededEngine(), nil, testCacheTTL))

	w := get(router, "/inventory/availability/peak?partNumber=PN-1000")

	assert.Equal(t, http.StatusOK, w.Code)
	response := decode[PeakAvailabilityResponse](t, w)
	require.NotNil(t, response.Data)
	assert.Equal(t, "PN-1000", response.Data.PartNumber)
	require.NotEmpty(t, response.Data.Branches)

	sum := 0
	for i, b := range response.Data.Branches {
		sum += b.Qty
		if i > 0 {
			assert.GreaterOrEqual(t, response.Data.Branches[i-1].Qty, b.Qty)
		}
	}
	assert.Equal(t, sum, response.Data.TotalAvailable)
}

func TestGetPeakAvailability_NotFoundIsEmpty(t *testing.T) {
	router := setupTestRouter(NewInventoryHandler(zap.NewNop(), seededEngine(), nil, testCacheTTL))

	w := get(router, "/inventory/availability/peak?partNumber=nonexistent")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"branches":[]`)
	response := decode[PeakAvailabilityResponse](t, w)
	assert.False(t, response.IsFailed)
	require.NotNil(t, response.Data)
	assert.Equal(t, 0, response.Data.TotalAvailable)
}

func TestGetPeakAvailability_MissingPartNumber(t *testing.T) {
	router := setupTestRouter(NewInventoryHandler(zap.NewNop(), seededEngine(), nil, testCacheTTL))

	for _, target := range []string{"/inventory/availability/peak", "/inventory/availability/peak?partNumber=%20%20"} {
		w := get(router, target)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		response := decode[ErrorResponse](t, w)
		assert.True(t, response.IsFailed)
		assert.Equal(t, "partNumber is required", response.Message)
	}
}

func TestGetPeakAvailability_CacheHit(t *testing.T) {
	mockCache := new(MockCache)
	mockEngine := new(MockQuerier)
	router := setupTestRouter(NewInventoryHandler(zap.NewNop(), mockEngine, mockCache, testCacheTTL))

	cached, _ := json.Marshal(models.AvailabilityResult{PartNumber: "PN-1000", TotalAvailable: 3, Branches: []models.BranchAvailability{{Branch: "SEA", Qty: 3}}})
	mockCache.On("Get", mock.Anything, cache.PeakKey("PN-1000")).Return(cached, nil)

	w := get(router, "/inventory/availability/peak?partNumber=pn-1000")

	assert.Equal(t, http.StatusOK, w.Code)
	mockEngine.AssertNotCalled(t, "PeakAvailability", mock.Anything, mock.Anything)
	response := decode[PeakAvailabilityResponse](t, w)
	require.NotNil(t, response.Data)
	assert.Equal(t, 3, response.Data.TotalAvailable)
}

func TestGetPart(t *testing.T) {
	router := setupTestRouter(NewInventoryHandler(zap.NewNop(), seededEngine(), nil, testCacheTTL))

	w := get(router, "/inventory/parts/PN-1000")
	assert.Equal(t, http.StatusOK, w.Code)
	response := decode[PartResponse](t, w)
	require.NotNil(t, response.Data)
	require.NotEmpty(t, *response.Data)
	for _, item := range *response.Data {
		assert.Equal(t, "PN-1000", item.PartNumber)
	}

	w = get(router, "/inventory/parts/PN-9999")
	assert.Equal(t, http.StatusOK, w.Code)
	response = decode[PartResponse](t, w)
	require.NotNil(t, response.Data)
	assert.Empty(t, *response.Data)
}
