package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/wrightcn2/Inventory-Search-Code-Test/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Data     interface{} `json:"data"`
	IsFailed bool        `json:"isFailed"`
	Message  string      `json:"message"`
}

func setupErrorRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RecoveryHandler(zap.NewNop()))
	router.Use(ErrorHandler(zap.NewNop()))
	router.NoRoute(NotFoundHandler)

	router.GET("/invalid", func(c *gin.Context) {
		_ = c.Error(apperrors.NewInvalidArgument("partNumber is required", "partNumber"))
	})
	router.GET("/upstream", func(c *gin.Context) {
		_ = c.Error(apperrors.NewUpstreamFailure("inventory service unavailable", errors.New("refused")))
	})
	router.GET("/plain", func(c *gin.Context) {
		_ = c.Error(errors.New("disk on fire"))
	})
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return router
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestErrorHandler_StatusAndEnvelope(t *testing.T) {
	router := setupErrorRouter()

	tests := []struct {
		path    string
		status  int
		message string
	}{
		{"/invalid", http.StatusBadRequest, "partNumber is required"},
		{"/upstream", http.StatusInternalServerError, "inventory service unavailable"},
		{"/plain", http.StatusInternalServerError, "internal server error"},
		{"/panic", http.StatusInternalServerError, "internal server error"},
		{"/nope", http.StatusNotFound, "route not found: /nope"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", tt.path, nil))

			assert.Equal(t, tt.status, w.Code)
			env := decodeEnvelope(t, w)
			assert.True(t, env.IsFailed)
			assert.Nil(t, env.Data)
			assert.Equal(t, tt.message, env.Message)
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORSMiddleware())
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("OPTIONS", "/test", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), RequestIDHeader)
}
