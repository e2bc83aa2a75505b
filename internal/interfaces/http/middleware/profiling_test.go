package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestProfiling_LabelsMatchedRoutes(t *testing.T) {
	labels := map[string]string{}
	router := gin.New()
	router.Use(Profiling(true))
	router.POST("/api/v1/carts/:id/items", func(c *gin.Context) {
		for _, key := range []string{"method", "route", "resource"} {
			if v, ok := pprof.Label(c.Request.Context(), key); ok {
				labels[key] = v
			}
		}
		c.Status(http.StatusCreated)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/carts/123/items", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, map[string]string{
		"method":   "POST",
		"route":    "/api/v1/carts/:id/items",
		"resource": "carts",
	}, labels)
}

func TestProfiling_Disabled(t *testing.T) {
	labelled := false
	router := gin.New()
	router.Use(Profiling(false))
	router.GET("/api/v1/orders", func(c *gin.Context) {
		_, labelled = pprof.Label(c.Request.Context(), "route")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, labelled)
}

func TestResourceOf(t *testing.T) {
	assert.Equal(t, "orders", resourceOf("/api/v1/orders/:id"))
	assert.Equal(t, "collections", resourceOf("/api/v2/collections"))
	assert.Equal(t, "health", resourceOf("/health"))
	assert.Equal(t, "", resourceOf("/"))
}
