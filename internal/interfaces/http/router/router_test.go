package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func respond(body string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, body)
	}
}

type stubCRUD struct{}

func (stubCRUD) List(c *gin.Context)   { c.String(http.StatusOK, "list") }
func (stubCRUD) Create(c *gin.Context) { c.String(http.StatusOK, "create") }
func (stubCRUD) Get(c *gin.Context)    { c.String(http.StatusOK, "get "+c.Param("id")) }
func (stubCRUD) Update(c *gin.Context) { c.String(http.StatusOK, "update "+c.Param("id")) }
func (stubCRUD) Delete(c *gin.Context) { c.String(http.StatusOK, "delete "+c.Param("id")) }

func request(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "/api/v1", r.BasePath())
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)
	r.Use(func(c *gin.Context) {
		c.Header("X-API", "1")
		c.Next()
	})
	r.Register(NewResourceGroup("test", "/test").GET("/ping", respond("pong")))
	r.Setup()

	w := request(engine, http.MethodGet, "/api/v1/test/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, "1", w.Header().Get("X-API"))
}

func TestResourceGroup(t *testing.T) {
	t.Run("lists routes with full paths", func(t *testing.T) {
		g := NewResourceGroup("carts", "/carts").
			POST("", respond("create")).
			GET("/:id", respond("get"))
		g.Nested("cart-items", "/:id/items").GET("", respond("items"))

		assert.Equal(t, "carts", g.Name())
		assert.Equal(t, []string{
			"POST /api/v1/carts",
			"GET /api/v1/carts/:id",
			"GET /api/v1/carts/:id/items",
		}, g.Routes("/api/v1"))
	})

	t.Run("CRUD registers the standard routes", func(t *testing.T) {
		g := NewResourceGroup("things", "/things").CRUD(stubCRUD{})
		assert.Equal(t, []string{
			"GET /things",
			"POST /things",
			"GET /things/:id",
			"PUT /things/:id",
			"PATCH /things/:id",
			"DELETE /things/:id",
		}, g.Routes("/"))

		engine := gin.New()
		g.RegisterRoutes(engine.Group("/"))
		w := request(engine, http.MethodDelete, "/things/7")
		assert.Equal(t, "delete 7", w.Body.String())
	})

	t.Run("registers every method", func(t *testing.T) {
		engine := gin.New()
		NewResourceGroup("test", "/test").
			GET("/items", respond("get")).
			POST("/items", respond("post")).
			PUT("/items/:id", respond("put")).
			PATCH("/items/:id", respond("patch")).
			DELETE("/items/:id", respond("delete")).
			RegisterRoutes(engine.Group("/api/v1"))

		tests := []struct {
			method string
			path   string
			body   string
		}{
			{http.MethodGet, "/api/v1/test/items", "get"},
			{http.MethodPost, "/api/v1/test/items", "post"},
			{http.MethodPut, "/api/v1/test/items/1", "put"},
			{http.MethodPatch, "/api/v1/test/items/1", "patch"},
			{http.MethodDelete, "/api/v1/test/items/1", "delete"},
		}
		for _, tt := range tests {
			w := request(engine, tt.method, tt.path)
			assert.Equal(t, http.StatusOK, w.Code, "%s %s", tt.method, tt.path)
			assert.Equal(t, tt.body, w.Body.String())
		}
	})

	t.Run("applies group middleware", func(t *testing.T) {
		engine := gin.New()
		NewResourceGroup("test", "/test").
			Use(func(c *gin.Context) {
				c.Header("X-Test-Middleware", "applied")
				c.Next()
			}).
			GET("/items", respond("ok")).
			RegisterRoutes(engine.Group("/api/v1"))

		w := request(engine, http.MethodGet, "/api/v1/test/items")
		assert.Equal(t, "applied", w.Header().Get("X-Test-Middleware"))
	})

	t.Run("nests subgroups under the parent prefix and middleware", func(t *testing.T) {
		engine := gin.New()
		carts := NewResourceGroup("carts", "/carts").
			Use(func(c *gin.Context) {
				c.Header("X-Parent", "yes")
				c.Next()
			}).
			GET("/:id", respond("cart"))
		carts.Nested("cart-items", "/:id/items").GET("/:item_id", func(c *gin.Context) {
			c.String(http.StatusOK, c.Param("id")+"/"+c.Param("item_id"))
		})
		carts.RegisterRoutes(engine.Group("/api/v1"))

		w := request(engine, http.MethodGet, "/api/v1/carts/c1/items/i1")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "c1/i1", w.Body.String())
		assert.Equal(t, "yes", w.Header().Get("X-Parent"))
	})
}

func TestAPIRoutes(t *testing.T) {
	var routes []string
	for _, g := range APIRoutes(Handlers{}) {
		routes = append(routes, g.Routes("/api/v1")...)
	}

	for _, want := range []string{
		"GET /api/v1/products",
		"DELETE /api/v1/products/:id",
		"GET /api/v1/customers/me",
		"POST /api/v1/customers/:id/addresses",
		"POST /api/v1/carts",
		"POST /api/v1/carts/:id/items",
		"PATCH /api/v1/carts/:id/items/:item_id",
		"POST /api/v1/orders",
		"PATCH /api/v1/orders/:id",
		"DELETE /api/v1/orders/:id/items/:item_id",
	} {
		assert.Contains(t, routes, want)
	}
	assert.NotContains(t, routes, "DELETE /api/v1/customers/:id")
	assert.NotContains(t, routes, "PUT /api/v1/orders/:id")
}
