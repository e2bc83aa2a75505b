package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar mounts its routes on a gin group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router mounts resource groups under /api/<version> behind a shared middleware chain
type Router struct {
	engine     *gin.Engine
	version    string
	chain      []gin.HandlerFunc
	registrars []RouteRegistrar
}

// RouterOption configures a Router
type RouterOption func(*Router)

// WithAPIVersion overrides the default "v1" path segment
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.version = version
	}
}

// NewRouter creates a Router for engine
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, version: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BasePath returns the prefix every API route is mounted under
func (r *Router) BasePath() string {
	return "/api/" + r.version
}

// Use appends middleware run before every API route
func (r *Router) Use(middleware ...gin.HandlerFunc) *Router {
	r.chain = append(r.chain, middleware...)
	return r
}

// Register queues registrars for Setup
func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// Setup mounts the queued registrars. Call it once, after all Register calls.
func (r *Router) Setup() {
	api := r.engine.Group(r.BasePath(), r.chain...)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// CRUDHandler serves the five standard routes of a resource
type CRUDHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// ResourceGroup declares the routes of one REST resource, optionally with
// nested item resources mounted below it
type ResourceGroup struct {
	name   string
	prefix string
	guards []gin.HandlerFunc
	routes []route
	nested []*ResourceGroup
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewResourceGroup creates a group mounted at prefix
func NewResourceGroup(name, prefix string) *ResourceGroup {
	return &ResourceGroup{name: name, prefix: prefix}
}

// Name identifies the group in logs and tests
func (g *ResourceGroup) Name() string {
	return g.name
}

// Use adds middleware that guards every route of the group and its nested groups
func (g *ResourceGroup) Use(guards ...gin.HandlerFunc) *ResourceGroup {
	g.guards = append(g.guards, guards...)
	return g
}

func (g *ResourceGroup) GET(p string, handlers ...gin.HandlerFunc) *ResourceGroup {
	return g.add(http.MethodGet, p, handlers)
}

func (g *ResourceGroup) POST(p string, handlers ...gin.HandlerFunc) *ResourceGroup {
	return g.add(http.MethodPost, p, handlers)
}

func (g *ResourceGroup) PUT(p string, handlers ...gin.HandlerFunc) *ResourceGroup {
	return g.add(http.MethodPut, p, handlers)
}

func (g *ResourceGroup) PATCH(p string, handlers ...gin.HandlerFunc) *ResourceGroup {
	return g.add(http.MethodPatch, p, handlers)
}

func (g *ResourceGroup) DELETE(p string, handlers ...gin.HandlerFunc) *ResourceGroup {
	return g.add(http.MethodDelete, p, handlers)
}

// CRUD registers list and create on the collection, and get, update (PUT and
// PATCH) and delete on "/:id"
func (g *ResourceGroup) CRUD(h CRUDHandler) *ResourceGroup {
	return g.GET("", h.List).
		POST("", h.Create).
		GET("/:id", h.Get).
		PUT("/:id", h.Update).
		PATCH("/:id", h.Update).
		DELETE("/:id", h.Delete)
}

func (g *ResourceGroup) add(method, p string, handlers []gin.HandlerFunc) *ResourceGroup {
	g.routes = append(g.routes, route{method: method, path: p, handlers: handlers})
	return g
}

// Nested creates an item resource below this one, e.g. "/:id/items".
// It inherits the parent's guards.
func (g *ResourceGroup) Nested(name, prefix string) *ResourceGroup {
	child := NewResourceGroup(name, prefix)
	g.nested = append(g.nested, child)
	return child
}

// RegisterRoutes implements RouteRegistrar
func (g *ResourceGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(g.prefix, g.guards...)
	for _, r := range g.routes {
		group.Handle(r.method, r.path, r.handlers...)
	}
	for _, child := range g.nested {
		child.RegisterRoutes(group)
	}
}

// Routes lists "METHOD /full/path" for every route of the group and its
// nested groups, relative to base
func (g *ResourceGroup) Routes(base string) []string {
	prefix := path.Join(base, g.prefix)
	var out []string
	for _, r := range g.routes {
		out = append(out, r.method+" "+joinPath(prefix, r.path))
	}
	for _, child := range g.nested {
		out = append(out, child.Routes(prefix)...)
	}
	return out
}

// joinPath keeps gin's semantics of an empty relative path meaning the prefix itself
func joinPath(prefix, rel string) string {
	if rel == "" {
		return prefix
	}
	return path.Join(prefix, rel)
}
