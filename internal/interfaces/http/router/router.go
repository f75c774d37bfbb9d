package router

import (
	"github.com/gin-gonic/gin"

	"github.com/crediya/loans/internal/infrastructure/auth"
	"github.com/crediya/loans/internal/interfaces/http/handler"
	"github.com/crediya/loans/internal/interfaces/http/middleware"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
		registrars: make([]RouteRegistrar, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)

	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// LoanRoutes registers the loan application endpoints. Clients file
// applications; advisers and admins review them and move them through
// the workflow.
type LoanRoutes struct {
	loans *handler.LoanHandler
}

// NewLoanRoutes creates the loan route registrar
func NewLoanRoutes(loans *handler.LoanHandler) *LoanRoutes {
	return &LoanRoutes{loans: loans}
}

// RegisterRoutes implements RouteRegistrar interface
func (lr *LoanRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	loans := rg.Group("/loans")

	loans.POST("", middleware.RequireRoles(auth.RoleClient), lr.loans.Create)
	loans.GET("", lr.loans.List)
	loans.PATCH("/status", middleware.RequireRoles(auth.RoleAdviser, auth.RoleAdmin), lr.loans.ChangeStatus)
	loans.GET("/manual-review", middleware.RequireRoles(auth.RoleAdviser, auth.RoleAdmin), lr.loans.ManualReview)
}

// SystemRoutes registers health/liveness endpoints
type SystemRoutes struct {
	system *handler.SystemHandler
}

// NewSystemRoutes creates the system route registrar
func NewSystemRoutes(system *handler.SystemHandler) *SystemRoutes {
	return &SystemRoutes{system: system}
}

// RegisterRoutes implements RouteRegistrar interface
func (sr *SystemRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", sr.system.Health)
}

// RegisterRoot binds the unversioned liveness route directly on the engine
func (sr *SystemRoutes) RegisterRoot(engine *gin.Engine) {
	engine.GET("/health", sr.system.Health)
}
