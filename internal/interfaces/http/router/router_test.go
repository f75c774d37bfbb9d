package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/crediya/loans/internal/infrastructure/auth"
	"github.com/crediya/loans/internal/interfaces/http/handler"
	"github.com/crediya/loans/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type pingOK struct{}

func (pingOK) Ping() error { return nil }

type stubRegistrar struct {
	registered bool
}

func (s *stubRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	s.registered = true
	rg.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
}

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	reg := &stubRegistrar{}

	NewRouter(engine).Register(reg).Setup()

	assert.True(t, reg.registered)

	req := httptest.NewRequest("GET", "/api/v1/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestSystemRoutes(t *testing.T) {
	engine := gin.New()
	sys := NewSystemRoutes(handler.NewSystemHandler(pingOK{}))

	NewRouter(engine).Register(sys).Setup()
	sys.RegisterRoot(engine)

	for _, path := range []string{"/health", "/api/v1/health"} {
		req := httptest.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, "GET %s", path)
	}
}

func TestLoanRoutesRoleGates(t *testing.T) {
	// Role middleware rejects before the handler runs, so the handler
	// dependencies are never touched in these cases.
	newEngine := func(claims *auth.Claims) *gin.Engine {
		engine := gin.New()
		if claims != nil {
			engine.Use(func(c *gin.Context) {
				c.Set(middleware.JWTClaimsKey, claims)
			})
		}
		NewRouter(engine).Register(NewLoanRoutes(handler.NewLoanHandler(nil, nil))).Setup()
		return engine
	}

	tests := []struct {
		name   string
		method string
		path   string
		claims *auth.Claims
		want   int
	}{
		{"create without claims", "POST", "/api/v1/loans", nil, http.StatusUnauthorized},
		{"create as adviser", "POST", "/api/v1/loans", &auth.Claims{Role: auth.RoleAdviser}, http.StatusForbidden},
		{"status change without claims", "PATCH", "/api/v1/loans/status", nil, http.StatusUnauthorized},
		{"status change as client", "PATCH", "/api/v1/loans/status", &auth.Claims{Role: auth.RoleClient}, http.StatusForbidden},
		{"manual review as client", "GET", "/api/v1/loans/manual-review", &auth.Claims{Role: auth.RoleClient}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newEngine(tt.claims)
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}
