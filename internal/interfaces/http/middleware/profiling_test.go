package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopcraft/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestDefaultProfilingConfig(t *testing.T) {
	cfg := DefaultProfilingConfig()

	assert.True(t, cfg.Enabled)
	assert.ElementsMatch(t, []string{"/health", "/healthz", "/ready", "/metrics"}, cfg.SkipPaths)
	assert.ElementsMatch(t, []string{"/swagger", "/api-docs"}, cfg.SkipPathPrefixes)
}

func TestProfilingWithConfig_Disabled(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handled := false
	router := gin.New()
	router.Use(ProfilingWithConfig(ProfilingConfig{Enabled: false}))
	router.GET("/api/v1/products", func(c *gin.Context) {
		handled = true
		c.Status(http.StatusOK)
	})

	w := doRequest(router, http.MethodGet, "/api/v1/products", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, handled)
}

func TestProfilingWithConfig_PassesRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		path string
	}{
		{"labeled api path", "/api/v1/products"},
		{"skipped health path", "/health"},
		{"skipped swagger prefix", "/swagger/index.html"},
		{"health subpath is labeled", "/health/check"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handled := false
			router := gin.New()
			router.Use(Profiling())
			router.GET(tt.path, func(c *gin.Context) {
				handled = true
				c.Status(http.StatusOK)
			})

			w := doRequest(router, http.MethodGet, tt.path, "")

			assert.Equal(t, http.StatusOK, w.Code)
			assert.True(t, handled)
		})
	}
}

func TestSkipProfiling(t *testing.T) {
	cfg := ProfilingConfig{
		Enabled:          true,
		SkipPaths:        []string{"/custom/health", "/custom/status"},
		SkipPathPrefixes: []string{"/custom/admin"},
	}

	tests := []struct {
		path string
		skip bool
	}{
		{"/custom/health", true},
		{"/custom/status", true},
		{"/custom/admin/dashboard", true},
		{"/custom/api", false},
		{"/custom/health/live", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.skip, skipProfiling(cfg, tt.path))
		})
	}
}

func TestProfilingLabels(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var labels map[string]string
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(JWTRoleKey, "customer")
		c.Next()
	})
	router.GET("/api/v1/products/:id", func(c *gin.Context) {
		labels = profilingLabels(c)
		c.Status(http.StatusOK)
	})

	w := doRequest(router, http.MethodGet, "/api/v1/products/123", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "GET", labels[telemetry.ProfilingLabelMethod])
	assert.Equal(t, "/api/v1/products/:id", labels[telemetry.ProfilingLabelRoute])
	assert.Equal(t, "products", labels[telemetry.ProfilingLabelController])
	assert.Equal(t, "customer", labels[telemetry.ProfilingLabelRole])
}

func TestProfilingLabels_NoRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var labels map[string]string
	router := gin.New()
	router.GET("/api/v1/reviews", func(c *gin.Context) {
		labels = profilingLabels(c)
		c.Status(http.StatusOK)
	})

	w := doRequest(router, http.MethodGet, "/api/v1/reviews", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, labels, telemetry.ProfilingLabelRole)
	assert.Equal(t, "reviews", labels[telemetry.ProfilingLabelController])
}

func TestControllerFromRoute(t *testing.T) {
	tests := []struct {
		route    string
		expected string
	}{
		{"/api/v1/products", "products"},
		{"/api/v1/products/:id", "products"},
		{"/api/v1/customers/:id/orders", "customers"},
		{"/api/v2/designs", "designs"},
		{"/api/products", "products"},
		{"/v1/orders", "orders"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			assert.Equal(t, tt.expected, controllerFromRoute(tt.route))
		})
	}
}

func TestIsVersionSegment(t *testing.T) {
	tests := []struct {
		segment  string
		expected bool
	}{
		{"v1", true},
		{"v2", true},
		{"v10", true},
		{"V3", true},
		{"v", false},
		{"version", false},
		{"products", false},
		{"v1a", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.segment, func(t *testing.T) {
			assert.Equal(t, tt.expected, isVersionSegment(tt.segment))
		})
	}
}

func TestProfilingWithConfig_ContextPreserved(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("custom_key", "custom_value")
		c.Next()
	})
	router.Use(Profiling())
	router.GET("/api/v1/products", func(c *gin.Context) {
		value, exists := c.Get("custom_key")
		assert.True(t, exists)
		assert.Equal(t, "custom_value", value)
		c.Status(http.StatusOK)
	})

	w := doRequest(router, http.MethodGet, "/api/v1/products", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProfilingWithConfig_MiddlewareOrder(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var order []string
	router := gin.New()
	router.Use(func(c *gin.Context) {
		order = append(order, "before")
		c.Next()
		order = append(order, "before_after")
	})
	router.Use(Profiling())
	router.Use(func(c *gin.Context) {
		order = append(order, "after")
		c.Next()
		order = append(order, "after_after")
	})
	router.GET("/api/v1/products", func(c *gin.Context) {
		order = append(order, "handler")
		c.Status(http.StatusOK)
	})

	w := doRequest(router, http.MethodGet, "/api/v1/products", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"before", "after", "handler", "after_after", "before_after"}, order)
}

func TestProfilingWithConfig_HTTPMethods(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, method := range []string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch,
	} {
		t.Run(method, func(t *testing.T) {
			handled := false
			router := gin.New()
			router.Use(Profiling())
			router.Handle(method, "/api/v1/designs", func(c *gin.Context) {
				handled = true
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(method, "/api/v1/designs", nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.True(t, handled)
		})
	}
}
