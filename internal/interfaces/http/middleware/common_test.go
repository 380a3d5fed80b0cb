package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newMiddlewareRouter(mw gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(mw)
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return router
}

func doOriginRequest(router *gin.Engine, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/ping", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCORS_DefaultConfig(t *testing.T) {
	router := newMiddlewareRouter(CORS())

	t.Run("cross-origin request gets no CORS headers", func(t *testing.T) {
		w := doOriginRequest(router, "GET", "http://evil.example.com")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("same-origin request passes through", func(t *testing.T) {
		w := doOriginRequest(router, "GET", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("preflight still answered with 204", func(t *testing.T) {
		w := doOriginRequest(router, "OPTIONS", "http://somewhere.example.com")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestCORSWithConfig(t *testing.T) {
	t.Run("whitelisted origin is echoed with credentials", func(t *testing.T) {
		router := newMiddlewareRouter(CORSWithConfig(CORSConfig{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowMethods:     []string{"GET", "POST"},
			AllowHeaders:     []string{"Content-Type"},
			AllowCredentials: true,
		}))

		w := doOriginRequest(router, "GET", "http://localhost:3000")
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("each whitelisted origin matches independently", func(t *testing.T) {
		router := newMiddlewareRouter(CORSWithConfig(CORSConfig{
			AllowOrigins: []string{"http://localhost:3000", "https://shop.example.com"},
			AllowMethods: []string{"GET"},
			AllowHeaders: []string{"Content-Type"},
		}))

		w := doOriginRequest(router, "GET", "http://localhost:3000")
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

		w = doOriginRequest(router, "GET", "https://shop.example.com")
		assert.Equal(t, "https://shop.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unlisted origin gets no headers", func(t *testing.T) {
		router := newMiddlewareRouter(CORSWithConfig(CORSConfig{
			AllowOrigins: []string{"http://allowed.example.com"},
		}))

		w := doOriginRequest(router, "GET", "http://other.example.com")
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("empty whitelist refuses every origin", func(t *testing.T) {
		router := newMiddlewareRouter(CORSWithConfig(CORSConfig{
			AllowOrigins: []string{},
			AllowMethods: []string{"GET"},
			AllowHeaders: []string{"Content-Type"},
		}))

		w := doOriginRequest(router, "GET", "http://any.example.com")
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("wildcard matches every origin", func(t *testing.T) {
		router := newMiddlewareRouter(CORSWithConfig(CORSConfig{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST"},
			AllowHeaders: []string{"Content-Type"},
		}))

		w := doOriginRequest(router, "GET", "http://any.example.com")
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("credentials suppressed under wildcard", func(t *testing.T) {
		router := newMiddlewareRouter(CORSWithConfig(CORSConfig{
			AllowOrigins:     []string{"*"},
			AllowMethods:     []string{"GET"},
			AllowHeaders:     []string{"Content-Type"},
			AllowCredentials: true,
		}))

		w := doOriginRequest(router, "GET", "http://any.example.com")
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("max age rendered in seconds", func(t *testing.T) {
		tests := []struct {
			duration time.Duration
			want     string
		}{
			{time.Hour, "3600"},
			{12 * time.Hour, "43200"},
			{30 * time.Second, "30"},
		}

		for _, tt := range tests {
			router := newMiddlewareRouter(CORSWithConfig(CORSConfig{
				AllowOrigins: []string{"http://localhost:3000"},
				AllowMethods: []string{"GET"},
				AllowHeaders: []string{"Content-Type"},
				MaxAge:       tt.duration,
			}))

			w := doOriginRequest(router, "GET", "http://localhost:3000")
			assert.Equal(t, tt.want, w.Header().Get("Access-Control-Max-Age"))
		}
	})

	t.Run("expose headers joined", func(t *testing.T) {
		router := newMiddlewareRouter(CORSWithConfig(CORSConfig{
			AllowOrigins:  []string{"http://localhost:3000"},
			AllowMethods:  []string{"GET"},
			AllowHeaders:  []string{"Content-Type"},
			ExposeHeaders: []string{"X-Request-ID", "X-Total-Count"},
		}))

		w := doOriginRequest(router, "GET", "http://localhost:3000")
		assert.Equal(t, "X-Request-ID, X-Total-Count", w.Header().Get("Access-Control-Expose-Headers"))
	})

	t.Run("preflight for allowed origin carries full headers", func(t *testing.T) {
		router := newMiddlewareRouter(CORSWithConfig(CORSConfig{
			AllowOrigins: []string{"http://localhost:3000"},
			AllowMethods: []string{"GET", "POST", "PUT"},
			AllowHeaders: []string{"Content-Type", "Authorization"},
		}))

		w := doOriginRequest(router, "OPTIONS", "http://localhost:3000")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST, PUT", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type, Authorization", w.Header().Get("Access-Control-Allow-Headers"))
	})

	t.Run("preflight for unlisted origin gets bare 204", func(t *testing.T) {
		router := newMiddlewareRouter(CORSWithConfig(CORSConfig{
			AllowOrigins: []string{"http://allowed.example.com"},
			AllowMethods: []string{"GET", "POST"},
		}))

		w := doOriginRequest(router, "OPTIONS", "http://other.example.com")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestDefaultCORSConfig(t *testing.T) {
	cfg := DefaultCORSConfig()

	assert.Empty(t, cfg.AllowOrigins)
	assert.Contains(t, cfg.AllowMethods, "GET")
	assert.Contains(t, cfg.AllowMethods, "POST")
	assert.Contains(t, cfg.AllowHeaders, "Content-Type")
	assert.Contains(t, cfg.AllowHeaders, "Authorization")
	assert.True(t, cfg.AllowCredentials)
	assert.Equal(t, 12*time.Hour, cfg.MaxAge)
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	t.Run("generated when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/ping", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		assert.Equal(t, w.Header().Get("X-Request-ID"), w.Body.String())
	})

	t.Run("caller supplied ID is kept", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/ping", nil)
		req.Header.Set("X-Request-ID", "trace-me-123")
		router.ServeHTTP(w, req)

		assert.Equal(t, "trace-me-123", w.Header().Get("X-Request-ID"))
		assert.Equal(t, "trace-me-123", w.Body.String())
	})
}

func TestNewRequestID(t *testing.T) {
	first := newRequestID()
	second := newRequestID()

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
	assert.Len(t, first, 32)
}

func TestSecure_Defaults(t *testing.T) {
	router := newMiddlewareRouter(Secure())
	w := doOriginRequest(router, "GET", "")

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "1; mode=block", w.Header().Get("X-XSS-Protection"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))

	csp := w.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "default-src 'self'")
	assert.Contains(t, csp, "frame-ancestors 'none'")

	// HSTS waits for an HTTPS deployment
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))

	policy := w.Header().Get("Permissions-Policy")
	assert.Contains(t, policy, "camera=()")
	assert.Contains(t, policy, "microphone=()")
}

func TestSecureWithConfig(t *testing.T) {
	t.Run("custom CSP only", func(t *testing.T) {
		router := newMiddlewareRouter(SecureWithConfig(SecurityConfig{
			CSPEnabled:   true,
			CSPDirective: "default-src 'none'; script-src 'self'",
		}))
		w := doOriginRequest(router, "GET", "")

		assert.Equal(t, "default-src 'none'; script-src 'self'", w.Header().Get("Content-Security-Policy"))
		assert.Empty(t, w.Header().Get("Permissions-Policy"))
		assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
	})

	t.Run("HSTS with subdomains and preload", func(t *testing.T) {
		router := newMiddlewareRouter(SecureWithConfig(SecurityConfig{
			HSTSEnabled:           true,
			HSTSMaxAge:            63072000,
			HSTSIncludeSubdomains: true,
			HSTSPreload:           true,
		}))
		w := doOriginRequest(router, "GET", "")

		assert.Equal(t, "max-age=63072000; includeSubDomains; preload", w.Header().Get("Strict-Transport-Security"))
	})

	t.Run("HSTS max-age only", func(t *testing.T) {
		router := newMiddlewareRouter(SecureWithConfig(SecurityConfig{
			HSTSEnabled: true,
			HSTSMaxAge:  31536000,
		}))
		w := doOriginRequest(router, "GET", "")

		assert.Equal(t, "max-age=31536000", w.Header().Get("Strict-Transport-Security"))
	})

	t.Run("custom permissions policy", func(t *testing.T) {
		router := newMiddlewareRouter(SecureWithConfig(SecurityConfig{
			PermissionsPolicyEnabled:   true,
			PermissionsPolicyDirective: "geolocation=(self), microphone=()",
		}))
		w := doOriginRequest(router, "GET", "")

		assert.Equal(t, "geolocation=(self), microphone=()", w.Header().Get("Permissions-Policy"))
	})

	t.Run("optional headers all off", func(t *testing.T) {
		router := newMiddlewareRouter(SecureWithConfig(SecurityConfig{}))
		w := doOriginRequest(router, "GET", "")

		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Empty(t, w.Header().Get("Content-Security-Policy"))
		assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
		assert.Empty(t, w.Header().Get("Permissions-Policy"))
	})
}

func TestDefaultSecurityConfig(t *testing.T) {
	cfg := DefaultSecurityConfig()

	assert.False(t, cfg.HSTSEnabled)
	assert.Equal(t, 31536000, cfg.HSTSMaxAge)
	assert.True(t, cfg.HSTSIncludeSubdomains)
	assert.False(t, cfg.HSTSPreload)

	assert.True(t, cfg.CSPEnabled)
	assert.Contains(t, cfg.CSPDirective, "default-src 'self'")
	assert.Contains(t, cfg.CSPDirective, "frame-ancestors 'none'")

	assert.True(t, cfg.PermissionsPolicyEnabled)
	assert.Contains(t, cfg.PermissionsPolicyDirective, "camera=()")
}
