package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// limitedRouter builds a router with the given limiter middleware and a
// single OK route.
func limitedRouter(mw gin.HandlerFunc, method, path string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(mw)
	router.Handle(method, path, func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func doRequest(router *gin.Engine, method, path, remoteAddr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows requests within limit", func(t *testing.T) {
		limiter := NewRateLimiter(5, time.Minute)

		for i := 0; i < 5; i++ {
			assert.True(t, limiter.Allow("client1"), "request %d should be allowed", i+1)
		}
	})

	t.Run("blocks requests over the limit", func(t *testing.T) {
		limiter := NewRateLimiter(3, time.Minute)

		for i := 0; i < 3; i++ {
			assert.True(t, limiter.Allow("client2"))
		}
		assert.False(t, limiter.Allow("client2"))
	})

	t.Run("keys are independent", func(t *testing.T) {
		limiter := NewRateLimiter(2, time.Minute)

		assert.True(t, limiter.Allow("clientA"))
		assert.True(t, limiter.Allow("clientA"))
		assert.False(t, limiter.Allow("clientA"))

		assert.True(t, limiter.Allow("clientB"))
		assert.True(t, limiter.Allow("clientB"))
	})

	t.Run("window reset restores tokens", func(t *testing.T) {
		limiter := NewRateLimiter(2, 50*time.Millisecond)

		assert.True(t, limiter.Allow("client3"))
		assert.True(t, limiter.Allow("client3"))
		assert.False(t, limiter.Allow("client3"))

		time.Sleep(60 * time.Millisecond)

		assert.True(t, limiter.Allow("client3"))
	})

	t.Run("remaining tracks consumption", func(t *testing.T) {
		limiter := NewRateLimiter(5, time.Minute)

		assert.Equal(t, 5, limiter.Remaining("newclient"))

		limiter.Allow("newclient")
		limiter.Allow("newclient")

		assert.Equal(t, 3, limiter.Remaining("newclient"))
	})

	t.Run("concurrent callers never exceed the limit", func(t *testing.T) {
		limiter := NewRateLimiter(100, time.Minute)

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			allowed int
		)
		for i := 0; i < 150; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if limiter.Allow("concurrent-client") {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 100, allowed)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("passes requests within limit", func(t *testing.T) {
		router := limitedRouter(RateLimit(NewRateLimiter(3, time.Minute)), "GET", "/products")

		for i := 0; i < 3; i++ {
			assert.Equal(t, http.StatusOK, doRequest(router, "GET", "/products", "").Code)
		}
	})

	t.Run("rejects with 429 over the limit", func(t *testing.T) {
		router := limitedRouter(RateLimit(NewRateLimiter(2, time.Minute)), "GET", "/products")

		for i := 0; i < 2; i++ {
			assert.Equal(t, http.StatusOK, doRequest(router, "GET", "/products", "").Code)
		}

		w := doRequest(router, "GET", "/products", "")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
	})

	t.Run("scopes the key to the authenticated user", func(t *testing.T) {
		gin.SetMode(gin.TestMode)

		var currentUser string
		router := gin.New()
		router.Use(func(c *gin.Context) {
			if currentUser != "" {
				c.Set(JWTUserIDKey, currentUser)
			}
			c.Next()
		})
		router.Use(RateLimit(NewRateLimiter(1, time.Minute)))
		router.GET("/orders", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		currentUser = "user1"
		assert.Equal(t, http.StatusOK, doRequest(router, "GET", "/orders", "").Code)
		assert.Equal(t, http.StatusTooManyRequests, doRequest(router, "GET", "/orders", "").Code)

		currentUser = "user2"
		assert.Equal(t, http.StatusOK, doRequest(router, "GET", "/orders", "").Code)
	})
}

func TestRateLimitByKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	keyFunc := func(c *gin.Context) string {
		return c.GetHeader("X-User-ID")
	}
	router := limitedRouter(RateLimitByKey(NewRateLimiter(1, time.Minute), keyFunc), "GET", "/reviews")

	request := func(userID string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/reviews", nil)
		req.Header.Set("X-User-ID", userID)
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, request("user1").Code)
	assert.Equal(t, http.StatusTooManyRequests, request("user1").Code)
	assert.Equal(t, http.StatusOK, request("user2").Code)
}

func TestAuthRateLimit(t *testing.T) {
	const loginIP = "192.168.1.100:12345"

	t.Run("passes attempts within limit", func(t *testing.T) {
		router := limitedRouter(AuthRateLimit(NewRateLimiter(5, time.Minute)), "POST", "/login")

		for i := 0; i < 5; i++ {
			w := doRequest(router, "POST", "/login", loginIP)
			assert.Equal(t, http.StatusOK, w.Code, "attempt %d should be allowed", i+1)
		}
	})

	t.Run("rejects with auth-specific error code", func(t *testing.T) {
		router := limitedRouter(AuthRateLimit(NewRateLimiter(3, time.Minute)), "POST", "/login")

		for i := 0; i < 3; i++ {
			assert.Equal(t, http.StatusOK, doRequest(router, "POST", "/login", loginIP).Code)
		}

		w := doRequest(router, "POST", "/login", loginIP)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "AUTH_RATE_LIMIT_EXCEEDED")
		assert.Contains(t, w.Body.String(), "Too many authentication attempts")
	})

	t.Run("sets rate limit headers", func(t *testing.T) {
		router := limitedRouter(AuthRateLimit(NewRateLimiter(5, time.Minute)), "POST", "/login")

		w := doRequest(router, "POST", "/login", loginIP)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("sets Retry-After when blocked", func(t *testing.T) {
		router := limitedRouter(AuthRateLimit(NewRateLimiter(1, time.Minute)), "POST", "/login")

		doRequest(router, "POST", "/login", loginIP)

		w := doRequest(router, "POST", "/login", loginIP)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "60", w.Header().Get("Retry-After"))
	})

	t.Run("limits per source IP", func(t *testing.T) {
		router := limitedRouter(AuthRateLimit(NewRateLimiter(2, time.Minute)), "POST", "/login")

		for i := 0; i < 2; i++ {
			assert.Equal(t, http.StatusOK, doRequest(router, "POST", "/login", "192.168.1.1:12345").Code)
		}
		assert.Equal(t, http.StatusTooManyRequests, doRequest(router, "POST", "/login", "192.168.1.1:12345").Code)

		assert.Equal(t, http.StatusOK, doRequest(router, "POST", "/login", "192.168.1.2:12345").Code)
	})

	t.Run("auth key prefix keeps limiters independent", func(t *testing.T) {
		gin.SetMode(gin.TestMode)

		router := gin.New()

		authGroup := router.Group("/auth")
		authGroup.Use(AuthRateLimit(NewRateLimiter(2, time.Minute)))
		authGroup.POST("/login", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		router.Use(RateLimit(NewRateLimiter(100, time.Minute)))
		router.GET("/api/products", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		for i := 0; i < 2; i++ {
			assert.Equal(t, http.StatusOK, doRequest(router, "POST", "/auth/login", loginIP).Code)
		}
		assert.Equal(t, http.StatusTooManyRequests, doRequest(router, "POST", "/auth/login", loginIP).Code)

		// The general API limiter still has budget for the same IP.
		assert.Equal(t, http.StatusOK, doRequest(router, "GET", "/api/products", loginIP).Code)
	})
}
