package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newBodyLimitRouter(limit int64, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(BodyLimit(limit))
	router.POST("/upload", handler)
	return router
}

func TestBodyLimit(t *testing.T) {
	echo := func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	}

	t.Run("body under the limit passes", func(t *testing.T) {
		router := newBodyLimitRouter(1024, echo)

		req := httptest.NewRequest("POST", "/upload", strings.NewReader("small payload"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("declared length over the limit fails fast", func(t *testing.T) {
		router := newBodyLimitRouter(100, echo)

		req := httptest.NewRequest("POST", "/upload", strings.NewReader(strings.Repeat("x", 200)))
		req.ContentLength = 200
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "REQUEST_TOO_LARGE")
	})

	t.Run("bodyless GET is unaffected", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.Use(BodyLimit(10))
		router.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("streaming body is capped while reading", func(t *testing.T) {
		router := newBodyLimitRouter(50, func(c *gin.Context) {
			if _, err := io.ReadAll(c.Request.Body); err != nil {
				c.String(http.StatusBadRequest, "body too large")
				return
			}
			c.String(http.StatusOK, "ok")
		})

		// No declared length, so the fast path cannot catch it
		req := httptest.NewRequest("POST", "/upload", strings.NewReader(strings.Repeat("x", 100)))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
