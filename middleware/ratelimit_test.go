package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestLoginRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/signin", LoginRateLimit(3, time.Minute), func(c *gin.Context) {
		c.String(200, "ok")
	})

	hit := func() int {
		req := httptest.NewRequest("POST", "/signin", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	// 窗口内前 3 次放行
	assert.Equal(t, 200, hit())
	assert.Equal(t, 200, hit())
	assert.Equal(t, 200, hit())
	// 第 4 次限流
	assert.Equal(t, http.StatusTooManyRequests, hit())
}

func TestLoginRateLimit_PerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/signin", LoginRateLimit(1, time.Minute), func(c *gin.Context) {
		c.String(200, "ok")
	})

	hit := func(addr string) int {
		req := httptest.NewRequest("POST", "/signin", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	// 不同 IP 各自计数
	assert.Equal(t, 200, hit("10.0.0.1:1000"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1:1000"))
	assert.Equal(t, 200, hit("10.0.0.2:1000"))
}

func TestLoginRateLimit_WindowExpires(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/signin", LoginRateLimit(1, 50*time.Millisecond), func(c *gin.Context) {
		c.String(200, "ok")
	})

	hit := func() int {
		req := httptest.NewRequest("POST", "/signin", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, 200, hit())
	assert.Equal(t, http.StatusTooManyRequests, hit())

	// 窗口滑过后恢复
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 200, hit())
}
