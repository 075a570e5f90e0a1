package api

import (
	"bytes"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"expensetracker/config"
	"expensetracker/middleware"
	"expensetracker/store"

	"github.com/gin-gonic/gin"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	middleware.InitJWT(testConfig())
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:     "test-secret",
			ExpireTime: time.Hour,
		},
	}
}

// setSessionMiddleware 直接向请求上下文注入会话身份，绕过 JWT 校验
func setSessionMiddleware(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("email", userID+"@example.com")
		c.Set("name", "Tester")
		c.Next()
	}
}

func newTestStore() *store.ExpenseStore {
	return store.New(store.NewMemoryBlobs())
}

func performRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func performAuthedRequest(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
