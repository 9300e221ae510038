package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/firstchoicebank/corebank/config"
)

func testRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pong": true})
	})
	return r
}

func TestSecretKeyAuthMiddleware(t *testing.T) {
	cnf := &config.Configuration{}
	cnf.Server.SecretKey = "s3cret"
	config.MockConfig(cnf)

	router := testRouter(SecretKeyAuthMiddleware())

	tests := []struct {
		name     string
		key      string
		expected int
	}{
		{"valid key", "s3cret", http.StatusOK},
		{"wrong key", "nope", http.StatusUnauthorized},
		{"missing key", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/ping", nil)
			if tt.key != "" {
				req.Header.Set(KeyHeader, tt.key)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			assert.Equal(t, tt.expected, resp.Code)
		})
	}
}

func TestSecretKeyAuthMiddleware_Unconfigured(t *testing.T) {
	config.MockConfig(&config.Configuration{})

	router := testRouter(SecretKeyAuthMiddleware())
	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(KeyHeader, "anything")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestRateLimitMiddleware_DisabledPassesThrough(t *testing.T) {
	cnf := &config.Configuration{}
	config.MockConfig(cnf)

	router := testRouter(RateLimitMiddleware(cnf))
	req := httptest.NewRequest("GET", "/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestRateLimitMiddleware_Limits(t *testing.T) {
	rps := 1.0
	burst := 1
	cnf := &config.Configuration{}
	cnf.RateLimit.RequestsPerSecond = &rps
	cnf.RateLimit.Burst = &burst
	config.MockConfig(cnf)

	router := testRouter(RateLimitMiddleware(cnf))

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest("GET", "/ping", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest("GET", "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
