package httpmiddleware

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

func limitedRouter(l *TokenBucket) *gin.Engine {
	r := gin.New()
	r.Use(l.GinMiddleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func hit(r http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = ip + ":1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTokenBucketLimitsPerClient(t *testing.T) {
	now := time.Unix(1700000000, 0)
	l := NewTokenBucket(2, 60)
	l.now = func() time.Time { return now }
	r := limitedRouter(l)

	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1").Code)

	w := hit(r, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.2").Code)

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1").Code)
}

func TestTokenBucketForgetsIdleClients(t *testing.T) {
	now := time.Unix(1700000000, 0)
	l := NewTokenBucket(5, 60)
	l.now = func() time.Time { return now }
	r := limitedRouter(l)

	hit(r, "10.0.0.1")
	hit(r, "10.0.0.2")
	assert.Equal(t, 2, l.size())

	now = now.Add(time.Hour)
	hit(r, "10.0.0.3")
	assert.Equal(t, 1, l.size())
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders(true))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))
}
