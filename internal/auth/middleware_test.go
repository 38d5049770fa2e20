package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Session(SessionConfig{Cookie: "sid", Issuer: "zymo", SigningKey: "secret", TTL: time.Hour}))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, SessionID(c)) })
	return r
}

func TestSessionMintsCookie(t *testing.T) {
	r := sessionRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.NotEmpty(t, w.Body.String())
}

func TestSessionReusesValidCookie(t *testing.T) {
	r := sessionRouter()
	tok, err := Issue("known-session", "zymo", "secret", time.Hour, time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: tok.Value})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "known-session", w.Body.String())
	assert.Empty(t, w.Result().Cookies())
}

func TestSessionReplacesForgedCookie(t *testing.T) {
	r := sessionRouter()
	tok, err := Issue("known-session", "zymo", "wrong", time.Hour, time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: tok.Value})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.NotEqual(t, "known-session", w.Body.String())
	assert.Len(t, w.Result().Cookies(), 1)
}
