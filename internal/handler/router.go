package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"zymo/internal/auth"
	"zymo/internal/httpmiddleware"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) bool

// RouterConfig configures the engine and its middleware.
type RouterConfig struct {
	Session         auth.SessionConfig
	AllowedOrigins  []string
	RateLimitPerMin int
	HSTS            bool
	Health          map[string]HealthCheck
}

// NewRouter builds the gin engine with the shared middleware, the
// operational endpoints and the handler's routes.
func NewRouter(cfg RouterConfig, h *Handler) (*gin.Engine, error) {
	tmpl, err := Templates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(httpmiddleware.CORS(cfg.AllowedOrigins))
	r.Use(httpmiddleware.SecurityHeaders(cfg.HSTS))
	if cfg.RateLimitPerMin > 0 {
		r.Use(httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).GinMiddleware())
	}
	r.SetHTMLTemplate(tmpl)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", healthz(cfg.Health))

	site := r.Group("/", auth.Session(cfg.Session))
	h.Register(site)
	return r, nil
}

func healthz(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		body := gin.H{"status": "ok"}
		status := http.StatusOK
		for name, check := range checks {
			ok := check(ctx)
			body[name] = ok
			if !ok {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
			}
		}
		c.JSON(status, body)
	}
}
