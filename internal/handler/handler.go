// Package handler exposes the blog detail and career screens over HTTP.
package handler

import (
	"context"
	"embed"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"zymo/internal/cache"
	"zymo/internal/career"
	"zymo/internal/logging"
	"zymo/internal/meta"
	"zymo/internal/storage"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Submitter runs a career application submission.
type Submitter interface {
	Submit(ctx context.Context, form career.Form) (career.Application, error)
}

// FileOpener serves stored objects.
type FileOpener interface {
	Open(key string) (io.ReadCloser, storage.Metadata, error)
}

// Handler serves the HTML screens and their JSON twins.
type Handler struct {
	cache          *cache.Cache
	careers        Submitter
	tracker        *career.Tracker
	pages          *meta.Catalog
	files          FileOpener
	submitTimeout  time.Duration
	maxUploadBytes int64
	logger         zerolog.Logger
}

// Options tune request handling.
type Options struct {
	SubmitTimeout  time.Duration
	MaxUploadBytes int64
	// Files serves /files/*key when set.
	Files FileOpener
}

// New creates a handler.
func New(c *cache.Cache, careers Submitter, tracker *career.Tracker, pages *meta.Catalog, opts Options) *Handler {
	if opts.SubmitTimeout <= 0 {
		opts.SubmitTimeout = 30 * time.Second
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	return &Handler{
		cache:          c,
		careers:        careers,
		tracker:        tracker,
		pages:          pages,
		files:          opts.Files,
		submitTimeout:  opts.SubmitTimeout,
		maxUploadBytes: opts.MaxUploadBytes,
		logger:         logging.PackageLogger("handler"),
	}
}

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(templateFS, "templates/*.tmpl")
}

// Register mounts the routes on r. The session middleware must already be
// installed on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/blogs") })

	r.GET("/blogs", h.listBlogs)
	r.POST("/blogs/select", h.selectBlog)
	r.GET("/blog", h.showBlog)

	r.GET("/career", h.showCareer)
	r.POST("/career", h.submitCareer)

	if h.files != nil {
		r.GET("/files/*key", h.serveFile)
	}

	v1 := r.Group("/v1")
	v1.GET("/blogs/selected", h.selectedBlogJSON)
	v1.PUT("/session/blogs", h.seedBlogs)
	v1.PUT("/session/selected-blog", h.seedSelectedBlog)
	v1.POST("/applications", h.submitApplicationJSON)
}

func (h *Handler) errorPage(c *gin.Context, status int, msg string) {
	c.HTML(status, "error.tmpl", gin.H{
		"Page":    meta.Page{Title: "Zymo"},
		"Message": msg,
	})
}
