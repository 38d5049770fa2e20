package handler

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"zymo/internal/auth"
	"zymo/internal/blog"
	"zymo/internal/cache"
	"zymo/internal/logging"
	"zymo/internal/meta"
	"zymo/internal/metrics"
)

const flashBlogNotFound = "Blog not found"

type blogView struct {
	Page   meta.Page
	Record blog.Record
	Body   template.HTML
}

type blogsView struct {
	Page   meta.Page
	Flash  string
	Titles []string
}

func (h *Handler) resolveBlog(c *gin.Context) (blog.Record, error) {
	sid := auth.SessionID(c)
	rec, err := blog.Resolver{}.Resolve(c.Request.Context(), h.cache.For(cache.Local, sid), h.cache.For(cache.Session, sid))
	switch {
	case err == nil:
		metrics.BlogLookups.WithLabelValues(metrics.LookupHit).Inc()
	case errors.Is(err, blog.ErrNotFound):
		metrics.BlogLookups.WithLabelValues(metrics.LookupMiss).Inc()
	default:
		metrics.BlogLookups.WithLabelValues(metrics.LookupError).Inc()
		h.logger.Error().Err(err).Str(logging.SESSION, sid).Msg("blog lookup failed")
	}
	return rec, err
}

// showBlog renders the selected record. A miss leaves a toast for the
// listing and redirects there; nothing of the detail page is rendered.
func (h *Handler) showBlog(c *gin.Context) {
	rec, err := h.resolveBlog(c)
	if errors.Is(err, blog.ErrNotFound) {
		sid := auth.SessionID(c)
		if err := h.cache.Set(c.Request.Context(), cache.Session, sid, cache.KeyFlash, flashBlogNotFound); err != nil {
			h.logger.Warn().Err(err).Str(logging.SESSION, sid).Msg("store flash failed")
		}
		c.Redirect(http.StatusSeeOther, "/blogs")
		return
	}
	if err != nil {
		h.errorPage(c, http.StatusInternalServerError, "We could not load this blog. Please try again.")
		return
	}
	c.HTML(http.StatusOK, "blog.tmpl", blogView{
		Page:   h.pages.BlogDetail(rec),
		Record: rec,
		Body:   blog.Render(rec.Description),
	})
}

func (h *Handler) selectedBlogJSON(c *gin.Context) {
	rec, err := h.resolveBlog(c)
	if errors.Is(err, blog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "blog not found", "redirect": "/blogs"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"title":       rec.Title,
		"cover":       rec.Cover,
		"description": string(blog.Render(rec.Description)),
		"meta":        h.pages.BlogDetail(rec),
	})
}

// listBlogs shows the cached titles and consumes any pending toast.
func (h *Handler) listBlogs(c *gin.Context) {
	ctx := c.Request.Context()
	sid := auth.SessionID(c)

	view := blogsView{Page: h.pages.Blogs()}
	if flash, ok, err := h.cache.Take(ctx, cache.Session, sid, cache.KeyFlash); err != nil {
		h.logger.Warn().Err(err).Str(logging.SESSION, sid).Msg("read flash failed")
	} else if ok {
		view.Flash = flash
	}

	if raw, ok, err := h.cache.Get(ctx, cache.Session, sid, cache.KeyBlogs); err != nil {
		h.logger.Warn().Err(err).Str(logging.SESSION, sid).Msg("read blogs failed")
	} else if ok {
		var records []blog.Record
		if err := json.Unmarshal([]byte(raw), &records); err == nil {
			for _, r := range records {
				view.Titles = append(view.Titles, r.Title)
			}
		}
	}
	c.HTML(http.StatusOK, "blogs.tmpl", view)
}

func (h *Handler) selectBlog(c *gin.Context) {
	title := c.PostForm("title")
	if strings.TrimSpace(title) == "" {
		c.Redirect(http.StatusSeeOther, "/blogs")
		return
	}
	sid := auth.SessionID(c)
	if err := h.cache.For(cache.Local, sid).Store(c.Request.Context(), cache.KeySelectedBlogTitle, title); err != nil {
		h.logger.Error().Err(err).Str(logging.SESSION, sid).Msg("store selected title failed")
		h.errorPage(c, http.StatusInternalServerError, "We could not open this blog. Please try again.")
		return
	}
	c.Redirect(http.StatusSeeOther, "/blog")
}

func (h *Handler) seedBlogs(c *gin.Context) {
	var records []blog.Record
	if err := c.ShouldBindJSON(&records); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected a JSON array of blogs"})
		return
	}
	for _, r := range records {
		if r.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "every blog needs a title"})
			return
		}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "encode failed"})
		return
	}
	sid := auth.SessionID(c)
	if err := h.cache.For(cache.Session, sid).Store(c.Request.Context(), cache.KeyBlogs, string(raw)); err != nil {
		h.logger.Error().Err(err).Str(logging.SESSION, sid).Msg("store blogs failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "cache unavailable"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) seedSelectedBlog(c *gin.Context) {
	var req struct {
		Title string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sid := auth.SessionID(c)
	if err := h.cache.For(cache.Local, sid).Store(c.Request.Context(), cache.KeySelectedBlogTitle, req.Title); err != nil {
		h.logger.Error().Err(err).Str(logging.SESSION, sid).Msg("store selected title failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "cache unavailable"})
		return
	}
	c.Status(http.StatusNoContent)
}
