package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"zymo/internal/logging"
	"zymo/internal/storage"
)

// serveFile streams a locally stored object with the content type and
// disposition it was uploaded with.
func (h *Handler) serveFile(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	rc, md, err := h.files.Open(key)
	if errors.Is(err, storage.ErrNotFound) {
		c.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str(logging.KEY, key).Msg("open object failed")
		c.Status(http.StatusInternalServerError)
		return
	}
	defer rc.Close()

	contentType := md.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	extra := map[string]string{}
	if md.ContentDisposition != "" {
		extra["Content-Disposition"] = md.ContentDisposition
	}
	c.DataFromReader(http.StatusOK, -1, contentType, rc, extra)
}
