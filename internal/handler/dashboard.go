package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"filechat-lite/internal/middleware"
	"filechat-lite/internal/session"
	"filechat-lite/internal/store"
)

const (
	tabFiles    = "files"
	tabMessages = "messages"
)

// DashboardHandler serves the combined view: the signed in identity plus the
// listing for the selected tab.
type DashboardHandler struct {
	Files    *store.FileStore
	Messages *MessageHandler
}

func (h *DashboardHandler) Show(c *gin.Context) {
	id, _ := middleware.IdentityFromContext(c)

	tab := c.DefaultQuery("tab", tabFiles)
	switch tab {
	case tabFiles:
		c.JSON(http.StatusOK, gin.H{
			"identity": id,
			"tab":      tab,
			"files":    fileViews(h.Files.List()),
		})
	case tabMessages:
		payload := messagesPayload(h.Messages.Messages.List(), h.Messages.now().In(clientLocation(c)))
		payload["identity"] = id
		payload["tab"] = tab
		c.JSON(http.StatusOK, payload)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown tab"})
	}
}

type LandingHandler struct {
	Sessions *session.Store
	Logger   *zap.Logger
}

func (h *LandingHandler) Index(c *gin.Context) {
	_, authenticated := h.Sessions.Current()
	c.JSON(http.StatusOK, gin.H{"service": "filechat-lite", "authenticated": authenticated})
}

func (h *LandingHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// NotFound answers unmatched routes and records the attempt.
func (h *LandingHandler) NotFound(c *gin.Context) {
	logger(h.Logger).Warn("route not found", zap.String("method", c.Request.Method), zap.String("path", c.Request.URL.Path))
	c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "path": c.Request.URL.Path})
}
