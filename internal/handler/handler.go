// Package handler implements the JSON API on top of the session, file and
// message stores. Mutating handlers wait for the store's completion before
// responding and then announce the change on the hub.
package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"filechat-lite/internal/hub"
)

func logger(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

func publish(h *hub.Hub, store string) {
	if h != nil {
		h.Publish(store)
	}
}

// clientLocation resolves the optional tz query parameter, falling back to
// the server's local zone.
func clientLocation(c *gin.Context) *time.Location {
	if name := c.Query("tz"); name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return time.Local
}
