package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"filechat-lite/internal/hub"
	"filechat-lite/internal/middleware"
	"filechat-lite/internal/model"
	"filechat-lite/internal/store"
	"filechat-lite/internal/view"
)

type MessageHandler struct {
	Messages *store.MessageStore
	Hub      *hub.Hub
	Logger   *zap.Logger
	Now      func() time.Time
}

type sendMessageBody struct {
	Text string `json:"text"`
}

type messageView struct {
	model.MessageRecord
	Time string `json:"time"`
}

type dayGroupView struct {
	Label    string        `json:"label"`
	Messages []messageView `json:"messages"`
}

func (h *MessageHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *MessageHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, messagesPayload(h.Messages.List(), h.now().In(clientLocation(c))))
}

func messagesPayload(msgs []model.MessageRecord, now time.Time) gin.H {
	loc := now.Location()
	flat := make([]messageView, 0, len(msgs))
	for _, m := range msgs {
		flat = append(flat, messageView{MessageRecord: m, Time: view.FormatTime(m.Timestamp, loc)})
	}

	groups := view.GroupByDay(msgs, now)
	out := make([]dayGroupView, 0, len(groups))
	for _, g := range groups {
		gv := dayGroupView{Label: g.Label, Messages: make([]messageView, 0, len(g.Messages))}
		for _, m := range g.Messages {
			gv.Messages = append(gv.Messages, messageView{MessageRecord: m, Time: view.FormatTime(m.Timestamp, loc)})
		}
		out = append(out, gv)
	}
	return gin.H{"messages": flat, "groups": out}
}

// Send posts text under the current identity's username.
func (h *MessageHandler) Send(c *gin.Context) {
	id, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You must be logged in to send messages"})
		return
	}

	var body sendMessageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if body.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message cannot be empty"})
		return
	}

	ctx := c.Request.Context()
	msg, err := h.Messages.Send(ctx, body.Text, id.Username).Wait(ctx)
	if err != nil {
		return
	}
	logger(h.Logger).Info("message sent", zap.String("id", msg.ID), zap.String("sender", msg.Sender))

	publish(h.Hub, hub.StoreMessages)
	c.JSON(http.StatusCreated, gin.H{"message": messageView{
		MessageRecord: msg,
		Time:          view.FormatTime(msg.Timestamp, clientLocation(c)),
	}})
}

func (h *MessageHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.Messages.Delete(ctx, c.Param("id")).Wait(ctx); err != nil {
		return
	}
	publish(h.Hub, hub.StoreMessages)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
