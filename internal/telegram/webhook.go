package telegram

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"moexbot/internal/logger"
)

// WebhookHandler receives Bot API updates over HTTPS instead of polling.
// The route embeds the bot token, which is how Telegram authenticates
// its calls.
type WebhookHandler struct {
	client     *Client
	dispatcher *Dispatcher
	log        *zap.SugaredLogger
}

// NewWebhookHandler creates the webhook transport.
func NewWebhookHandler(client *Client, dispatcher *Dispatcher) *WebhookHandler {
	return &WebhookHandler{
		client:     client,
		dispatcher: dispatcher,
		log:        logger.Named("webhook"),
	}
}

// RegisterRoutes mounts the update endpoint on the router.
func (h *WebhookHandler) RegisterRoutes(router *gin.Engine, token string) {
	router.POST("/webhook/"+token, h.handleUpdate)
}

// handleUpdate acknowledges every well-formed update immediately; the
// dispatcher processes it asynchronously so Telegram never waits on the
// engine.
func (h *WebhookHandler) handleUpdate(c *gin.Context) {
	var update Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.log.Warnw("malformed update rejected", "error", err)
		c.Status(http.StatusBadRequest)
		return
	}

	ev, callbackID, usable := eventFrom(update)
	if usable {
		if callbackID != "" {
			if err := h.client.AnswerCallbackQuery(c.Request.Context(), callbackID); err != nil {
				h.log.Warnw("callback ack failed", "chat_id", ev.ChatID, "error", err)
			}
		}
		h.dispatcher.Enqueue(ev)
	}
	c.Status(http.StatusOK)
}

// Register points the Bot API at the public URL.
func (h *WebhookHandler) Register(ctx context.Context, publicURL, token string) error {
	return h.client.SetWebhook(ctx, publicURL+"/webhook/"+token)
}
