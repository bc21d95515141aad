package telegram

import (
	"context"
	"time"

	"go.uber.org/zap"

	"moexbot/internal/dialog"
	"moexbot/internal/logger"
)

const (
	longPollSeconds = 30
	pollRetryDelay  = 3 * time.Second
)

// Poller pulls updates from the Bot API and feeds the dispatcher. It is
// the transport for deployments without a public HTTPS endpoint.
type Poller struct {
	client     *Client
	dispatcher *Dispatcher
	log        *zap.SugaredLogger
}

// NewPoller creates a long-poll transport.
func NewPoller(client *Client, dispatcher *Dispatcher) *Poller {
	return &Poller{
		client:     client,
		dispatcher: dispatcher,
		log:        logger.Named("poller"),
	}
}

// Run long-polls until ctx is cancelled. Transient API failures are
// retried after a short delay.
func (p *Poller) Run(ctx context.Context) error {
	p.log.Infow("long polling started")
	var offset int64
	for {
		updates, err := p.client.GetUpdates(ctx, offset, longPollSeconds)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.log.Warnw("poll failed, retrying", "error", err)
			select {
			case <-time.After(pollRetryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			ev, callbackID, usable := eventFrom(update)
			if !usable {
				continue
			}
			if callbackID != "" {
				if err := p.client.AnswerCallbackQuery(ctx, callbackID); err != nil {
					p.log.Warnw("callback ack failed", "chat_id", ev.ChatID, "error", err)
				}
			}
			p.dispatcher.Enqueue(ev)
		}
	}
}

// eventFrom maps a Bot API update to a dialog event. Updates without a
// chat or without usable content are dropped.
func eventFrom(update Update) (ev dialog.Event, callbackID string, usable bool) {
	switch {
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		cb := update.CallbackQuery
		return dialog.Event{ChatID: cb.Message.Chat.ID, Callback: cb.Data}, cb.ID, true
	case update.Message != nil && update.Message.Text != "":
		return dialog.Event{ChatID: update.Message.Chat.ID, Text: normalizeCommand(update.Message.Text)}, "", true
	}
	return dialog.Event{}, "", false
}

// normalizeCommand strips the slash off /start so the trigger matches
// both the command and the plain word.
func normalizeCommand(text string) string {
	if text == "/start" {
		return dialog.TriggerStart
	}
	return text
}
