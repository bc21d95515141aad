// Package telegram is the Bot API transport: a thin HTTP client plus the
// polling and webhook adapters that feed the dialog engine.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"moexbot/internal/apperrors"
	"moexbot/internal/logger"
)

const apiBaseURL = "https://api.telegram.org"

// Update is one inbound Bot API update. Only the fields the bot consumes
// are decoded.
type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message"`
	CallbackQuery *CallbackQuery `json:"callback_query"`
}

// Message is an inbound or referenced chat message.
type Message struct {
	Chat Chat   `json:"chat"`
	Text string `json:"text"`
}

// Chat identifies the conversation; private chats share the user's id.
type Chat struct {
	ID int64 `json:"id"`
}

// CallbackQuery is an inline button press.
type CallbackQuery struct {
	ID      string   `json:"id"`
	Data    string   `json:"data"`
	Message *Message `json:"message"`
}

type apiResponse struct {
	Ok          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

// Client is a minimal Bot API client covering the calls the bot makes.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	log        *zap.SugaredLogger
}

// NewClient creates a Bot API client. An empty baseURL selects the
// public endpoint; tests point it at a local server.
func NewClient(httpClient *http.Client, token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = apiBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		token:      token,
		log:        logger.Named("telegram"),
	}
}

// SendMessage sends text to a chat. markup may be nil, a reply keyboard
// or an inline keyboard.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, markup any) error {
	payload := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	if markup != nil {
		payload["reply_markup"] = markup
	}
	return c.call(ctx, "sendMessage", payload, nil)
}

// AnswerCallbackQuery acknowledges a button press so the client stops
// showing its progress indicator.
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID string) error {
	return c.call(ctx, "answerCallbackQuery", map[string]any{"callback_query_id": callbackID}, nil)
}

// GetUpdates long-polls for updates after offset. timeout is the server
// side hold in seconds.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout int) ([]Update, error) {
	payload := map[string]any{
		"offset":          offset,
		"timeout":         timeout,
		"allowed_updates": []string{"message", "callback_query"},
	}
	var updates []Update
	if err := c.call(ctx, "getUpdates", payload, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// SetWebhook registers the public callback URL with the Bot API. An
// empty URL removes the webhook.
func (c *Client) SetWebhook(ctx context.Context, url string) error {
	if url == "" {
		return c.call(ctx, "deleteWebhook", map[string]any{}, nil)
	}
	return c.call(ctx, "setWebhook", map[string]any{"url": url}, nil)
}

// call posts one Bot API method and decodes its result into out when
// out is non-nil.
func (c *Client) call(ctx context.Context, method string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, err)
	}
	if !parsed.Ok {
		c.log.Warnw("bot api call rejected", "method", method, "status", resp.StatusCode, "description", parsed.Description)
		return apperrors.WithMessage(apperrors.ErrInternal, fmt.Sprintf("bot api %s: %s", method, parsed.Description))
	}
	if out != nil {
		if err := json.Unmarshal(parsed.Result, out); err != nil {
			return apperrors.Wrap(apperrors.ErrInternal, err)
		}
	}
	return nil
}
