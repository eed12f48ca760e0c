package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const defaultTelegramAPI = "https://api.telegram.org"

// Telegram sends messages through the Bot API's sendMessage method with
// Markdown parsing, matching how the chat is formatted downstream.
type Telegram struct {
	hc      *http.Client
	log     *zap.Logger
	baseURL string
	token   string
	chatID  string
}

func NewTelegram(token, chatID string, log *zap.Logger) *Telegram {
	return &Telegram{
		hc:      &http.Client{Timeout: 30 * time.Second},
		log:     log,
		baseURL: defaultTelegramAPI,
		token:   token,
		chatID:  chatID,
	}
}

// WithBaseURL points the client at an alternate API host. Test hook.
func (t *Telegram) WithBaseURL(u string) *Telegram {
	t.baseURL = u
	return t
}

func (t *Telegram) Send(ctx context.Context, message string) error {
	return t.sendMessage(ctx, message)
}

func (t *Telegram) SendError(ctx context.Context, message string) error {
	return t.sendMessage(ctx, fmt.Sprintf("❌ *Padel Monitor Error*\n\n```\n%s\n```", message))
}

func (t *Telegram) sendMessage(ctx context.Context, text string) error {
	if t.token == "" || t.chatID == "" {
		return errors.New("telegram bot token or chat id not configured")
	}

	payload, err := json.Marshal(map[string]string{
		"chat_id":    t.chatID,
		"text":       text,
		"parse_mode": "Markdown",
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.hc.Do(req)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("telegram send http %d: %s", resp.StatusCode, body)
	}
	t.log.Debug("telegram message sent", zap.String("chat_id", t.chatID))
	return nil
}
