// Package telegram sends fallback hydration reminders through the Telegram
// Bot API.
package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// Client sends reminder messages to Telegram chats via a bot.
type Client struct {
	token  string
	client *http.Client
}

// NewClient creates a Telegram client with the given bot token.
func NewClient(token string) *Client {
	return &Client{
		token:  token,
		client: &http.Client{},
	}
}

// sendMessageRequest is the payload for the Telegram sendMessage API.
type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// Send delivers one reminder message to the given chat id. It returns an
// error if the request fails or the API answers with a non-200 status.
func (c *Client) Send(to string, msg string) error {
	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", c.token)

	reqBody := sendMessageRequest{
		ChatID: to,
		Text:   msg,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.client.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API error: %s", resp.Status)
	}

	return nil
}
