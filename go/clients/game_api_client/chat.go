package game_api_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/huseyinTozluyurt/boardgame-client/go/internal/models"
)

type chatSendRequest struct {
	UserID int64  `json:"userId"`
	Text   string `json:"text"`
}

// FetchChatDelta reads chat messages for one room. With afterID zero the
// backend returns a bounded window of the most recent messages; otherwise
// only messages with a larger id, ascending.
func (c *GameApiClient) FetchChatDelta(ctx context.Context, roomID, afterID int64) ([]models.ChatMessage, error) {
	endpoint := fmt.Sprintf("%s/%d/chat", GamesEndpoint, roomID)
	if afterID > 0 {
		endpoint = fmt.Sprintf("%s?afterId=%d", endpoint, afterID)
	}

	body, err := c.Get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var msgs []models.ChatMessage
	if err := json.Unmarshal(body, &msgs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chat messages: %w, raw response: %s", err, string(body))
	}

	return msgs, nil
}

// SendChat posts one message and returns it with its server-assigned id.
func (c *GameApiClient) SendChat(ctx context.Context, roomID, userID int64, text string) (*models.ChatMessage, error) {
	payload, err := json.Marshal(chatSendRequest{UserID: userID, Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	body, err := c.Post(ctx, fmt.Sprintf("%s/%d/chat", GamesEndpoint, roomID), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	var msg models.ChatMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sent chat message: %w, raw response: %s", err, string(body))
	}

	return &msg, nil
}
