package game_api_client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huseyinTozluyurt/boardgame-client/go/internal/models"
)

// JoinResult is the acknowledgement for joining a room.
type JoinResult struct {
	GameID           int64  `json:"gameId"`
	RoomName         string `json:"roomName"`
	PlayerID         int64  `json:"playerId"`
	Players          int64  `json:"players"`
	TimeLimitSeconds int    `json:"timeLimitSeconds"`
	CurrentTurnSlot  int    `json:"currentTurnSlot"`
	TurnEndsAt       int64  `json:"turnEndsAt"`
}

// ListOpenRooms returns rooms that still have a free slot.
func (c *GameApiClient) ListOpenRooms(ctx context.Context) ([]models.RoomSummary, error) {
	body, err := c.Get(ctx, GamesEndpoint+"/open")
	if err != nil {
		return nil, err
	}

	var rooms []models.RoomSummary
	if err := json.Unmarshal(body, &rooms); err != nil {
		return nil, fmt.Errorf("failed to unmarshal open rooms: %w, raw response: %s", err, string(body))
	}

	return rooms, nil
}

// JoinRoom seats the user in the room's next free slot.
func (c *GameApiClient) JoinRoom(ctx context.Context, roomID, userID int64) (*JoinResult, error) {
	body, err := c.Post(ctx, fmt.Sprintf("%s/%d/join?userId=%d", GamesEndpoint, roomID, userID), nil)
	if err != nil {
		return nil, err
	}

	var result JoinResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal join response: %w, raw response: %s", err, string(body))
	}

	return &result, nil
}
