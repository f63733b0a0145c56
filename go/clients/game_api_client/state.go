package game_api_client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huseyinTozluyurt/boardgame-client/go/internal/models"
)

type stateEnvelope struct {
	State json.RawMessage `json:"state"`
}

// FetchSnapshot reads the authoritative game state for one room.
func (c *GameApiClient) FetchSnapshot(ctx context.Context, roomID int64) (*models.GameSnapshot, error) {
	body, err := c.Get(ctx, fmt.Sprintf("%s/%d/state", GamesEndpoint, roomID))
	if err != nil {
		return nil, err
	}

	return decodeSnapshot(body)
}

// decodeSnapshot tolerates both a bare snapshot and the {state: ...}
// envelope some controllers wrap it in.
func decodeSnapshot(body []byte) (*models.GameSnapshot, error) {
	var env stateEnvelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.State) > 0 {
		body = env.State
	}

	var snap models.GameSnapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game state: %w, raw response: %s", err, string(body))
	}

	return &snap, nil
}
