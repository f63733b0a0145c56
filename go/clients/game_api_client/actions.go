package game_api_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/huseyinTozluyurt/boardgame-client/go/internal/models"
)

type answerRequest struct {
	UserID int64  `json:"userId"`
	Answer string `json:"answer"`
}

type timeoutRequest struct {
	UserID int64 `json:"userId"`
}

type answerResponse struct {
	Correct     bool                   `json:"correct"`
	AppliedCard *models.RewardArtifact `json:"appliedCard"`
	State       json.RawMessage        `json:"state"`
}

// AnswerResult is the outcome of one answer submission: the refreshed
// snapshot plus, when the answer was correct, the prize card the server
// applied.
type AnswerResult struct {
	Correct     bool
	AppliedCard *models.RewardArtifact
	Snapshot    *models.GameSnapshot
}

// SubmitAnswer sends the active player's answer and returns the refreshed
// state the server bundles with the verdict.
func (c *GameApiClient) SubmitAnswer(ctx context.Context, roomID, userID int64, answer string) (*AnswerResult, error) {
	payload, err := json.Marshal(answerRequest{UserID: userID, Answer: answer})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal answer request: %w", err)
	}

	body, err := c.Post(ctx, fmt.Sprintf("%s/%d/answer", GamesEndpoint, roomID), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	var resp answerResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal answer response: %w, raw response: %s", err, string(body))
	}

	result := &AnswerResult{Correct: resp.Correct, AppliedCard: resp.AppliedCard}

	raw := resp.State
	if len(raw) == 0 {
		raw = body
	}
	snap, err := decodeSnapshot(raw)
	if err != nil {
		return nil, err
	}
	result.Snapshot = snap

	return result, nil
}

// SubmitTimeout tells the server the caller's turn timer expired. The
// resulting turn change is observed through the next poll cycle, not
// through this response.
func (c *GameApiClient) SubmitTimeout(ctx context.Context, roomID, userID int64) error {
	payload, err := json.Marshal(timeoutRequest{UserID: userID})
	if err != nil {
		return fmt.Errorf("failed to marshal timeout request: %w", err)
	}

	_, err = c.Post(ctx, fmt.Sprintf("%s/%d/timeout", GamesEndpoint, roomID), bytes.NewReader(payload))
	return err
}

// LeaveRoom removes the caller from the room. Best effort: callers proceed
// with local cleanup regardless of the outcome.
func (c *GameApiClient) LeaveRoom(ctx context.Context, roomID, userID int64) error {
	_, err := c.Post(ctx, fmt.Sprintf("%s/%d/leave?userId=%d", GamesEndpoint, roomID, userID), nil)
	return err
}
