package models

// RewardArtifact is the prize card the server applies after a correct
// answer. It is ephemeral: shown until the player dismisses it or the turn
// moves on.
type RewardArtifact struct {
	Code         string `json:"code"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	TargetUserID *int64 `json:"targetUserId,omitempty"`
}
