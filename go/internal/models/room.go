package models

// RoomSummary is one joinable room from the open-rooms listing.
type RoomSummary struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	PlayerCount      int64  `json:"playerCount"`
	TimeLimitSeconds int    `json:"timeLimitSeconds"`
}
