package models

import "strings"

// GameStatus is the authoritative lifecycle state of a room.
type GameStatus string

const (
	GameStatusActive     GameStatus = "ACTIVE"
	GameStatusInProgress GameStatus = "IN_PROGRESS"
	GameStatusFinished   GameStatus = "FINISHED"
)

// Player is one seated participant as reported by the state endpoint.
// Slots are 1-based and at most four per room.
type Player struct {
	Slot     int    `json:"slot"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Position int    `json:"position"`
}

// Question is the prompt shown to the active player.
type Question struct {
	ID       int64  `json:"id"`
	Content  string `json:"content"`
	HasImage bool   `json:"hasImage"`
}

// GameSnapshot is the authoritative, wholesale game state returned by one
// state read. It is replaced in full on every successful poll cycle and is
// never partially patched.
type GameSnapshot struct {
	RoomID           int64      `json:"gameId"`
	RoomName         string     `json:"roomName"`
	Status           GameStatus `json:"status"`
	ServerNow        int64      `json:"serverNow"`
	TurnEndsAt       int64      `json:"turnEndsAt"` // epoch millis, zero when no deadline
	ActiveSlot       int        `json:"activeSlot"`
	Question         *Question  `json:"question"`
	Players          []Player   `json:"players"`
	TimeLimitSeconds int        `json:"timeLimitSeconds"`
	WinnerUserID     *int64     `json:"winnerUserId"`
	WinnerUsername   string     `json:"winnerUsername"`
	FinishedAt       int64      `json:"finishedAt"`
}

// Finished reports whether the game reached its terminal state. Status
// comparison is case-insensitive because older backends reported it in
// mixed case.
func (s *GameSnapshot) Finished() bool {
	return s != nil && strings.EqualFold(string(s.Status), string(GameStatusFinished))
}

// PlayerByUserID returns the seated player with the given user id, or nil.
func (s *GameSnapshot) PlayerByUserID(userID int64) *Player {
	if s == nil {
		return nil
	}
	for i := range s.Players {
		if s.Players[i].UserID == userID {
			return &s.Players[i]
		}
	}
	return nil
}

// PlayerBySlot returns the player occupying slot, or nil.
func (s *GameSnapshot) PlayerBySlot(slot int) *Player {
	if s == nil {
		return nil
	}
	for i := range s.Players {
		if s.Players[i].Slot == slot {
			return &s.Players[i]
		}
	}
	return nil
}
