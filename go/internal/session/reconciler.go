package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/huseyinTozluyurt/boardgame-client/go/internal/models"
)

// tokenColors is the 4-entry board palette; slot n wears color (n-1) mod 4.
var tokenColors = [...]string{"green", "blue", "orange", "red"}

// maxNameChars caps display names at 8 visible characters.
const maxNameChars = 8

// BoardToken is one player's piece the way the board renders it.
type BoardToken struct {
	Slot     int
	UserID   int64
	Color    string
	Position int
	Name     string
}

// Derived holds the facts recomputed from a snapshot for one observer at
// one instant.
type Derived struct {
	IsMyTurn    bool
	SecondsLeft int
	ActiveName  string
	MySlot      int // zero when not seated
	Tokens      []BoardToken
}

// FormatName trims the raw name, falls back when it comes out empty, and
// truncates to 8 visible characters. Truncation counts runes, not bytes.
func FormatName(name, fallback string) string {
	v := strings.TrimSpace(name)
	if v == "" {
		v = fallback
	}
	r := []rune(v)
	if len(r) > maxNameChars {
		r = r[:maxNameChars]
	}
	return string(r)
}

// SecondsLeftAt derives the countdown from a millisecond deadline, rounding
// up and never going negative. A zero deadline means no countdown.
func SecondsLeftAt(turnEndsAt int64, now time.Time) int {
	if turnEndsAt == 0 {
		return 0
	}
	diff := turnEndsAt - now.UnixMilli()
	if diff <= 0 {
		return 0
	}
	return int((diff + 999) / 1000)
}

// Reconcile computes all derived facts for the given user from snap at now.
// It is pure and deterministic: the same snapshot and the same now always
// produce the same result, so reconciling twice is idempotent.
func Reconcile(snap *models.GameSnapshot, userID int64, now time.Time) Derived {
	var d Derived
	if snap == nil {
		return d
	}

	d.Tokens = make([]BoardToken, 0, len(snap.Players))
	for _, p := range snap.Players {
		if p.UserID == userID {
			d.MySlot = p.Slot
		}
		idx := (p.Slot - 1) % len(tokenColors)
		if idx < 0 {
			idx += len(tokenColors)
		}
		d.Tokens = append(d.Tokens, BoardToken{
			Slot:     p.Slot,
			UserID:   p.UserID,
			Color:    tokenColors[idx],
			Position: p.Position,
			Name:     FormatName(p.Username, fmt.Sprintf("P%d", p.Slot)),
		})
	}

	d.IsMyTurn = d.MySlot != 0 && d.MySlot == snap.ActiveSlot && !snap.Finished()
	d.SecondsLeft = SecondsLeftAt(snap.TurnEndsAt, now)

	if active := snap.PlayerBySlot(snap.ActiveSlot); active != nil {
		d.ActiveName = FormatName(active.Username, fmt.Sprintf("P%d", snap.ActiveSlot))
	} else {
		d.ActiveName = fmt.Sprintf("P%d", snap.ActiveSlot)
	}

	return d
}

// CheckRoster returns a DesyncError when the roster is non-empty, the game
// is still running, and userID is not seated. An empty roster is tolerated
// because it can appear briefly while a room is filling up.
func CheckRoster(snap *models.GameSnapshot, userID int64) error {
	if snap == nil || snap.Finished() || len(snap.Players) == 0 {
		return nil
	}
	for _, p := range snap.Players {
		if p.UserID == userID {
			return nil
		}
	}
	return &DesyncError{Reason: fmt.Sprintf("user %d missing from roster of room %d", userID, snap.RoomID)}
}
