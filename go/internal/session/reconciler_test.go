package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/huseyinTozluyurt/boardgame-client/go/internal/models"
)

func testSnapshot() *models.GameSnapshot {
	return &models.GameSnapshot{
		RoomID:     7,
		RoomName:   "Friday Night",
		Status:     models.GameStatusInProgress,
		ActiveSlot: 2,
		TurnEndsAt: 60_000,
		Question:   &models.Question{ID: 11, Content: "Capital of France?"},
		Players: []models.Player{
			{Slot: 1, UserID: 100, Username: "alice", Position: 3},
			{Slot: 2, UserID: 200, Username: "bob", Position: 5},
			{Slot: 3, UserID: 300, Username: "  ", Position: 0},
			{Slot: 4, UserID: 400, Username: "wolfgangamadeus", Position: 9},
		},
	}
}

func TestFormatName(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		fallback string
		want     string
	}{
		{name: "plain name passes through", raw: "alice", fallback: "P1", want: "alice"},
		{name: "whitespace trimmed", raw: "  bob  ", fallback: "P1", want: "bob"},
		{name: "empty falls back", raw: "", fallback: "P3", want: "P3"},
		{name: "blank falls back", raw: "   ", fallback: "P3", want: "P3"},
		{name: "long name truncated to 8", raw: "wolfgangamadeus", fallback: "P4", want: "wolfgang"},
		{name: "exactly 8 kept", raw: "12345678", fallback: "P1", want: "12345678"},
		{name: "multibyte counted as runes", raw: "ğüşiöçĞÜŞİ", fallback: "P1", want: "ğüşiöçĞÜ"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatName(tc.raw, tc.fallback); got != tc.want {
				t.Fatalf("FormatName(%q, %q) = %q, want %q", tc.raw, tc.fallback, got, tc.want)
			}
		})
	}
}

func TestSecondsLeftAt(t *testing.T) {
	cases := []struct {
		name     string
		deadline int64
		nowMs    int64
		want     int
	}{
		{name: "no deadline", deadline: 0, nowMs: 5_000, want: 0},
		{name: "whole seconds remain", deadline: 10_000, nowMs: 7_000, want: 3},
		{name: "partial second rounds up", deadline: 10_001, nowMs: 7_000, want: 4},
		{name: "at deadline", deadline: 10_000, nowMs: 10_000, want: 0},
		{name: "past deadline clamps to zero", deadline: 10_000, nowMs: 60_000, want: 0},
		{name: "one millisecond left", deadline: 10_000, nowMs: 9_999, want: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			now := time.UnixMilli(tc.nowMs)
			if got := SecondsLeftAt(tc.deadline, now); got != tc.want {
				t.Fatalf("SecondsLeftAt(%d, %d) = %d, want %d", tc.deadline, tc.nowMs, got, tc.want)
			}
		})
	}
}

func TestReconcileDerivedFacts(t *testing.T) {
	snap := testSnapshot()
	now := time.UnixMilli(55_500)

	d := Reconcile(snap, 200, now)

	require.True(t, d.IsMyTurn)
	require.Equal(t, 2, d.MySlot)
	require.Equal(t, 5, d.SecondsLeft) // ceil(4500/1000)
	require.Equal(t, "bob", d.ActiveName)

	require.Len(t, d.Tokens, 4)
	require.Equal(t, []BoardToken{
		{Slot: 1, UserID: 100, Color: "green", Position: 3, Name: "alice"},
		{Slot: 2, UserID: 200, Color: "blue", Position: 5, Name: "bob"},
		{Slot: 3, UserID: 300, Color: "orange", Position: 0, Name: "P3"},
		{Slot: 4, UserID: 400, Color: "red", Position: 9, Name: "wolfgang"},
	}, d.Tokens)
}

func TestReconcileNotMyTurn(t *testing.T) {
	snap := testSnapshot()
	now := time.UnixMilli(10_000)

	d := Reconcile(snap, 100, now)
	require.False(t, d.IsMyTurn)
	require.Equal(t, 1, d.MySlot)

	// spectator: not seated at all
	d = Reconcile(snap, 999, now)
	require.False(t, d.IsMyTurn)
	require.Zero(t, d.MySlot)
}

func TestReconcileFinishedNeverMyTurn(t *testing.T) {
	snap := testSnapshot()
	snap.Status = models.GameStatusFinished

	d := Reconcile(snap, 200, time.UnixMilli(0))
	require.False(t, d.IsMyTurn)
}

func TestReconcileIsDeterministic(t *testing.T) {
	snap := testSnapshot()
	now := time.UnixMilli(42_123)

	first := Reconcile(snap, 200, now)
	second := Reconcile(snap, 200, now)
	require.Equal(t, first, second)
}

func TestReconcileNilSnapshot(t *testing.T) {
	d := Reconcile(nil, 200, time.Now())
	require.Zero(t, d.MySlot)
	require.False(t, d.IsMyTurn)
	require.Empty(t, d.Tokens)
}

func TestCheckRoster(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(*models.GameSnapshot)
		userID   int64
		wantDesync bool
	}{
		{name: "seated user passes", userID: 200},
		{name: "missing user is desync", userID: 999, wantDesync: true},
		{
			name:   "empty roster tolerated",
			userID: 999,
			mutate: func(s *models.GameSnapshot) { s.Players = nil },
		},
		{
			name:   "finished game tolerated",
			userID: 999,
			mutate: func(s *models.GameSnapshot) { s.Status = models.GameStatusFinished },
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap := testSnapshot()
			if tc.mutate != nil {
				tc.mutate(snap)
			}
			err := CheckRoster(snap, tc.userID)
			if tc.wantDesync {
				var desync *DesyncError
				require.ErrorAs(t, err, &desync)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
