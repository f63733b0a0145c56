package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/huseyinTozluyurt/boardgame-client/go/internal/models"
)

func chatMsg(id int64) models.ChatMessage {
	return models.ChatMessage{
		ID:       id,
		UserID:   id % 4,
		Username: fmt.Sprintf("user%d", id%4),
		Text:     fmt.Sprintf("message %d", id),
	}
}

func chatBatch(ids ...int64) []models.ChatMessage {
	out := make([]models.ChatMessage, 0, len(ids))
	for _, id := range ids {
		out = append(out, chatMsg(id))
	}
	return out
}

func requireIDs(t *testing.T, l *ChatLog, want ...int64) {
	t.Helper()
	msgs := l.Messages()
	got := make([]int64, 0, len(msgs))
	for _, m := range msgs {
		got = append(got, m.ID)
	}
	require.Equal(t, want, got)
}

func TestChatLogInitialWindowReplacesBuffer(t *testing.T) {
	l := NewChatLog()
	l.ApplyDelta(chatBatch(1, 2, 3))

	requireIDs(t, l, 1, 2, 3)
	require.EqualValues(t, 3, l.Cursor())
}

func TestChatLogDeltaAppends(t *testing.T) {
	l := NewChatLog()
	l.ApplyDelta(chatBatch(1, 2, 3))
	l.ApplyDelta(chatBatch(4, 5))

	requireIDs(t, l, 1, 2, 3, 4, 5)
	require.EqualValues(t, 5, l.Cursor())
}

func TestChatLogDuplicateDeliveryIsIgnored(t *testing.T) {
	l := NewChatLog()
	l.ApplyDelta(chatBatch(1, 2, 3))
	l.ApplyDelta(chatBatch(4, 5))
	l.ApplyDelta(chatBatch(4, 5))

	requireIDs(t, l, 1, 2, 3, 4, 5)
	require.Equal(t, 5, l.Len())
	require.EqualValues(t, 5, l.Cursor())
}

func TestChatLogEmptyBatchChangesNothing(t *testing.T) {
	l := NewChatLog()
	l.ApplyDelta(nil)
	require.Zero(t, l.Cursor())
	require.Zero(t, l.Len())

	// cursor still unset, so the next batch is the initial window
	l.ApplyDelta(chatBatch(7, 8))
	requireIDs(t, l, 7, 8)
	require.EqualValues(t, 8, l.Cursor())
}

func TestChatLogEvictsOldestPastCap(t *testing.T) {
	l := NewChatLog()
	for id := int64(1); id <= 200; id++ {
		l.ApplyDelta(chatBatch(id))
	}

	require.Equal(t, maxChatMessages, l.Len())
	msgs := l.Messages()
	require.EqualValues(t, 51, msgs[0].ID)
	require.EqualValues(t, 200, msgs[len(msgs)-1].ID)
	require.EqualValues(t, 200, l.Cursor())

	// evicted ids can reappear without violating the invariants
	l.ApplyDelta(chatBatch(201))
	require.Equal(t, maxChatMessages, l.Len())
}

func TestChatLogBufferAlwaysAscendingNoDuplicates(t *testing.T) {
	batches := [][]models.ChatMessage{
		chatBatch(1, 2, 3),
		chatBatch(2, 3, 4),
		chatBatch(4),
		chatBatch(5, 6, 7),
		chatBatch(5, 6, 7),
		chatBatch(8),
	}

	l := NewChatLog()
	for _, b := range batches {
		l.ApplyDelta(b)

		msgs := l.Messages()
		for i := 1; i < len(msgs); i++ {
			if msgs[i].ID <= msgs[i-1].ID {
				t.Fatalf("buffer not strictly ascending at %d: %d then %d", i, msgs[i-1].ID, msgs[i].ID)
			}
		}
		require.LessOrEqual(t, l.Len(), maxChatMessages)
	}
}

func TestChatLogAppendLocalCoversDeltaRace(t *testing.T) {
	l := NewChatLog()
	l.ApplyDelta(chatBatch(1, 2))

	// our own send confirmed with id 3
	l.AppendLocal(chatMsg(3))
	requireIDs(t, l, 1, 2, 3)
	require.EqualValues(t, 3, l.Cursor())

	// the next poll returns the same message again
	l.ApplyDelta(chatBatch(3))
	requireIDs(t, l, 1, 2, 3)

	// a send before any delta primes the cursor too
	fresh := NewChatLog()
	fresh.AppendLocal(chatMsg(9))
	require.EqualValues(t, 9, fresh.Cursor())
	require.Equal(t, 1, fresh.Len())
}

func TestChatLogReset(t *testing.T) {
	l := NewChatLog()
	l.ApplyDelta(chatBatch(1, 2, 3))
	l.Reset()

	require.Zero(t, l.Len())
	require.Zero(t, l.Cursor())

	l.ApplyDelta(chatBatch(10))
	requireIDs(t, l, 10)
}
