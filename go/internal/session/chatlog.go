package session

import (
	"github.com/huseyinTozluyurt/boardgame-client/go/internal/models"
)

// maxChatMessages caps the client-side buffer; the oldest messages are
// evicted first.
const maxChatMessages = 150

// ChatLog merges incremental chat deltas into a bounded buffer that stays
// strictly ascending by id with no duplicates. The cursor is the id of the
// last merged message and only ever moves forward.
type ChatLog struct {
	msgs   []models.ChatMessage
	seen   map[int64]struct{}
	cursor int64 // zero until the first message is merged
}

func NewChatLog() *ChatLog {
	return &ChatLog{seen: make(map[int64]struct{})}
}

// ApplyDelta merges one fetched batch. The very first batch is the
// authoritative initial window and replaces the buffer wholesale; later
// batches append only unseen ids, preserving arrival order. An empty batch
// changes nothing.
func (l *ChatLog) ApplyDelta(batch []models.ChatMessage) {
	if len(batch) == 0 {
		return
	}

	if l.cursor == 0 {
		l.msgs = append(l.msgs[:0], batch...)
		l.seen = make(map[int64]struct{}, len(batch))
		for _, m := range batch {
			l.seen[m.ID] = struct{}{}
		}
	} else {
		for _, m := range batch {
			if m.ID == 0 {
				continue
			}
			if _, dup := l.seen[m.ID]; dup {
				continue
			}
			l.msgs = append(l.msgs, m)
			l.seen[m.ID] = struct{}{}
		}
	}

	l.trim()

	if last := batch[len(batch)-1].ID; last > l.cursor {
		l.cursor = last
	}
}

// AppendLocal records the server-confirmed message from our own send. This
// covers the race where the next poll's delta returns the same message
// again, and advances the cursor past it.
func (l *ChatLog) AppendLocal(m models.ChatMessage) {
	if m.ID == 0 {
		return
	}
	if _, dup := l.seen[m.ID]; !dup {
		l.msgs = append(l.msgs, m)
		l.seen[m.ID] = struct{}{}
		l.trim()
	}
	if m.ID > l.cursor {
		l.cursor = m.ID
	}
}

func (l *ChatLog) trim() {
	if len(l.msgs) <= maxChatMessages {
		return
	}
	for _, m := range l.msgs[:len(l.msgs)-maxChatMessages] {
		delete(l.seen, m.ID)
	}
	l.msgs = l.msgs[len(l.msgs)-maxChatMessages:]
}

// Cursor returns the id of the last merged message, zero when nothing has
// been merged yet.
func (l *ChatLog) Cursor() int64 {
	return l.cursor
}

func (l *ChatLog) Len() int {
	return len(l.msgs)
}

// Messages returns the buffer oldest-first. The slice is a copy.
func (l *ChatLog) Messages() []models.ChatMessage {
	out := make([]models.ChatMessage, len(l.msgs))
	copy(out, l.msgs)
	return out
}

// Reset drops the buffer and the cursor, as on session teardown.
func (l *ChatLog) Reset() {
	l.msgs = nil
	l.seen = make(map[int64]struct{})
	l.cursor = 0
}
