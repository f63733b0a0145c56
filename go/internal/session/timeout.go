package session

import "time"

// TimeoutTrigger fires the turn-timeout notification at most once per
// deadline value. The server is the authority on the consequence; the
// trigger only reports that our own timer ran out.
type TimeoutTrigger struct {
	lastNotified int64 // deadline (epoch millis) already handled
}

// ShouldFire reports whether a timeout notification is due for deadline at
// now, and records the deadline as handled when it is. Deadlines compare by
// value: a new turn carries a new deadline and re-arms the trigger.
func (t *TimeoutTrigger) ShouldFire(deadline int64, isMyTurn bool, now time.Time) bool {
	if deadline == 0 || !isMyTurn {
		return false
	}
	if SecondsLeftAt(deadline, now) > 0 {
		return false
	}
	if t.lastNotified == deadline {
		return false
	}
	t.lastNotified = deadline
	return true
}

// Reset forgets the handled deadline, as on session teardown.
func (t *TimeoutTrigger) Reset() {
	t.lastNotified = 0
}
