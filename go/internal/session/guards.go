package session

import "sync"

// ActionKind names one user-initiated write. Each kind gets its own
// exclusivity flag so a slow answer submission cannot block chat and vice
// versa.
type ActionKind string

const (
	ActionSubmitAnswer  ActionKind = "submit-answer"
	ActionSubmitTimeout ActionKind = "submit-timeout"
	ActionSendChat      ActionKind = "send-chat"
)

// Guards prevents overlapping writes of the same kind.
type Guards struct {
	mu       sync.Mutex
	inFlight map[ActionKind]bool
}

func NewGuards() *Guards {
	return &Guards{inFlight: make(map[ActionKind]bool)}
}

// Begin marks kind as in-flight. It returns false when a write of the same
// kind is already outstanding; the caller must abort without side effects.
func (g *Guards) Begin(kind ActionKind) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inFlight[kind] {
		return false
	}
	g.inFlight[kind] = true
	return true
}

// End releases kind. Callers defer it right after a successful Begin so the
// flag clears on every exit path, including failures.
func (g *Guards) End(kind ActionKind) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, kind)
}

// InFlight reports whether a write of kind is outstanding.
func (g *Guards) InFlight(kind ActionKind) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inFlight[kind]
}
