package session

import "testing"

func TestGuardSecondBeginIsNoOp(t *testing.T) {
	g := NewGuards()

	if !g.Begin(ActionSubmitAnswer) {
		t.Fatal("first Begin should succeed")
	}
	if g.Begin(ActionSubmitAnswer) {
		t.Fatal("second Begin for the same kind should fail")
	}

	g.End(ActionSubmitAnswer)
	if !g.Begin(ActionSubmitAnswer) {
		t.Fatal("Begin after End should succeed")
	}
}

func TestGuardKindsAreIndependent(t *testing.T) {
	g := NewGuards()

	if !g.Begin(ActionSubmitAnswer) {
		t.Fatal("answer Begin should succeed")
	}
	if !g.Begin(ActionSendChat) {
		t.Fatal("chat Begin should succeed while answer is in flight")
	}
	if !g.Begin(ActionSubmitTimeout) {
		t.Fatal("timeout Begin should succeed while others are in flight")
	}
}

func TestGuardEndReleasesOnFailurePath(t *testing.T) {
	g := NewGuards()

	attempt := func() (ok bool) {
		if !g.Begin(ActionSendChat) {
			return false
		}
		defer g.End(ActionSendChat)
		return true
	}

	if !attempt() {
		t.Fatal("attempt should acquire the guard")
	}
	if g.InFlight(ActionSendChat) {
		t.Fatal("guard should be released after the deferred End")
	}
	if !attempt() {
		t.Fatal("guard should be reacquirable")
	}
}
