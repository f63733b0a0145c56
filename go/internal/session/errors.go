package session

// DesyncError is a local invariant violation: the authoritative state no
// longer agrees with who we think we are, for example when our own user id
// is missing from an active roster. It is fatal for the session and is
// never retried, independent of any HTTP status.
type DesyncError struct {
	Reason string
}

func (e *DesyncError) Error() string {
	return "session desync: " + e.Reason
}
