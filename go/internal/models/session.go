package models

// SessionContext identifies who is playing in which room. It is immutable
// for the lifetime of one sync engine: a different identity or room means
// tearing the engine down and building a new one.
type SessionContext struct {
	UserID   int64
	Username string
	RoomID   int64
}
