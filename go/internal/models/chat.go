package models

// ChatMessage is one room chat entry. Ids are server-assigned and strictly
// increasing, which is what makes cursor-based delta fetches possible.
type ChatMessage struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"userId"`
	Username  string `json:"username"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"` // epoch millis
}
