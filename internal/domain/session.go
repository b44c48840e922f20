package domain

import "time"

// Topic selects the conversational context and the backend route the
// pipeline posts to.
type Topic string

const (
	TopicChat   Topic = "chat"
	TopicPrayer Topic = "prayer"
	TopicBible  Topic = "bible"
)

// Session is a backend-issued conversation context. The id is opaque;
// the client never fabricates one.
type Session struct {
	ID        string    `json:"id"`
	Topic     Topic     `json:"topic"`
	Summary   string    `json:"summary,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
