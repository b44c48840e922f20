package domain

// Sender identifies who produced a message in a conversation.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
	// SenderTyping marks the transient placeholder shown while a
	// backend call is in flight. It is never sent to the backend and
	// never persisted.
	SenderTyping Sender = "typing"
)

// Message is a single turn in a conversation. ID is assigned by the
// backend; user messages and the typing placeholder have none.
type Message struct {
	ID        string   `json:"id,omitempty"`
	Sender    Sender   `json:"sender"`
	Text      string   `json:"text"`
	Timestamp string   `json:"timestamp,omitempty"`
	FollowUps []string `json:"follow_ups,omitempty"`
}

// IsTyping reports whether the message is the in-flight placeholder.
func (m Message) IsTyping() bool {
	return m.Sender == SenderTyping
}
