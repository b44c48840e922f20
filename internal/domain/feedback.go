package domain

// Reaction is a lightweight rating attached to an AI message.
type Reaction string

const (
	ReactionHeart Reaction = "heart"
	ReactionCopy  Reaction = "copy"
	ReactionShare Reaction = "share"
	ReactionFlag  Reaction = "flag"
)

// FeedbackEvent is the fire-and-forget payload sent to the backend.
// Nothing of it persists locally beyond a transient UI marker.
type FeedbackEvent struct {
	MessageID string   `json:"message_id"`
	Reaction  Reaction `json:"reaction"`
	UserEmail string   `json:"user_email"`
}
