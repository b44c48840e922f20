package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rysen-app/rysen/internal/api"
	"github.com/rysen-app/rysen/internal/config"
	"github.com/rysen-app/rysen/internal/domain"
)

// ClipboardFunc writes text to whatever clipboard the platform has.
type ClipboardFunc func(text string) error

// ShareFunc invokes the platform share capability. A nil func means
// the capability is absent and sharing is a local no-op.
type ShareFunc func(title, text, url string) error

// Feedback forwards reactions to the backend on a best-effort basis.
// Policy: fire-and-forget, no rollback — the local marker is applied
// optimistically and a failed relay is only logged.
type Feedback struct {
	api       *api.Client
	clipboard ClipboardFunc
	share     ShareFunc
	now       func() time.Time

	mu           sync.Mutex
	lastReaction map[string]domain.Reaction
	copiedID     string
	copiedAt     time.Time
}

func NewFeedback(client *api.Client, clipboard ClipboardFunc, share ShareFunc) *Feedback {
	return &Feedback{
		api:          client,
		clipboard:    clipboard,
		share:        share,
		now:          time.Now,
		lastReaction: make(map[string]domain.Reaction),
	}
}

// React records a reaction against an AI message. Messages without a
// backend id cannot carry feedback; the call is a guarded no-op and
// issues no HTTP request.
func (f *Feedback) React(ctx context.Context, reaction domain.Reaction, msg domain.Message, userEmail string) error {
	if msg.ID == "" {
		return domain.ErrMissingMessageID
	}

	f.mu.Lock()
	f.lastReaction[msg.ID] = reaction
	f.mu.Unlock()

	err := f.api.SendFeedback(ctx, domain.FeedbackEvent{
		MessageID: msg.ID,
		Reaction:  reaction,
		UserEmail: userEmail,
	})
	if err != nil {
		slog.Warn("feedback relay failed", "message_id", msg.ID, "reaction", reaction, "error", err)
	}
	return nil
}

// Reaction returns the transient "last clicked" marker for a message.
func (f *Feedback) Reaction(messageID string) (domain.Reaction, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.lastReaction[messageID]
	return r, ok
}

// Copy puts the message text on the clipboard. Purely local: no
// feedback event is sent.
func (f *Feedback) Copy(msg domain.Message) error {
	if msg.ID == "" {
		return domain.ErrMissingMessageID
	}
	if f.clipboard != nil {
		if err := f.clipboard(msg.Text); err != nil {
			return fmt.Errorf("copy: %w", err)
		}
	}

	f.mu.Lock()
	f.copiedID = msg.ID
	f.copiedAt = f.now()
	f.mu.Unlock()
	return nil
}

// CopiedID reports which message shows the "Copied!" affordance. The
// marker expires on its own after the notice duration.
func (f *Feedback) CopiedID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.copiedID == "" || f.now().Sub(f.copiedAt) > config.CopiedNoticeDuration {
		return ""
	}
	return f.copiedID
}

// Share hands the message to the platform share capability and, on
// success, records it as a share reaction. Without the capability it
// is a local no-op surfaced to the user.
func (f *Feedback) Share(ctx context.Context, msg domain.Message, userEmail string) error {
	if msg.ID == "" {
		return domain.ErrMissingMessageID
	}
	if f.share == nil {
		return domain.ErrShareUnsupported
	}

	text := msg.Text + "\n\nShared from RYSEN – Download now at " + config.ShareURL
	if err := f.share("Shared from Rysen", text, config.ShareURL); err != nil {
		return fmt.Errorf("share: %w", err)
	}
	return f.React(ctx, domain.ReactionShare, msg, userEmail)
}
