package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rysen-app/rysen/internal/api"
	"github.com/rysen-app/rysen/internal/config"
	"github.com/rysen-app/rysen/internal/domain"
)

// TypingFunc receives the cycling placeholder text while a reply is
// pending. It may be called from a background goroutine.
type TypingFunc func(text string)

// Resolver produces the AI reply for one pipeline turn. The default
// resolver posts to the backend message route; the bible flows plug
// in cache-aware ones.
type Resolver func(ctx context.Context) (domain.Message, error)

// Conversations opens conversations against the backend, one active
// session per topic instance.
type Conversations struct {
	api *api.Client
	cfg *config.Config
}

func NewConversations(client *api.Client, cfg *config.Config) *Conversations {
	return &Conversations{api: client, cfg: cfg}
}

// Start obtains a session for the topic and seeds the message list
// with the avatar's welcome. With resume enabled the most recent
// prior session for the topic is adopted instead; when nothing is
// resumable a fresh session is created. On failure the caller's
// previous conversation, if any, stays valid.
func (s *Conversations) Start(ctx context.Context, account domain.Account, profile domain.UserProfile, topic domain.Topic, onTyping TypingFunc) (*Conversation, error) {
	avatar := domain.AvatarByKey(profile.Avatar)

	session, err := s.obtainSession(ctx, account.UID, topic)
	if err != nil {
		slog.Error("failed to start session", "topic", topic, "error", err)
		return nil, fmt.Errorf("start session: %w", err)
	}

	return &Conversation{
		api:      s.api,
		session:  session,
		account:  account,
		profile:  profile,
		avatar:   avatar,
		onTyping: onTyping,
		messages: []domain.Message{{Sender: domain.SenderAI, Text: avatar.Welcome}},
	}, nil
}

func (s *Conversations) obtainSession(ctx context.Context, uid string, topic domain.Topic) (domain.Session, error) {
	if s.cfg.ResumeLastSession {
		sessions, err := s.api.ListSessions(ctx, uid)
		if err != nil {
			slog.Warn("list sessions failed, starting fresh", "error", err)
		}
		for _, prior := range sessions {
			if prior.Topic == topic {
				return prior, nil
			}
		}
	}
	return s.api.CreateSession(ctx, uid, topic)
}

// Conversation owns one session and its append-only message list.
// All state transitions happen under the mutex; Messages returns
// snapshots, so a consumer never observes the typing placeholder and
// the real reply at the same time, nor neither after resolution.
type Conversation struct {
	api      *api.Client
	account  domain.Account
	profile  domain.UserProfile
	avatar   domain.Avatar
	onTyping TypingFunc

	mu       sync.Mutex
	session  domain.Session
	messages []domain.Message
	pending  bool
	closed   bool
}

// Send submits one user turn: append the user message and the typing
// placeholder, run exactly one backend call, then swap the
// placeholder for the reply. While a call is in flight further sends
// are rejected with ErrPendingReply; they are not queued.
func (c *Conversation) Send(ctx context.Context, text string) (domain.Message, error) {
	text = strings.TrimSpace(text)
	return c.SendWith(ctx, text, func(ctx context.Context) (domain.Message, error) {
		return c.api.SendMessage(ctx, c.session.Topic, api.MessageRequest{
			ChatSessionID: c.session.ID,
			Sender:        domain.SenderUser,
			Text:          text,
			Profile:       c.profile,
			UserID:        c.account.UID,
			UserEmail:     c.account.Email,
		})
	})
}

// SendFollowUp submits a backend-suggested follow-up chip. It behaves
// exactly like typing the text and sending it: one outbound call, no
// extra state.
func (c *Conversation) SendFollowUp(ctx context.Context, text string) (domain.Message, error) {
	return c.Send(ctx, text)
}

// SendWith runs the pipeline with a custom resolver. On failure the
// typing placeholder is removed, the user message stays unanswered
// and the error is returned for the front to surface; the input text
// is not restored.
func (c *Conversation) SendWith(ctx context.Context, text string, resolve Resolver) (domain.Message, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Message{}, domain.ErrEmptyMessage
	}

	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return domain.Message{}, domain.ErrConversationClosed
	case c.session.ID == "":
		c.mu.Unlock()
		return domain.Message{}, domain.ErrNoSession
	case c.pending:
		c.mu.Unlock()
		return domain.Message{}, domain.ErrPendingReply
	}
	c.pending = true
	c.messages = append(c.messages,
		domain.Message{Sender: domain.SenderUser, Text: text},
		domain.Message{Sender: domain.SenderTyping, Text: "..."},
	)
	c.mu.Unlock()

	stopTyping := c.startTyping(ctx)
	reply, err := resolve(ctx)
	stopTyping()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = false
	c.messages = dropTyping(c.messages)

	if c.closed {
		// Owner navigated away while the call was in flight; the
		// result is dropped rather than applied to dead state.
		return domain.Message{}, domain.ErrConversationClosed
	}
	if err != nil {
		slog.Error("message send failed", "session", c.session.ID, "error", err)
		return domain.Message{}, fmt.Errorf("send message: %w", err)
	}

	c.messages = append(c.messages, reply)
	return reply, nil
}

// startTyping cycles the placeholder text through the callback every
// 500ms until the returned cancel function is called. The cancel must
// fire exactly when the backend call resolves, success or failure.
func (c *Conversation) startTyping(ctx context.Context) context.CancelFunc {
	if c.onTyping == nil {
		return func() {}
	}

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(config.TypingInterval)
		defer ticker.Stop()
		c.onTyping(config.TypingFrames[0])
		for i := 1; ; i++ {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.onTyping(config.TypingFrames[i%len(config.TypingFrames)])
			}
		}
	}()
	return cancel
}

// Messages returns a snapshot of the conversation in render order.
func (c *Conversation) Messages() []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Pending reports whether a backend call is in flight. The send
// affordance must stay disabled while true.
func (c *Conversation) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// SessionID returns the backend-issued session identifier.
func (c *Conversation) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.ID
}

// Topic returns the conversational context of the session.
func (c *Conversation) Topic() domain.Topic {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Topic
}

// Profile returns the read-only snapshot forwarded with each turn.
func (c *Conversation) Profile() domain.UserProfile {
	return c.profile
}

// Placeholder is the avatar-specific input hint.
func (c *Conversation) Placeholder() string {
	return c.avatar.Placeholder
}

// Close marks the conversation dead. An in-flight reply arriving
// afterwards is discarded instead of mutating state the owner no
// longer watches.
func (c *Conversation) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func dropTyping(messages []domain.Message) []domain.Message {
	out := messages[:0]
	for _, m := range messages {
		if !m.IsTyping() {
			out = append(out, m)
		}
	}
	return out
}
