// Package api is the HTTP client for the Rysen backend surface. All
// calls are plain JSON request/response; nothing is streamed.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rysen-app/rysen/internal/domain"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// MessageRequest is one user turn posted to a message route. Profile
// is the read-only snapshot forwarded with every outbound message.
type MessageRequest struct {
	ChatSessionID string             `json:"chat_session_id"`
	Sender        domain.Sender      `json:"sender"`
	Text          string             `json:"text"`
	Profile       domain.UserProfile `json:"profile"`
	UserID        string             `json:"user_id,omitempty"`
	UserEmail     string             `json:"user_email,omitempty"`
}

type ScriptureRequest struct {
	ReadingTitle       string        `json:"reading_title"`
	ScriptureReference string        `json:"scripture_reference"`
	ChatSessionID      string        `json:"chat_session_id"`
	Sender             domain.Sender `json:"sender"`
	Text               string        `json:"text"`
	Date               string        `json:"date"`
}

type SaintRequest struct {
	SaintName     string        `json:"saint_name"`
	ChatSessionID string        `json:"chat_session_id"`
	Sender        domain.Sender `json:"sender"`
	Text          string        `json:"text"`
	AvatarName    string        `json:"avatar_name"`
	Date          string        `json:"date_str"`
}

type StudyRequest struct {
	ReadingTitle       string             `json:"reading_title"`
	ScriptureReference string             `json:"scripture_reference"`
	ChatSessionID      string             `json:"chat_session_id"`
	Sender             domain.Sender      `json:"sender"`
	Text               string             `json:"text"`
	Date               string             `json:"date"`
	Profile            domain.UserProfile `json:"profile"`
}

type DonationRequest struct {
	Amount     int64  `json:"amount"` // integer cents
	Recurring  bool   `json:"recurring"`
	SuccessURL string `json:"success_url"`
	CancelURL  string `json:"cancel_url"`
}

// CreateSession opens a conversation context for the given topic and
// returns the backend-issued session.
func (c *Client) CreateSession(ctx context.Context, uid string, topic domain.Topic) (domain.Session, error) {
	payload := map[string]any{"uid": uid, "topic": topic}

	var result struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/chat/session", payload, &result); err != nil {
		return domain.Session{}, fmt.Errorf("create session: %w", err)
	}

	return domain.Session{ID: result.ID, Topic: topic, CreatedAt: time.Now()}, nil
}

// ListSessions returns the user's prior sessions, most recent first.
func (c *Client) ListSessions(ctx context.Context, uid string) ([]domain.Session, error) {
	var sessions []domain.Session
	path := "/api/chat/sessions?uid=" + url.QueryEscape(uid)
	if err := c.do(ctx, http.MethodGet, path, nil, &sessions); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// SendMessage posts one chat turn. The route depends on the topic:
// prayer turns have their own endpoint, everything else goes through
// the chat route.
func (c *Client) SendMessage(ctx context.Context, topic domain.Topic, req MessageRequest) (domain.Message, error) {
	path := "/api/chat/message"
	if topic == domain.TopicPrayer || topic == domain.TopicBible {
		path = "/api/prayer/message"
	}

	var msg domain.Message
	if err := c.do(ctx, http.MethodPost, path, req, &msg); err != nil {
		return domain.Message{}, fmt.Errorf("send message: %w", err)
	}
	return msg, nil
}

func (c *Client) ScriptureReflection(ctx context.Context, req ScriptureRequest) (domain.Message, error) {
	var msg domain.Message
	if err := c.do(ctx, http.MethodPost, "/api/bible/scripture", req, &msg); err != nil {
		return domain.Message{}, fmt.Errorf("scripture reflection: %w", err)
	}
	return msg, nil
}

func (c *Client) SaintReflection(ctx context.Context, req SaintRequest) (domain.Message, error) {
	var msg domain.Message
	if err := c.do(ctx, http.MethodPost, "/api/bible/saint", req, &msg); err != nil {
		return domain.Message{}, fmt.Errorf("saint reflection: %w", err)
	}
	return msg, nil
}

func (c *Client) StudyReading(ctx context.Context, req StudyRequest) (domain.Message, error) {
	var msg domain.Message
	if err := c.do(ctx, http.MethodPost, "/api/bible/reading", req, &msg); err != nil {
		return domain.Message{}, fmt.Errorf("study reading: %w", err)
	}
	return msg, nil
}

// MassReadings fetches the liturgical readings for the given calendar
// date (YYYY-MM-DD).
func (c *Client) MassReadings(ctx context.Context, dateStr string) (domain.MassReading, error) {
	var reading domain.MassReading
	path := "/api/mass-readings?date_str=" + url.QueryEscape(dateStr)
	if err := c.do(ctx, http.MethodGet, path, nil, &reading); err != nil {
		return domain.MassReading{}, fmt.Errorf("mass readings: %w", err)
	}
	return reading, nil
}

// SendFeedback records a reaction. The backend returns no body worth
// keeping.
func (c *Client) SendFeedback(ctx context.Context, event domain.FeedbackEvent) error {
	if err := c.do(ctx, http.MethodPost, "/api/feedback", event, nil); err != nil {
		return fmt.Errorf("send feedback: %w", err)
	}
	return nil
}

// CreateDonation opens a payment session and returns the redirect URL.
func (c *Client) CreateDonation(ctx context.Context, req DonationRequest) (string, error) {
	var result struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/donate", req, &result); err != nil {
		return "", fmt.Errorf("create donation: %w", err)
	}
	return result.URL, nil
}

// Signin exchanges an identity token for the account record, bumping
// the backend-side login counter.
func (c *Client) Signin(ctx context.Context, idToken string) (domain.Account, error) {
	payload := map[string]string{"id_token": idToken}

	var account domain.Account
	if err := c.do(ctx, http.MethodPost, "/auth/signin", payload, &account); err != nil {
		return domain.Account{}, fmt.Errorf("signin: %w", err)
	}
	return account, nil
}

// FetchProfile reads the user document from the backend store.
func (c *Client) FetchProfile(ctx context.Context, uid string) (domain.UserProfile, error) {
	var profile domain.UserProfile
	if err := c.do(ctx, http.MethodGet, "/user/"+url.PathEscape(uid), nil, &profile); err != nil {
		return domain.UserProfile{}, fmt.Errorf("fetch profile: %w", err)
	}
	return profile, nil
}

// DeleteUserSessions wipes the user's conversation history.
func (c *Client) DeleteUserSessions(ctx context.Context, uid string) error {
	path := "/api/chat-sessions/user/" + url.PathEscape(uid)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrSessionNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("backend returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out == nil {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
