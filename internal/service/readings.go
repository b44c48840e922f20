package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/rysen-app/rysen/internal/api"
	"github.com/rysen-app/rysen/internal/cache"
	"github.com/rysen-app/rysen/internal/config"
	"github.com/rysen-app/rysen/internal/domain"
)

// Readings serves the daily liturgical bundle and the bible
// reflection flows. Everything is memoized per calendar day in the
// keyed store, so re-entering the bible page on the same date costs
// no network calls.
type Readings struct {
	api   *api.Client
	store cache.Store
	now   func() time.Time
}

func NewReadings(client *api.Client, store cache.Store) *Readings {
	return &Readings{api: client, store: store, now: time.Now}
}

// Daily returns today's mass readings, fetching at most once per
// calendar day (local time).
func (s *Readings) Daily(ctx context.Context) (domain.MassReading, error) {
	key := s.today()

	if data, ok := s.store.Get(key); ok {
		var reading domain.MassReading
		if err := json.Unmarshal(data, &reading); err == nil {
			return reading, nil
		}
		slog.Warn("discarding corrupt readings cache entry", "key", key)
	}

	reading, err := s.api.MassReadings(ctx, key)
	if err != nil {
		return domain.MassReading{}, fmt.Errorf("daily readings: %w", err)
	}

	if data, err := json.Marshal(reading); err == nil {
		s.store.Set(key, data)
	}
	return reading, nil
}

// Saint runs the saint-of-the-day reflection through the conversation
// pipeline. The reply is memoized under <date>:saint; a cached reply
// resolves locally with no backend call.
func (s *Readings) Saint(ctx context.Context, conv *Conversation, saint string) (domain.Message, error) {
	date := s.today()
	key := date + ":saint"
	text := "Saint of the Day:" + saint

	return conv.SendWith(ctx, text, s.cached(key, func(ctx context.Context) (domain.Message, error) {
		return s.api.SaintReflection(ctx, api.SaintRequest{
			SaintName:     saint,
			ChatSessionID: conv.SessionID(),
			Sender:        domain.SenderUser,
			Text:          text,
			AvatarName:    conv.Profile().Avatar,
			Date:          date,
		})
	}))
}

// Scripture opens a reading reflection, memoized under <date>:<title>.
func (s *Readings) Scripture(ctx context.Context, conv *Conversation, title, reference string) (domain.Message, error) {
	date := s.today()
	key := date + ":" + title
	text := title + ":" + reference

	return conv.SendWith(ctx, text, s.cached(key, func(ctx context.Context) (domain.Message, error) {
		return s.api.ScriptureReflection(ctx, api.ScriptureRequest{
			ReadingTitle:       title,
			ScriptureReference: reference,
			ChatSessionID:      conv.SessionID(),
			Sender:             domain.SenderUser,
			Text:               text,
			Date:               date,
		})
	}))
}

// Study goes deeper on a reading already reflected on, memoized under
// study:<date>:<title>.
func (s *Readings) Study(ctx context.Context, conv *Conversation, title, reference string) (domain.Message, error) {
	date := s.today()
	key := "study:" + date + ":" + title
	text := title + ":" + reference

	return conv.SendWith(ctx, text, s.cached(key, func(ctx context.Context) (domain.Message, error) {
		return s.api.StudyReading(ctx, api.StudyRequest{
			ReadingTitle:       title,
			ScriptureReference: reference,
			ChatSessionID:      conv.SessionID(),
			Sender:             domain.SenderUser,
			Text:               text,
			Date:               date,
			Profile:            conv.Profile(),
		})
	}))
}

// cached wraps a resolver with read-through memoization.
func (s *Readings) cached(key string, resolve Resolver) Resolver {
	return func(ctx context.Context) (domain.Message, error) {
		if data, ok := s.store.Get(key); ok {
			var msg domain.Message
			if err := json.Unmarshal(data, &msg); err == nil {
				return msg, nil
			}
		}

		msg, err := resolve(ctx)
		if err != nil {
			return domain.Message{}, err
		}
		if data, err := json.Marshal(msg); err == nil {
			s.store.Set(key, data)
		}
		return msg, nil
	}
}

func (s *Readings) today() string {
	return s.now().Format(config.CacheDateLayout)
}
