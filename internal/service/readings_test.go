package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rysen-app/rysen/internal/api"
	"github.com/rysen-app/rysen/internal/cache"
	"github.com/rysen-app/rysen/internal/config"
	"github.com/rysen-app/rysen/internal/domain"
)

type readingsBackend struct {
	srv *httptest.Server

	readingCalls atomic.Int64
	saintCalls   atomic.Int64
	studyCalls   atomic.Int64
}

func newReadingsBackend(t *testing.T) *readingsBackend {
	t.Helper()
	b := &readingsBackend{}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/chat/session", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": "s1"})
	})
	mux.HandleFunc("GET /api/mass-readings", func(w http.ResponseWriter, r *http.Request) {
		b.readingCalls.Add(1)
		json.NewEncoder(w).Encode(domain.MassReading{
			Date:   r.URL.Query().Get("date_str"),
			Saint:  "St. Augustine",
			Season: "Ordinary Time",
			Readings: domain.ReadingSet{
				First:  "1 Thes 4:13-18",
				Psalm:  "Ps 96",
				Gospel: "Lk 4:16-30",
			},
		})
	})
	reflect := func(counter *atomic.Int64, text string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			counter.Add(1)
			json.NewEncoder(w).Encode(domain.Message{
				ID:     "r1",
				Sender: domain.SenderAI,
				Text:   text,
			})
		}
	}
	mux.HandleFunc("POST /api/bible/saint", reflect(&b.saintCalls, "On the life of the saint"))
	mux.HandleFunc("POST /api/bible/scripture", reflect(&b.studyCalls, "On the reading"))
	mux.HandleFunc("POST /api/bible/reading", reflect(&b.studyCalls, "Going deeper"))

	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func newTestReadings(t *testing.T, b *readingsBackend) (*Readings, *Conversation) {
	t.Helper()
	client := api.New(b.srv.URL, 5*time.Second)
	r := NewReadings(client, cache.NewMemory())

	convs := NewConversations(client, &config.Config{})
	conv, err := convs.Start(context.Background(), domain.Account{UID: "u1"}, domain.UserProfile{Avatar: "Pio"}, domain.TopicBible, nil)
	require.NoError(t, err)
	return r, conv
}

func TestDailyFetchesOncePerDay(t *testing.T) {
	b := newReadingsBackend(t)
	r, _ := newTestReadings(t, b)

	day1 := time.Date(2025, 8, 28, 9, 0, 0, 0, time.Local)
	r.now = func() time.Time { return day1 }

	first, err := r.Daily(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2025-08-28", first.Date)
	assert.Equal(t, "St. Augustine", first.Saint)

	// Later the same day: served from the store.
	r.now = func() time.Time { return day1.Add(10 * time.Hour) }
	second, err := r.Daily(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), b.readingCalls.Load())

	// Next morning the key rolls over and a fresh fetch happens.
	r.now = func() time.Time { return day1.Add(24 * time.Hour) }
	third, err := r.Daily(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2025-08-29", third.Date)
	assert.Equal(t, int64(2), b.readingCalls.Load())
}

func TestDailyRecoversFromCorruptEntry(t *testing.T) {
	b := newReadingsBackend(t)
	client := api.New(b.srv.URL, 5*time.Second)
	store := cache.NewMemory()
	r := NewReadings(client, store)
	r.now = func() time.Time { return time.Date(2025, 8, 28, 9, 0, 0, 0, time.Local) }

	store.Set("2025-08-28", []byte("{not json"))

	reading, err := r.Daily(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "St. Augustine", reading.Saint)
	assert.Equal(t, int64(1), b.readingCalls.Load())
}

func TestSaintReflectionIsMemoized(t *testing.T) {
	b := newReadingsBackend(t)
	r, conv := newTestReadings(t, b)
	r.now = func() time.Time { return time.Date(2025, 8, 28, 9, 0, 0, 0, time.Local) }

	reply, err := r.Saint(context.Background(), conv, "St. Augustine")
	require.NoError(t, err)
	assert.Equal(t, "On the life of the saint", reply.Text)
	assert.Equal(t, int64(1), b.saintCalls.Load())

	// The second request resolves from the store: the conversation
	// still gains a user turn and the reply, but nothing goes out.
	before := len(conv.Messages())
	again, err := r.Saint(context.Background(), conv, "St. Augustine")
	require.NoError(t, err)
	assert.Equal(t, reply.Text, again.Text)
	assert.Equal(t, int64(1), b.saintCalls.Load())
	assert.Equal(t, before+2, len(conv.Messages()))
}

func TestScriptureAndStudyUseSeparateKeys(t *testing.T) {
	b := newReadingsBackend(t)
	r, conv := newTestReadings(t, b)
	r.now = func() time.Time { return time.Date(2025, 8, 28, 9, 0, 0, 0, time.Local) }

	_, err := r.Scripture(context.Background(), conv, "First Reading", "1 Thes 4:13-18")
	require.NoError(t, err)

	// Study is a distinct flow over the same reading; the scripture
	// cache entry must not satisfy it.
	_, err = r.Study(context.Background(), conv, "First Reading", "1 Thes 4:13-18")
	require.NoError(t, err)
	assert.Equal(t, int64(2), b.studyCalls.Load())

	_, err = r.Study(context.Background(), conv, "First Reading", "1 Thes 4:13-18")
	require.NoError(t, err)
	assert.Equal(t, int64(2), b.studyCalls.Load())
}
