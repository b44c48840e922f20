// Stub Rysen backend for local development: serves the whole HTTP
// surface the client consumes, with canned spiritual-companion
// replies. Run it and point RYSEN_API_URL at it.
package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rysen-app/rysen/internal/domain"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	addr := os.Getenv("STUB_ADDR")
	if addr == "" {
		addr = ":8800"
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/auth/signin", handleSignin)
	r.Get("/user/{uid}", handleProfile)
	r.Post("/donate", handleDonate)

	r.Route("/api", func(api chi.Router) {
		api.Post("/chat/session", handleCreateSession)
		api.Get("/chat/sessions", handleListSessions)
		api.Post("/chat/message", handleMessage)
		api.Post("/prayer/message", handleMessage)
		api.Post("/bible/scripture", handleMessage)
		api.Post("/bible/saint", handleMessage)
		api.Post("/bible/reading", handleMessage)
		api.Get("/mass-readings", handleMassReadings)
		api.Post("/feedback", handleFeedback)
		api.Delete("/chat-sessions/user/{uid}", handleWipe)
	})

	slog.Info("stub backend listening", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func handleSignin(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, domain.Account{
		UID:        "stub-user",
		Name:       "Pilgrim",
		Email:      "pilgrim@rysen.app",
		LoginCount: 5,
		Onboarded:  true,
		Theme:      "dark",
		Avatar:     "Pio",
	})
}

func handleProfile(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, domain.UserProfile{
		Name:              "Pilgrim",
		AgeRange:          "25-34",
		Sex:               "prefer not to say",
		LifeStage:         "single",
		SpiritualMaturity: 2.0,
		SpiritualGoals:    []string{"daily prayer", "scripture"},
		Avatar:            "Pio",
		Theme:             "dark",
	})
}

func handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UID   string `json:"uid"`
		Topic string `json:"topic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": uuid.NewString()})
}

func handleListSessions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, []domain.Session{})
}

func handleMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ChatSessionID string `json:"chat_session_id"`
		Text          string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.ChatSessionID == "" {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}

	respondJSON(w, http.StatusOK, domain.Message{
		ID:        uuid.NewString(),
		Sender:    domain.SenderAI,
		Text:      "Peace be with you. Let us reflect together on that.",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		FollowUps: []string{"Tell me more", "How do I pray with this?"},
	})
}

func handleMassReadings(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date_str")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	respondJSON(w, http.StatusOK, domain.MassReading{
		Date:       date,
		Saint:      "St. Augustine",
		Season:     "Ordinary Time",
		SeasonWeek: "22",
		Year:       "C",
		Readings: domain.ReadingSet{
			First:  "1 Thes 4:13-18",
			Psalm:  "Ps 96:1, 3-5, 11-13",
			Gospel: "Lk 4:16-30",
		},
	})
}

func handleFeedback(w http.ResponseWriter, r *http.Request) {
	var event domain.FeedbackEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	slog.Info("feedback received", "message_id", event.MessageID, "reaction", event.Reaction)
	w.WriteHeader(http.StatusNoContent)
}

func handleDonate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Amount    int64 `json:"amount"`
		Recurring bool  `json:"recurring"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	slog.Info("donation session", "amount_cents", payload.Amount, "recurring", payload.Recurring)
	respondJSON(w, http.StatusOK, map[string]string{
		"url": "https://checkout.example.com/session/" + uuid.NewString(),
	})
}

func handleWipe(w http.ResponseWriter, r *http.Request) {
	slog.Info("history wiped", "uid", chi.URLParam(r, "uid"))
	w.WriteHeader(http.StatusNoContent)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
