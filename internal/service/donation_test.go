package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rysen-app/rysen/internal/api"
	"github.com/rysen-app/rysen/internal/config"
	"github.com/rysen-app/rysen/internal/domain"
	"github.com/rysen-app/rysen/internal/service"
)

func TestAmountToCents(t *testing.T) {
	tests := []struct {
		amount string
		cents  int64
	}{
		{"10", 1000},
		{"$50", 5000},
		{"19.999", 2000},
		{"2.505", 251},
		{" 250 ", 25000},
		{"1", 100},
	}
	for _, tt := range tests {
		cents, err := service.AmountToCents(tt.amount)
		require.NoError(t, err, tt.amount)
		assert.Equal(t, tt.cents, cents, tt.amount)
	}
}

func TestAmountToCentsRejects(t *testing.T) {
	for _, amount := range []string{"", "abc", "$", "0.99", "0", "-5"} {
		_, err := service.AmountToCents(amount)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount, amount)
	}
}

func TestEveryNthLogin(t *testing.T) {
	every5 := service.EveryNthLogin(5)
	assert.False(t, every5(0))
	assert.False(t, every5(1))
	assert.False(t, every5(4))
	assert.True(t, every5(5))
	assert.False(t, every5(6))
	assert.True(t, every5(10))

	never := service.EveryNthLogin(0)
	assert.False(t, never(5))
}

func TestShouldPromptUsesInjectedPolicy(t *testing.T) {
	always := func(int) bool { return true }
	d := service.NewDonations(nil, &config.Config{}, always)
	assert.True(t, d.ShouldPrompt(domain.Account{LoginCount: 1}))

	// Nil policy falls back to the configured cadence.
	d = service.NewDonations(nil, &config.Config{DonationPromptEvery: 3}, nil)
	assert.True(t, d.ShouldPrompt(domain.Account{LoginCount: 6}))
	assert.False(t, d.ShouldPrompt(domain.Account{LoginCount: 7}))
}

func TestDonateOpensPaymentSession(t *testing.T) {
	var got api.DonationRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/donate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, map[string]string{"url": "https://checkout.example.com/s1"})
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		DonationSuccessURL: "https://rysen.app/donation-success",
		DonationCancelURL:  "https://rysen.app/donation-cancelled",
	}
	d := service.NewDonations(api.New(srv.URL, 5*time.Second), cfg, nil)

	url, err := d.Donate(context.Background(), "19.999", true)
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example.com/s1", url)
	assert.Equal(t, int64(2000), got.Amount)
	assert.True(t, got.Recurring)
	assert.Equal(t, cfg.DonationSuccessURL, got.SuccessURL)
	assert.Equal(t, cfg.DonationCancelURL, got.CancelURL)
}

func TestDonateInvalidAmountSkipsBackend(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	t.Cleanup(srv.Close)

	d := service.NewDonations(api.New(srv.URL, 5*time.Second), &config.Config{}, nil)
	_, err := d.Donate(context.Background(), "0.25", false)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	assert.Zero(t, calls)
}

func TestDonateBackendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "payment provider down", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	d := service.NewDonations(api.New(srv.URL, 5*time.Second), &config.Config{}, nil)
	_, err := d.Donate(context.Background(), "10", false)
	assert.Error(t, err)
}
