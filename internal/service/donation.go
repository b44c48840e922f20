package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rysen-app/rysen/internal/api"
	"github.com/rysen-app/rysen/internal/config"
	"github.com/rysen-app/rysen/internal/domain"
	"github.com/shopspring/decimal"
)

// PromptPolicy decides from the login count whether to surface the
// donation prompt. Kept as a pure injectable function because the
// product has changed this heuristic more than once.
type PromptPolicy func(loginCount int) bool

// EveryNthLogin prompts on every nth login. n <= 0 never prompts.
func EveryNthLogin(n int) PromptPolicy {
	return func(loginCount int) bool {
		return n > 0 && loginCount > 0 && loginCount%n == 0
	}
}

// Donations gates and executes the external payment redirect. No
// donation state is kept locally; skipping just dismisses the prompt.
type Donations struct {
	api    *api.Client
	cfg    *config.Config
	policy PromptPolicy
}

func NewDonations(client *api.Client, cfg *config.Config, policy PromptPolicy) *Donations {
	if policy == nil {
		policy = EveryNthLogin(cfg.DonationPromptEvery)
	}
	return &Donations{api: client, cfg: cfg, policy: policy}
}

// ShouldPrompt applies the configured policy to the account.
func (d *Donations) ShouldPrompt(account domain.Account) bool {
	return d.policy(account.LoginCount)
}

// Donate converts the decimal dollar amount to integer cents (round
// half-up) and opens a payment session, returning the redirect URL.
// The amount arrives as a string because the predefined chips are
// strings and the custom field is free-form input.
func (d *Donations) Donate(ctx context.Context, amount string, recurring bool) (string, error) {
	cents, err := AmountToCents(amount)
	if err != nil {
		return "", err
	}

	url, err := d.api.CreateDonation(ctx, api.DonationRequest{
		Amount:     cents,
		Recurring:  recurring,
		SuccessURL: d.cfg.DonationSuccessURL,
		CancelURL:  d.cfg.DonationCancelURL,
	})
	if err != nil {
		slog.Error("donation session failed", "error", err)
		return "", fmt.Errorf("donate: %w", err)
	}
	return url, nil
}

// AmountToCents parses a dollar amount and converts it to cents.
// Amounts below the minimum are rejected.
func AmountToCents(amount string) (int64, error) {
	cleaned := strings.TrimPrefix(strings.TrimSpace(amount), "$")
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, amount)
	}
	if value.LessThan(decimal.NewFromInt(config.MinDonationAmount)) {
		return 0, fmt.Errorf("%w: %s", domain.ErrInvalidAmount, value)
	}
	return value.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}
