package service

import (
	"context"
	"fmt"

	"github.com/rysen-app/rysen/internal/api"
	"github.com/rysen-app/rysen/internal/domain"
)

// Profiles supplies read-only account and profile snapshots from the
// backend document store. Chat components receive the snapshots by
// value and never write back; the settings flow owns all writes.
type Profiles struct {
	api *api.Client
}

func NewProfiles(client *api.Client) *Profiles {
	return &Profiles{api: client}
}

// Signin exchanges the identity token for the account record. The
// backend bumps login_count as a side effect, which feeds the
// donation prompt policy.
func (p *Profiles) Signin(ctx context.Context, idToken string) (domain.Account, error) {
	account, err := p.api.Signin(ctx, idToken)
	if err != nil {
		return domain.Account{}, fmt.Errorf("signin: %w", err)
	}
	return account, nil
}

// Fetch reads the profile document once; callers hold the returned
// value for the lifetime of their conversation.
func (p *Profiles) Fetch(ctx context.Context, uid string) (domain.UserProfile, error) {
	profile, err := p.api.FetchProfile(ctx, uid)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("fetch profile: %w", err)
	}
	return profile, nil
}

// Wipe deletes the user's conversation history on the backend.
func (p *Profiles) Wipe(ctx context.Context, uid string) error {
	if err := p.api.DeleteUserSessions(ctx, uid); err != nil {
		return fmt.Errorf("wipe history: %w", err)
	}
	return nil
}
