package models

import (
	"testing"
	"time"
)

func TestUserEffectiveTier(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name string
		user User
		want string
	}{
		{"free stays free", User{MembershipTier: TierFree}, TierFree},
		{"paid without expiry", User{MembershipTier: TierPremium}, TierPremium},
		{"paid before expiry", User{MembershipTier: TierBasic, MembershipExpiresAt: &future}, TierBasic},
		{"lapsed premium falls back", User{MembershipTier: TierPremium, MembershipExpiresAt: &past}, TierFree},
		{"free ignores stale expiry", User{MembershipTier: TierFree, MembershipExpiresAt: &past}, TierFree},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.EffectiveTier(); got != tt.want {
				t.Errorf("EffectiveTier() = %q, want %q", got, tt.want)
			}
		})
	}
}
