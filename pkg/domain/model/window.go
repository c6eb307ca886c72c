package model

import (
	"time"

	"github.com/dosecal/dosecal/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Window is a half-open retrieval time range [Start, End)
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// WindowPolicy maps a subscription tier to a retrieval window length.
// The zero value is not usable; construct with DefaultWindowPolicy or
// from configuration.
type WindowPolicy struct {
	StandardDays int
	PremiumDays  int
}

// DefaultWindowPolicy returns the built-in tier windows: 7 days for
// standard, 365 days for premium.
func DefaultWindowPolicy() WindowPolicy {
	return WindowPolicy{
		StandardDays: 7,
		PremiumDays:  365,
	}
}

// Validate checks the policy is internally consistent
func (p WindowPolicy) Validate() error {
	if p.StandardDays <= 0 {
		return goerr.New("standard window must be positive", goerr.V("days", p.StandardDays))
	}
	if p.PremiumDays <= 0 {
		return goerr.New("premium window must be positive", goerr.V("days", p.PremiumDays))
	}
	if p.StandardDays > p.PremiumDays {
		return goerr.New("standard window must not exceed premium window",
			goerr.V("standard_days", p.StandardDays),
			goerr.V("premium_days", p.PremiumDays))
	}
	return nil
}

// WindowFor computes the retrieval window for a tier anchored at now.
// Callers must pass a fresh now on every retrieval; the window is never
// cached. Unknown tiers get the standard window.
func (p WindowPolicy) WindowFor(tier types.Tier, now time.Time) Window {
	days := p.StandardDays
	if tier == types.TierPremium {
		days = p.PremiumDays
	}

	return Window{
		Start: now,
		End:   now.Add(time.Duration(days) * 24 * time.Hour),
	}
}
