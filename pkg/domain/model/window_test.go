package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/dosecal/dosecal/pkg/domain/model"
	"github.com/dosecal/dosecal/pkg/domain/types"
)

func TestWindowPolicy(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	policy := model.DefaultWindowPolicy()

	t.Run("standard tier gets seven days", func(t *testing.T) {
		w := policy.WindowFor(types.TierStandard, now)
		gt.Value(t, w.Start).Equal(now)
		gt.Value(t, w.End).Equal(now.AddDate(0, 0, 7))
	})

	t.Run("premium tier gets a year", func(t *testing.T) {
		w := policy.WindowFor(types.TierPremium, now)
		gt.Value(t, w.Start).Equal(now)
		gt.Value(t, w.End).Equal(now.AddDate(0, 0, 365))
	})

	t.Run("unknown tier falls back to standard", func(t *testing.T) {
		w := policy.WindowFor(types.Tier("gold"), now)
		gt.Value(t, w.End).Equal(now.AddDate(0, 0, 7))
	})

	t.Run("start never after end", func(t *testing.T) {
		for _, tier := range types.AllTiers() {
			w := policy.WindowFor(tier, now)
			gt.Bool(t, w.Start.After(w.End)).False()
		}
	})
}

func TestWindowPolicyValidate(t *testing.T) {
	t.Run("default is valid", func(t *testing.T) {
		gt.NoError(t, model.DefaultWindowPolicy().Validate())
	})

	t.Run("non-positive days rejected", func(t *testing.T) {
		p := model.WindowPolicy{StandardDays: 0, PremiumDays: 365}
		gt.Error(t, p.Validate())

		p = model.WindowPolicy{StandardDays: 7, PremiumDays: -1}
		gt.Error(t, p.Validate())
	})
}
