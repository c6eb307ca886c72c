package types

// Tier represents the subscription level of a user. The tier controls
// how far into the future event retrieval may look.
type Tier string

const (
	TierStandard Tier = "standard"
	TierPremium  Tier = "premium"
)

// AllTiers returns all valid subscription tiers
func AllTiers() []Tier {
	return []Tier{TierStandard, TierPremium}
}

// IsValid checks if the tier is valid
func (t Tier) IsValid() bool {
	switch t {
	case TierStandard, TierPremium:
		return true
	default:
		return false
	}
}

// String returns the string representation of the tier
func (t Tier) String() string {
	return string(t)
}
