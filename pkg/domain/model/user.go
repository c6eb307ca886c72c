package model

import (
	"time"

	"github.com/dosecal/dosecal/pkg/domain/types"
)

// User is the locally-owned account record. The ID matches the user ID
// assigned by the external calendar provider.
type User struct {
	ID        types.UserID `json:"id"`
	Email     string       `json:"email"`
	Premium   bool         `json:"premium"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Tier derives the subscription tier from the premium flag
func (u *User) Tier() types.Tier {
	if u.Premium {
		return types.TierPremium
	}
	return types.TierStandard
}
