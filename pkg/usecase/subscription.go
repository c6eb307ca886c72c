package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/dosecal/dosecal/pkg/domain/interfaces"
	"github.com/dosecal/dosecal/pkg/domain/model"
	"github.com/dosecal/dosecal/pkg/domain/types"
)

// SubscriptionUseCase manages the tier of a user. The tier lives only in
// the local store, so no cross-store coordination is involved.
type SubscriptionUseCase struct {
	repo interfaces.Repository
}

func NewSubscriptionUseCase(repo interfaces.Repository) *SubscriptionUseCase {
	return &SubscriptionUseCase{
		repo: repo,
	}
}

// SetTier sets the subscription tier. Idempotent: setting the current
// tier again succeeds with the same state.
func (uc *SubscriptionUseCase) SetTier(ctx context.Context, userID types.UserID, tier types.Tier) (*model.User, error) {
	if !tier.IsValid() {
		return nil, goerr.Wrap(types.ErrValidation, "invalid tier",
			goerr.T(types.TagValidation), goerr.V("tier", tier))
	}

	user, err := uc.repo.User().SetPremium(ctx, userID, tier == types.TierPremium)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to set tier",
			goerr.V(types.UserIDKey, userID), goerr.V("tier", tier))
	}

	return user, nil
}

// PremiumStatus reports whether the user is on the premium tier
func (uc *SubscriptionUseCase) PremiumStatus(ctx context.Context, userID types.UserID) (bool, error) {
	user, err := uc.repo.User().Get(ctx, userID)
	if err != nil {
		return false, goerr.Wrap(err, "failed to get user", goerr.V(types.UserIDKey, userID))
	}

	return user.Premium, nil
}
