package usecase

import (
	"time"

	"github.com/dosecal/dosecal/pkg/domain/interfaces"
	"github.com/dosecal/dosecal/pkg/domain/model"
)

type UseCases struct {
	repo     interfaces.Repository
	provider interfaces.EventProvider
	policy   model.WindowPolicy
	now      func() time.Time

	Schedule     *ScheduleUseCase
	Retrieval    *RetrievalUseCase
	Subscription *SubscriptionUseCase
}

type Option func(*UseCases)

// WithWindowPolicy overrides the default tier retrieval windows
func WithWindowPolicy(policy model.WindowPolicy) Option {
	return func(uc *UseCases) {
		uc.policy = policy
	}
}

// WithClock replaces the time source (tests only)
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(repo interfaces.Repository, provider interfaces.EventProvider, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:     repo,
		provider: provider,
		policy:   model.DefaultWindowPolicy(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Schedule = NewScheduleUseCase(repo, provider)
	uc.Retrieval = NewRetrievalUseCase(repo, provider, uc.policy, uc.now)
	uc.Subscription = NewSubscriptionUseCase(repo)

	return uc
}
