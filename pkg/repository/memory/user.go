package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dosecal/dosecal/pkg/domain/model"
	"github.com/dosecal/dosecal/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type userRepository struct {
	mu    sync.RWMutex
	users map[types.UserID]*model.User
}

func newUserRepository() *userRepository {
	return &userRepository{
		users: make(map[types.UserID]*model.User),
	}
}

func copyUser(u *model.User) *model.User {
	c := *u
	return &c
}

func (r *userRepository) Get(ctx context.Context, id types.UserID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[id]
	if !exists {
		return nil, goerr.Wrap(types.ErrUserNotFound, "user not found",
			goerr.T(types.TagNotFound), goerr.V(types.UserIDKey, id))
	}

	return copyUser(user), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			return copyUser(user), nil
		}
	}

	return nil, goerr.Wrap(types.ErrUserNotFound, "user not found",
		goerr.T(types.TagNotFound), goerr.V("email", email))
}

func (r *userRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := &model.User{
		ID:        user.ID,
		Email:     user.Email,
		Premium:   user.Premium,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.users[created.ID] = created
	return copyUser(created), nil
}

func (r *userRepository) SetPremium(ctx context.Context, id types.UserID, premium bool) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[id]
	if !exists {
		return nil, goerr.Wrap(types.ErrUserNotFound, "user not found",
			goerr.T(types.TagNotFound), goerr.V(types.UserIDKey, id))
	}

	user.Premium = premium
	user.UpdatedAt = time.Now().UTC()

	return copyUser(user), nil
}
