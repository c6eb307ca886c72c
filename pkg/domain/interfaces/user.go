package interfaces

import (
	"context"

	"github.com/dosecal/dosecal/pkg/domain/model"
	"github.com/dosecal/dosecal/pkg/domain/types"
)

// UserRepository defines the interface for User data access. Absent keys
// surface as an error wrapping types.ErrUserNotFound; storage failures
// wrap types.ErrPersistence.
type UserRepository interface {
	// Get retrieves a user by ID
	Get(ctx context.Context, id types.UserID) (*model.User, error)

	// GetByEmail retrieves a user by email address
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// Create creates a new user record
	Create(ctx context.Context, user *model.User) (*model.User, error)

	// SetPremium sets the premium flag. Idempotent: writing the current
	// value succeeds without change.
	SetPremium(ctx context.Context, id types.UserID, premium bool) (*model.User, error)
}
