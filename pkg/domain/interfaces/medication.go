package interfaces

import (
	"context"

	"github.com/dosecal/dosecal/pkg/domain/model"
	"github.com/dosecal/dosecal/pkg/domain/types"
)

// MedicationRepository defines the interface for Medication data access.
// Medications are a one-to-many relation under a user, keyed by the
// external event ID.
type MedicationRepository interface {
	// Append persists a single new medication record. The write is a
	// single-document create, never a read-modify-write of the whole
	// collection, so two concurrent appends for the same user cannot
	// lose each other.
	Append(ctx context.Context, med *model.Medication) (*model.Medication, error)

	// Get retrieves the medication with the given event ID.
	// Returns nil, nil when the user exists but no record matches.
	Get(ctx context.Context, userID types.UserID, id types.EventID) (*model.Medication, error)

	// ListByUser retrieves all medications of a user in insertion order
	ListByUser(ctx context.Context, userID types.UserID) ([]*model.Medication, error)

	// FindByName retrieves all medications of a user with the given
	// name. Names are not unique; the full matching set is returned.
	FindByName(ctx context.Context, userID types.UserID, name string) ([]*model.Medication, error)

	// UpdateDescription overwrites only the description field of an
	// existing record
	UpdateDescription(ctx context.Context, userID types.UserID, id types.EventID, description string) (*model.Medication, error)

	// SaveAll persists new records and description updates in one
	// atomic write. On failure nothing is applied.
	SaveAll(ctx context.Context, appends []*model.Medication, updates map[types.EventID]string) error
}
