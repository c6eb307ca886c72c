package model

import (
	"time"

	"github.com/dosecal/dosecal/pkg/domain/types"
)

// Medication is the locally-owned metadata of a dose reminder. Its ID
// equals the ID of the external calendar event it was created alongside;
// there is no secondary index between the two stores.
type Medication struct {
	ID          types.EventID `json:"id"`
	UserID      types.UserID  `json:"userId"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Dosage      string        `json:"dosage,omitempty"`
	DosesTaken  string        `json:"dosesTaken,omitempty"`
	TotalDoses  string        `json:"totalDoses,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// MedicationFields carries the medication-specific attributes of a
// creation request. Scheduling attributes travel separately in EventDraft.
type MedicationFields struct {
	Dosage     string `json:"dosage,omitempty"`
	DosesTaken string `json:"dosesTaken,omitempty"`
	TotalDoses string `json:"totalDoses,omitempty"`
}
