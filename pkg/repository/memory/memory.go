package memory

import (
	"github.com/dosecal/dosecal/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	user       *userRepository
	medication *medicationRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		user:       newUserRepository(),
		medication: newMedicationRepository(),
	}
}

func (m *Memory) User() interfaces.UserRepository {
	return m.user
}

func (m *Memory) Medication() interfaces.MedicationRepository {
	return m.medication
}

func (m *Memory) Close() error {
	return nil
}
