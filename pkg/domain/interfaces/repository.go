package interfaces

// Repository defines the interface for data persistence. It is an
// explicitly constructed handle: open the backing connection at process
// start, Close on shutdown. No ambient singletons.
type Repository interface {
	User() UserRepository
	Medication() MedicationRepository

	Close() error
}
