package types

// UserID is the opaque user identifier assigned by the external calendar
// provider. Local user records share the same identifier space.
type UserID string

func (id UserID) String() string {
	return string(id)
}

// EventID is the identifier the external provider assigns to a calendar
// event. A linked medication record reuses the event ID as its own
// identity, which is the only linkage between the two stores.
type EventID string

func (id EventID) String() string {
	return string(id)
}

// CalendarID identifies a calendar owned by the external provider.
type CalendarID string

func (id CalendarID) String() string {
	return string(id)
}
