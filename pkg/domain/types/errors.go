package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures across the service so that callers (and
// the HTTP layer) can decide how to react without string matching.
var (
	// TagValidation marks errors caused by missing or malformed input.
	// Raised before any network call is made.
	TagValidation = goerr.NewTag("validation")

	// TagNotFound marks errors where a referenced user or resource is
	// simply absent.
	TagNotFound = goerr.NewTag("not_found")

	// TagUpstream marks failures of the external calendar provider,
	// including timeouts.
	TagUpstream = goerr.NewTag("upstream")

	// TagPersistence marks failures of the local record store, including
	// timeouts.
	TagPersistence = goerr.NewTag("persistence")

	// TagPartialWrite marks the known orphan state: the external event
	// was created but the local record append failed. Recovery requires
	// reconciliation, not a plain retry, so it must stay distinguishable
	// from TagUpstream and TagPersistence.
	TagPartialWrite = goerr.NewTag("partial_write")
)

// Sentinel errors for the linked-record coordination paths
var (
	ErrValidation         = goerr.New("invalid request", goerr.T(TagValidation))
	ErrUserNotFound       = goerr.New("user not found", goerr.T(TagNotFound))
	ErrMedicationNotFound = goerr.New("medication not found", goerr.T(TagNotFound))
	ErrUpstream           = goerr.New("calendar provider request failed", goerr.T(TagUpstream))
	ErrPersistence        = goerr.New("record store request failed", goerr.T(TagPersistence))
	ErrPartialWrite       = goerr.New("event created but medication link failed", goerr.T(TagPartialWrite))
)

// Context keys for error values
const (
	UserIDKey     = "user_id"
	EventIDKey    = "event_id"
	CalendarIDKey = "calendar_id"
)
