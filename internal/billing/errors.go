package billing

import "errors"

// Error kinds surfaced by the billing package. Handlers map these to HTTP
// status codes with errors.Is.
var (
	// ErrNotFound means the client or payment id does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument means a caller-supplied value is out of range,
	// e.g. a negative final amount.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStoreUnavailable means the underlying persistence call failed.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrReminderDelivery means the email collaborator reported a failure.
	// Non-fatal: callers surface it as a flagged result.
	ErrReminderDelivery = errors.New("reminder delivery failed")
)
