// Package apperrors defines the error taxonomy shared between the ingestion
// API and the delivery pipeline. Callers match with errors.Is and wrap with
// fmt.Errorf("...: %w", err) to add context.
package apperrors

import "errors"

var (
	// ErrNotFound is returned when a user, template or notification does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable is returned when a collaborator service or the queue
	// transport cannot be reached.
	ErrUnavailable = errors.New("service unavailable")

	// ErrPreferenceDisabled is returned when the user has disabled the
	// requested notification type in their preferences.
	ErrPreferenceDisabled = errors.New("notification type disabled by user preferences")

	// ErrValidation is returned for malformed requests.
	ErrValidation = errors.New("validation error")

	// ErrDuplicateRequest signals a request_id uniqueness conflict. The
	// coordinator resolves it by re-reading the existing row; it is never
	// surfaced to the caller.
	ErrDuplicateRequest = errors.New("duplicate request_id")
)
