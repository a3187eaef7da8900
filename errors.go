package servagri

import "errors"

// Sentinel errors returned by the store, normalizer, and mirror. Callers
// distinguish them with errors.Is; the HTTP layer maps them to status codes.
var (
	// ErrNotFound is returned when an id does not match a stored row.
	ErrNotFound = errors.New("servagri: not found")

	// ErrConflict is returned when an update carries a stale version token.
	ErrConflict = errors.New("servagri: version conflict")

	// ErrValidation wraps all invariant violations on entity fields.
	ErrValidation = errors.New("servagri: invalid entity")

	// ErrTooManyImages is returned when a batch would push a project past
	// MaxProjectImages.
	ErrTooManyImages = errors.New("servagri: too many images")

	// ErrBatchTooLarge is returned when the encoded images of one batch
	// exceed the cumulative size ceiling.
	ErrBatchTooLarge = errors.New("servagri: image batch too large")

	// ErrMirrorFull is returned by Mirror.Save* when the serialized
	// collection exceeds the configured ceiling. Nothing is written.
	ErrMirrorFull = errors.New("servagri: mirror size ceiling exceeded")
)
