// Package shared holds cross-cutting helpers used by every domain package.
package shared

import "errors"

// Error taxonomy. Services return these (possibly wrapped); the HTTP layer
// maps them onto status codes and user-safe messages.
var (
	// ErrNotFound indicates the referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates malformed or incomplete input.
	ErrValidation = errors.New("validation failed")
	// ErrPrecondition indicates a workflow guard was not met.
	ErrPrecondition = errors.New("precondition failed")
	// ErrVersionConflict indicates the supplied optimistic-concurrency token
	// no longer matches the stored row.
	ErrVersionConflict = errors.New("version conflict")
	// ErrDuplicate indicates an exact duplicate submission (idempotency key replay).
	ErrDuplicate = errors.New("duplicate submission")
	// ErrForbidden indicates the caller lacks a required permission.
	ErrForbidden = errors.New("forbidden")
)

// UserSafeMessage returns a message suitable for API consumers. Known domain
// errors pass through; anything else collapses to a generic failure so
// internal details never leak.
func UserSafeMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrPrecondition),
		errors.Is(err, ErrVersionConflict),
		errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrForbidden):
		return err.Error()
	default:
		return "operation failed"
	}
}
