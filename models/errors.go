package models

import (
	"errors"
	"fmt"
)

// Domain errors shared by stores and services. Handlers map them to
// HTTP statuses with errors.Is, the same way gorm.ErrRecordNotFound is
// matched at the repository layer.
var (
	// ErrProjectNotFound covers missing projects and join codes of
	// deleted projects (burned codes are never revived).
	ErrProjectNotFound = errors.New("project not found")

	// ErrAlreadyMember signals an idempotent re-join. It is surfaced as
	// an error rather than swallowed: a caller that expects to have
	// just joined should be told it already had.
	ErrAlreadyMember = errors.New("already a member of this project")

	// ErrCapacityReached means the member set was full at commit time.
	ErrCapacityReached = errors.New("team size limit reached")

	// ErrForbidden means the principal is authenticated but not
	// permitted to perform the operation.
	ErrForbidden = errors.New("operation not permitted")

	// ErrJoinCodeTaken is returned by a store create when the drawn
	// join code collides with one already reserved.
	ErrJoinCodeTaken = errors.New("join code already taken")

	// ErrJoinCodeExhausted means the allocator ran out of retries.
	// With a 36^8 keyspace this is a defensive bound, not an expected
	// outcome.
	ErrJoinCodeExhausted = errors.New("could not allocate a unique join code")

	// ErrUserNotFound is returned when a referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned on signup with an email that is
	// already registered.
	ErrEmailTaken = errors.New("user already exists")
)

// ValidationError reports a malformed or missing input field. It is
// terminal and surfaced verbatim to the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
