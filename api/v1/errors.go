package v1

import (
	"errors"
	"net/http"

	"github.com/teamforge-api/models"
)

// statusForError maps engine errors onto HTTP statuses. Validation and
// the conflict outcomes of admission are 400, missing or deleted
// projects 404, authorization failures 403, code-space exhaustion 409;
// anything else is an internal error.
func statusForError(err error) int {
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrAlreadyMember),
		errors.Is(err, models.ErrCapacityReached):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrProjectNotFound),
		errors.Is(err, models.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrJoinCodeExhausted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
