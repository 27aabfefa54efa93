package approval

import (
	"errors"

	apperrors "github.com/frahmantamala/project-management/internal"
)

// Error kinds reported to the page/action layer.
const (
	ErrorNotFound     = "NotFound"
	ErrorInvalidState = "InvalidState"
	ErrorUnauthorized = "Unauthorized"
	ErrorUnexpected   = "Unexpected"
)

// Result is the discriminated outcome of a guard operation.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ResultOf folds a guard error into a Result. Anything outside the known
// taxonomy, including persistence failures, becomes Unexpected.
func ResultOf(err error) Result {
	if err == nil {
		return Result{Success: true}
	}
	return Result{Error: ErrorKind(err)}
}

func ErrorKind(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrRequestNotFound):
		return ErrorNotFound
	case errors.Is(err, apperrors.ErrInvalidState):
		return ErrorInvalidState
	case errors.Is(err, apperrors.ErrNotApprover), errors.Is(err, apperrors.ErrMissingPermission):
		return ErrorUnauthorized
	default:
		return ErrorUnexpected
	}
}

// Retryable reports whether the caller may resubmit the same decision.
func (r Result) Retryable() bool {
	return r.Error == ErrorUnexpected
}
