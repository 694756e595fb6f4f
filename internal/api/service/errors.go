package service

import (
	"errors"
	"fmt"
	"strings"
)

// Domain error taxonomy. Handlers map these to HTTP responses; raw gorm errors
// never cross the service boundary. The merged categories deliberately do not
// distinguish "doesn't exist" from "not yours", so callers cannot probe for the
// existence of other users' resources.
var (
	ErrForbidden                 = errors.New("not authorized")
	ErrNotFound                  = errors.New("not found")
	ErrNotFoundOrForbidden       = errors.New("not found or not accessible")
	ErrNotFoundOrNotWithdrawable = errors.New("application not found or cannot be withdrawn")
	ErrDuplicateApplication      = errors.New("you have already applied to this job")
	ErrMissingResume             = errors.New("please upload your resume before applying for jobs")
	ErrInvalidTransition         = errors.New("this application can no longer be modified")
	ErrJobClosed                 = errors.New("this job is no longer accepting applications")
	ErrPersistence               = errors.New("datastore failure")
	ErrDeletion                  = errors.New("failed to delete job")
)

// ValidationError carries every violated rule, not just the first, so a form
// can show the full list in one round trip.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Fields, "; "))
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
