package obligation

import "errors"

var (
	ErrNotFound     = errors.New("obligation not found")
	ErrNotOwner     = errors.New("only the owner may remove this obligation")
	ErrNotRemovable = errors.New("obligation must be closed before removal")
	ErrUserNotFound = errors.New("no registered user with that email")
	ErrSelfShare    = errors.New("an obligation cannot be shared with its owner")
	ErrCannotReopen = errors.New("a closed obligation cannot be reopened")
)

type ErrorKind string

const (
	ErrKindRequiredFields      ErrorKind = "required_fields_missing"
	ErrKindInvalidAmountFormat ErrorKind = "invalid_amount_format"
	ErrKindNegativeAmount      ErrorKind = "negative_amount"
	ErrKindInvalidDateFormat   ErrorKind = "invalid_date_format"
	ErrKindDateInPast          ErrorKind = "date_in_past"
	ErrKindDuplicateName       ErrorKind = "duplicate_name"
	ErrKindSelfShare           ErrorKind = "self_share"
)

// ValidationError is returned for any form-level failure. Kind is stable and
// safe to expose as an API error code.
type ValidationError struct {
	Kind    ErrorKind
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(kind ErrorKind, message string) *ValidationError {
	return &ValidationError{Kind: kind, Message: message}
}
