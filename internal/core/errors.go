package core

import "errors"

// Field names reported by ValidationError.
const (
	FieldDescription = "description"
	FieldAmount      = "amount"
	FieldCategory    = "category"
	FieldDate        = "date"
)

var (
	ErrEmptyDescription   = errors.New("description is required")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrMissingAmount      = errors.New("amount is required")
	ErrInvalidAmount      = errors.New("amount is not a valid number")
	ErrEmptyCategory      = errors.New("category name is required")
	ErrUnknownCategory    = errors.New("category does not exist")
	ErrDuplicateCategory  = errors.New("category already exists")
	ErrFallbackCategory   = errors.New("the fallback category cannot be deleted")
	ErrMissingDate        = errors.New("date is required")
	ErrInvalidDate        = errors.New("date must be in YYYY-MM-DD format")
	ErrDuplicateID        = errors.New("transaction id already in ledger")
)

// ValidationError reports user input that was rejected before any state
// changed. Field names the offending input.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Invalid builds a ValidationError for field from one of the sentinel errors.
func Invalid(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Reason: err.Error(), Err: err}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidationField returns the field of a wrapped ValidationError, or "".
func ValidationField(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Field
	}
	return ""
}
