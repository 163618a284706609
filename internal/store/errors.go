package store

import (
	"errors"
	"fmt"
)

// ErrItemNotFound is returned for any mutation or lookup against an item
// id that does not exist (including one deleted by another user mid-batch).
var ErrItemNotFound = errors.New("item not found")

// ValidationError reports a rejected field before any mutation happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
