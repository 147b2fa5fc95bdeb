package carevault

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrThingNotFound is returned when a requested thing does not exist
// in the record.
var ErrThingNotFound = errors.New("thing not found")

// RecordAccessError indicates the authenticated person is not
// authorized for the record.
type RecordAccessError struct {
	RecordID uuid.UUID
}

func (e *RecordAccessError) Error() string {
	return fmt.Sprintf("unable to access record %s", e.RecordID)
}
