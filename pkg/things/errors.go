package things

import (
	"fmt"
	"strings"
)

// InvalidArgumentError is returned by setters when a value would put
// the item into an invalid state. The item is left unchanged.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid value for %s: %s", e.Field, e.Reason)
}

// MissingElementError is returned while parsing when a mandatory
// element is absent from the XML.
type MissingElementError struct {
	Element string
}

func (e *MissingElementError) Error() string {
	return fmt.Sprintf("missing mandatory element: %s", e.Element)
}

// SerializationError is returned by WriteXML when a mandatory field
// was never set on the item being written.
type SerializationError struct {
	Type   string
	Reason string
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("cannot serialize %s: %s", e.Type, e.Reason)
}

func requireNonBlank(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &InvalidArgumentError{Field: field, Reason: "must not be empty or whitespace"}
	}
	return nil
}

func requireRange(field string, value, low, high int) error {
	if value < low || value > high {
		return &InvalidArgumentError{
			Field:  field,
			Reason: fmt.Sprintf("must be between %d and %d, got %d", low, high, value),
		}
	}
	return nil
}
