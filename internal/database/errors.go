package database

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned by any operation that needs an open connection.
var ErrNotConnected = errors.New("not connected")

// ErrInvalidIdentifier is returned when a table or column name cannot be
// safely placed in a generated statement.
type ErrInvalidIdentifier struct {
	Name   string
	Reason string
}

func (e *ErrInvalidIdentifier) Error() string {
	return fmt.Sprintf("invalid identifier %q: %s", e.Name, e.Reason)
}
