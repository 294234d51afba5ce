package app

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrConnection wraps a failed connect attempt. The message of the cause is
// kept as-is so the operator sees what the server said.
type ErrConnection struct {
	Target string
	Cause  error
}

func (e *ErrConnection) Error() string {
	return fmt.Sprintf("connection error: %v", e.Cause)
}

func (e *ErrConnection) Unwrap() error {
	return e.Cause
}

// ErrQuery wraps a statement the backend rejected.
type ErrQuery struct {
	Query string
	Cause error
}

func (e *ErrQuery) Error() string {
	return fmt.Sprintf("query error: %v", e.Cause)
}

func (e *ErrQuery) Unwrap() error {
	return e.Cause
}

// Message returns the backend's own message when one is available.
func (e *ErrQuery) Message() string {
	var pgErr *pgconn.PgError
	if errors.As(e.Cause, &pgErr) {
		return pgErr.Message
	}
	return e.Cause.Error()
}

// SQLState returns the backend error code, or "" if the error did not come
// from the server.
func (e *ErrQuery) SQLState() string {
	var pgErr *pgconn.PgError
	if errors.As(e.Cause, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// ErrConfig represents a configuration error.
type ErrConfig struct {
	Cause error
}

func (e *ErrConfig) Error() string {
	return fmt.Sprintf("config error: %v", e.Cause)
}

func (e *ErrConfig) Unwrap() error {
	return e.Cause
}
