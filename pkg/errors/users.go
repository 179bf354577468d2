// Package errors provides the typed domain errors for user operations.
// Every error carries the name serialized in JSON error bodies and the HTTP
// status it maps to at the endpoint layer.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain error names serialized in error response bodies.
const (
	NameMalformedBody            = "MalformedBody"
	NameUserAlreadyExists        = "UserAlreadyExistsError"
	NameUserNotInserted          = "UserNotInsertedError"
	NameUserAlreadyDeleted       = "UserAlreadyDeletedError"
	NameDatabaseTransactionError = "DatabaseTransactionError"
)

// UserError represents a user-domain error with HTTP status mapping.
type UserError struct {
	Name       string `json:"name"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
}

// Error implements the error interface.
func (e *UserError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// GetHTTPStatus returns the HTTP status code for the error.
func (e *UserError) GetHTTPStatus() int {
	return e.HTTPStatus
}

// NewMalformedBodyError creates payload validation errors (400 Bad Request).
func NewMalformedBodyError(message string) *UserError {
	return &UserError{
		Name:       NameMalformedBody,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewUserAlreadyExistsError creates conflict errors for duplicate user names
// (409 Conflict).
func NewUserAlreadyExistsError(userName string) *UserError {
	return &UserError{
		Name:       NameUserAlreadyExists,
		Message:    fmt.Sprintf("user '%s' already exists", userName),
		HTTPStatus: http.StatusConflict,
	}
}

// NewUserNotInsertedError creates errors for inserts that affected no rows
// (500 Internal Server Error).
func NewUserNotInsertedError(userName string) *UserError {
	return &UserError{
		Name:       NameUserNotInserted,
		Message:    fmt.Sprintf("user '%s' was not inserted", userName),
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewUserAlreadyDeletedError creates errors for deletes that affected no rows
// (400 Bad Request).
func NewUserAlreadyDeletedError(userName string) *UserError {
	return &UserError{
		Name:       NameUserAlreadyDeleted,
		Message:    "already deleted",
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewTransactionError creates errors for any other database failure inside
// the transaction boundary (500 Internal Server Error).
func NewTransactionError() *UserError {
	return &UserError{
		Name:       NameDatabaseTransactionError,
		Message:    "transaction error",
		HTTPStatus: http.StatusInternalServerError,
	}
}

// IsUserError checks if error is a UserError.
func IsUserError(err error) bool {
	var userErr *UserError
	return errors.As(err, &userErr)
}

// GetUserError extracts UserError from error.
func GetUserError(err error) (*UserError, bool) {
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr, true
	}
	return nil, false
}

// HasName reports whether err is a UserError carrying the given name.
func HasName(err error, name string) bool {
	userErr, ok := GetUserError(err)
	return ok && userErr.Name == name
}
