// Package errors provides structured error handling with HTTP status mapping.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// User errors
	CodeUserUsernameRequired Code = "USER_USERNAME_REQUIRED"
	CodeUserEmailRequired    Code = "USER_EMAIL_REQUIRED"
	CodeUserPasswordRequired Code = "USER_PASSWORD_REQUIRED"
	CodeUsernameTaken        Code = "USERNAME_TAKEN"
	CodeEmailTaken           Code = "EMAIL_TAKEN"

	// Credential errors
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeTokenMissing       Code = "TOKEN_MISSING"
	CodeTokenInvalid       Code = "TOKEN_INVALID"
	CodeTokenExpired       Code = "TOKEN_EXPIRED"

	// Task errors
	CodeTaskTitleRequired Code = "TASK_TITLE_REQUIRED"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// HTTPStatus maps the code to an HTTP status.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeUserUsernameRequired,
		CodeUserEmailRequired,
		CodeUserPasswordRequired,
		CodeUsernameTaken,
		CodeEmailTaken,
		CodeTaskTitleRequired:
		return http.StatusBadRequest
	case CodeInvalidCredentials,
		CodeTokenMissing,
		CodeTokenInvalid,
		CodeTokenExpired:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
