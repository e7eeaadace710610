package apperrors

import (
	"net/http"
)

/*
Factories and predefined variables for the common business-logic errors
of the bootcamp directory. Handlers and services should use these instead
of constructing AppError literals.
*/

// ErrNotFound converts a repository "record not found" into a 404.
func ErrNotFound(err error, message string) *AppError {
	return Wrap(err, CodeNotFound, "resource", message, http.StatusNotFound)
}

// ErrDuplicate converts a unique-constraint violation into a 400.
// The original API reports duplicate keys as bad requests, not conflicts.
func ErrDuplicate(err error, message string) *AppError {
	return Wrap(err, CodeDuplicate, "resource", message, http.StatusBadRequest)
}

// ErrInvalidOperation builds a 400 for operations the domain forbids.
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrUpstream wraps a failure of an external collaborator (geocoder, SMTP).
func ErrUpstream(err error, domain, message string) *AppError {
	return Wrap(err, CodeExternalServiceError, domain, message, http.StatusInternalServerError)
}

// --- Predefined variables for frequent, static errors ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid credentials",
	http.StatusUnauthorized,
)

var ErrNotAuthenticated = New(
	CodeUnauthorized,
	"auth",
	"Not authorized to access this route",
	http.StatusUnauthorized,
)

var ErrOwnershipRequired = New(
	CodeForbidden,
	"auth",
	"Not authorized to modify this resource",
	http.StatusForbidden,
)

var ErrInvalidUserRole = New(
	CodeInvalidOperation,
	"business_logic",
	"Invalid user role for this operation",
	http.StatusBadRequest,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"auth",
	"Password must be at least 6 characters long",
	http.StatusBadRequest,
)

var ErrResetTokenInvalid = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired reset token",
	http.StatusBadRequest,
)

var ErrBootcampLimit = New(
	CodeLimitExceeded,
	"bootcamps",
	"The user has already published a bootcamp",
	http.StatusBadRequest,
)
