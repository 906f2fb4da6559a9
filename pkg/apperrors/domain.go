package apperrors

import (
	"net/http"
)

/*
Factories and predefined errors for the business domains:
applications, profiles, auth, storage and email.
*/

// =========================================================================
// Factories
// =========================================================================

// ErrNotFound converts a repository "not found" into a 404
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - 409
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict - generic 409
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation - 400
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus - 400
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// ErrPartialFailure - a multi-step operation stopped half way and could not be compensated
func ErrPartialFailure(err error, domain, message string) *AppError {
	return Wrap(err, CodePartialFailure, domain, message, http.StatusInternalServerError)
}

// =========================================================================
// Applications
// =========================================================================

var ErrApplicationNotFound = New(
	CodeNotFound,
	"application",
	"Application not found",
	http.StatusNotFound,
)

var ErrInvalidApplicationStatus = New(
	CodeInvalidStatus,
	"application",
	"Status must be one of: pending, approved, rejected",
	http.StatusBadRequest,
)

var ErrNoApplicationForEmail = New(
	CodeInvalidOperation,
	"application",
	"No application found for this email",
	http.StatusBadRequest,
)

var ErrUnknownShortcut = New(
	CodeInvalidOperation,
	"application",
	"Unknown keyboard shortcut",
	http.StatusBadRequest,
)

// =========================================================================
// Profiles, events, opportunities
// =========================================================================

var ErrProfileNotFound = New(
	CodeNotFound,
	"profile",
	"Profile not found",
	http.StatusNotFound,
)

var ErrEventNotFound = New(
	CodeNotFound,
	"event",
	"Event not found",
	http.StatusNotFound,
)

var ErrOpportunityNotFound = New(
	CodeNotFound,
	"opportunity",
	"Opportunity not found",
	http.StatusNotFound,
)

// =========================================================================
// Auth
// =========================================================================

var ErrUserNotFound = New(
	CodeNotFound,
	"auth",
	"User not found",
	http.StatusNotFound,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrMagicLinkExpired = New(
	CodeTokenExpired,
	"auth",
	"Sign-in link has expired",
	http.StatusUnauthorized,
)

var ErrWeakPassword = New(
	CodeWeakPassword,
	"auth",
	"Password is too weak",
	http.StatusBadRequest,
)

var ErrPasswordMismatch = New(
	CodeValidationFailed,
	"auth",
	"Passwords do not match",
	http.StatusBadRequest,
)

var ErrPasswordChangeRequired = New(
	CodePasswordChangeRequired,
	"auth",
	"Password change required before continuing",
	http.StatusForbidden,
)

var ErrInvalidUserRole = New(
	CodeInvalidOperation,
	"auth",
	"Invalid user role",
	http.StatusBadRequest,
)

var ErrTooManyRequests = New(
	CodeTooManyRequests,
	"auth",
	"Too many requests, try again later",
	http.StatusTooManyRequests,
)

// =========================================================================
// Files and storage
// =========================================================================

var ErrFileTooLarge = New(
	CodeValidationFailed,
	"storage",
	"File too large",
	http.StatusBadRequest,
)

var ErrInvalidFileType = New(
	CodeValidationFailed,
	"storage",
	"Invalid file type",
	http.StatusBadRequest,
)

var ErrMissingResume = New(
	CodeValidationFailed,
	"storage",
	"Resume file is required",
	http.StatusBadRequest,
)
