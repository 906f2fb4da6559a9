package apperrors

// ErrorCode - machine readable error code returned to clients
type ErrorCode string

// Cross-domain error codes
const (
	// System and unknown errors
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"
	CodePartialFailure       ErrorCode = "PARTIAL_FAILURE"

	// Generic business errors (used by the factories)
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeInvalidStatus    ErrorCode = "INVALID_STATUS"
	CodeInvalidOperation ErrorCode = "INVALID_OPERATION"
	CodeTooManyRequests  ErrorCode = "TOO_MANY_REQUESTS"

	// Authentication and authorization
	CodeUnauthorized           ErrorCode = "UNAUTHORIZED"
	CodeForbidden              ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials     ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken           ErrorCode = "INVALID_TOKEN"
	CodeTokenExpired           ErrorCode = "TOKEN_EXPIRED"
	CodeWeakPassword           ErrorCode = "WEAK_PASSWORD"
	CodePasswordChangeRequired ErrorCode = "PASSWORD_CHANGE_REQUIRED"
)
