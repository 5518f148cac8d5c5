package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token revoked")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
	ErrInvalidFormat    = errors.New("invalid token format")
)

// Session errors
var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrNotAuthenticated    = errors.New("session is not authenticated")
	ErrCourseRequired      = errors.New("a course must be selected first")
	ErrInvalidRole         = errors.New("invalid role")
	ErrInvalidTab          = errors.New("invalid tab")
	ErrChatTabInactive     = errors.New("chat is only available on the chat tab")
	ErrSessionLimitReached = errors.New("too many active sessions")
)

// Catalog errors
var (
	ErrCourseNotFound      = errors.New("course not found")
	ErrCourseAlreadyExists = errors.New("course already exists")
	ErrFileNotFound        = errors.New("file not found")
)

// NewForbiddenError wraps ErrPermissionDenied with a client-facing message
func NewForbiddenError(message string) error {
	return &CustomError{Err: ErrPermissionDenied, Message: message}
}

// NewBadRequestError wraps ErrBadRequest with a client-facing message
func NewBadRequestError(message string) error {
	return &CustomError{Err: ErrBadRequest, Message: message}
}

// CustomError pairs a sentinel with the message shown to clients.
// errors.Is still matches the sentinel.
type CustomError struct {
	Err     error
	Message string
}

func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{Err: err, Message: message}
}
