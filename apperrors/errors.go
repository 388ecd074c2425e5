package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Stable machine codes. Clients branch on these, never on messages.
const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeAlreadyExists      = "ALREADY_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeTokenMissing       = "TOKEN_MISSING"
	CodeTokenMalformed     = "TOKEN_MALFORMED"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeTokenRevoked       = "TOKEN_REVOKED"
	CodeNotOwner           = "NOT_OWNER"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeInternal           = "INTERNAL"
)

// AppError carries an HTTP status, a stable code and a user-facing
// message. Every handler error is funneled through the translator
// middleware, so responses always have the same shape.
type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(status int, code, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

func InvalidInput(message string) *AppError {
	return New(http.StatusBadRequest, CodeInvalidInput, message)
}

func AlreadyExists(message string) *AppError {
	return New(http.StatusBadRequest, CodeAlreadyExists, message)
}

// InvalidCredentials is a single shared value so that unknown-email and
// wrong-password responses are byte-identical.
func InvalidCredentials() *AppError {
	return New(http.StatusUnauthorized, CodeInvalidCredentials, "Invalid credentials")
}

func TokenMissing() *AppError {
	return New(http.StatusUnauthorized, CodeTokenMissing, "Access denied. Authentication required")
}

func TokenMalformed() *AppError {
	return New(http.StatusUnauthorized, CodeTokenMalformed, "Invalid authentication token")
}

func TokenExpired() *AppError {
	return New(http.StatusUnauthorized, CodeTokenExpired, "Token expired")
}

func TokenRevoked() *AppError {
	return New(http.StatusUnauthorized, CodeTokenRevoked, "Token has been revoked")
}

func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, CodeNotOwner, message)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, CodeNotFound, message)
}

func Conflict(message string) *AppError {
	return New(http.StatusConflict, CodeConflict, message)
}

// Internal hides the underlying cause; database and driver errors must
// never reach a response body.
func Internal() *AppError {
	return New(http.StatusInternalServerError, CodeInternal, "Something went wrong")
}

// From returns err as an *AppError, or a generic Internal error when it
// is anything else.
func From(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return Internal()
}
