package httpx

import (
	"fmt"
	"net/http"
)

// Stable machine-distinguishable error kinds returned to clients. Every
// user-facing failure maps onto exactly one of these.
const (
	KindValidation      = "validation_error"
	KindUnauthenticated = "unauthenticated"
	KindForbidden       = "forbidden"
	KindNotFound        = "not_found"
	KindServerError     = "server_error"
)

// APIError is a user-facing error: a status code, a stable kind and a human
// message. Stack traces and internal error chains never reach the client;
// they are logged server-side only.
type APIError struct {
	StatusCode int    `json:"-"`
	Kind       string `json:"error"`
	Message    string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Write sends the error to the client as JSON.
func (e *APIError) Write(w http.ResponseWriter) {
	NoCache(w)
	WriteJSON(w, e.StatusCode, e)
}

// ValidationError reports missing or malformed client input (400).
func ValidationError(msg string) *APIError {
	return &APIError{StatusCode: http.StatusBadRequest, Kind: KindValidation, Message: msg}
}

// Unauthenticated reports a missing/invalid/expired token or bad
// credentials (401).
func Unauthenticated(msg string) *APIError {
	return &APIError{StatusCode: http.StatusUnauthorized, Kind: KindUnauthenticated, Message: msg}
}

// Forbidden reports an authenticated caller with insufficient role or
// department scope (403).
func Forbidden(msg string) *APIError {
	return &APIError{StatusCode: http.StatusForbidden, Kind: KindForbidden, Message: msg}
}

// NotFound reports an absent entity (404).
func NotFound(msg string) *APIError {
	return &APIError{StatusCode: http.StatusNotFound, Kind: KindNotFound, Message: msg}
}

// Internal reports an unexpected failure (500). The message is generic on
// purpose; details belong in the server log.
func Internal() *APIError {
	return &APIError{StatusCode: http.StatusInternalServerError, Kind: KindServerError, Message: "internal server error"}
}
