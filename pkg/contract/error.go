package contract

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorCode is the machine-readable error classification carried on every
// error that crosses the service boundary.
type ErrorCode string

const (
	ErrorCodeBadRequest            ErrorCode = "BAD_REQUEST"
	ErrorCodeInvalidParameterValue ErrorCode = "INVALID_PARAMETER_VALUE"
	ErrorCodeResourceDoesNotExist  ErrorCode = "RESOURCE_DOES_NOT_EXIST"
	ErrorCodeResourceAlreadyExists ErrorCode = "RESOURCE_ALREADY_EXISTS"
	ErrorCodeEndpointNotFound      ErrorCode = "ENDPOINT_NOT_FOUND"
	ErrorCodeInternalError         ErrorCode = "INTERNAL_ERROR"

	// Versioning-engine specific codes.
	ErrorCodeDuplicateVersion    ErrorCode = "DUPLICATE_VERSION"
	ErrorCodeVersionLocked       ErrorCode = "VERSION_LOCKED"
	ErrorCodeFileNotFound        ErrorCode = "FILE_NOT_FOUND"
	ErrorCodeContentMissing      ErrorCode = "CONTENT_MISSING"
	ErrorCodeStorageUnavailable  ErrorCode = "STORAGE_UNAVAILABLE"
	ErrorCodeInvalidVersionGraph ErrorCode = "INVALID_VERSION_GRAPH"
)

// Error is the error type returned by stores and services. It serializes to
// the wire shape {"error_code": ..., "message": ...} consumed by the UI.
type Error struct {
	Code    ErrorCode `json:"error_code"`
	Message string    `json:"message"`
	inner   error
}

func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

func NewErrorWith(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, inner: err}
}

func (e *Error) Error() string {
	if e.inner != nil {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.inner)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.inner
}

// StatusCode maps the error code to its HTTP status.
func (e *Error) StatusCode() int {
	switch e.Code {
	case ErrorCodeBadRequest, ErrorCodeInvalidParameterValue, ErrorCodeInvalidVersionGraph:
		return fiber.StatusBadRequest
	case ErrorCodeResourceDoesNotExist, ErrorCodeFileNotFound, ErrorCodeEndpointNotFound:
		return fiber.StatusNotFound
	case ErrorCodeResourceAlreadyExists, ErrorCodeDuplicateVersion, ErrorCodeVersionLocked:
		return fiber.StatusConflict
	case ErrorCodeStorageUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
