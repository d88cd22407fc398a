package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrSignatureInvalid    = NewError("SIGNATURE_INVALID", "webhook signature verification failed", http.StatusForbidden)
	ErrMalformedEvent      = NewError("MALFORMED_EVENT", "event could not be decoded", http.StatusBadRequest)
	ErrStorageWrite        = NewError("STORAGE_WRITE", "failed to persist message record", http.StatusInternalServerError)
	ErrStorageCorrupt      = NewError("STORAGE_CORRUPT", "persisted message data is not well-formed", http.StatusInternalServerError)
	ErrInvalidURI          = NewError("INVALID_URI", "resource URI is not recognized", http.StatusBadRequest)
	ErrResourceUnavailable = NewError("RESOURCE_UNAVAILABLE", "resource could not be read", http.StatusServiceUnavailable)
	ErrValidation          = NewError("VALIDATION_ERROR", "validation failed", http.StatusBadRequest)
	ErrInternal            = NewError("INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
)

type Error struct {
	Code    string
	Message string
	Status  int
	Details map[string]interface{}
	Cause   error
}

func NewError(code, message string, status int) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Status:  status,
		Details: make(map[string]interface{}),
	}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on the error code so sentinel comparisons survive the copies
// made by WithCause and WithDetail.
func (e *Error) Is(target error) bool {
	var appErr *Error
	if errors.As(target, &appErr) {
		return e.Code == appErr.Code
	}
	return false
}

func (e *Error) WithCause(cause error) *Error {
	err := *e
	err.Cause = cause
	return &err
}

func (e *Error) WithDetail(key string, value interface{}) *Error {
	err := *e
	if err.Details == nil {
		err.Details = make(map[string]interface{})
	}
	err.Details[key] = value
	return &err
}

func (e *Error) WithMessage(message string) *Error {
	err := *e
	err.Message = message
	return &err
}

func Wrap(err error, appErr *Error) *Error {
	if err == nil {
		return nil
	}
	return appErr.WithCause(err)
}

func Code(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal.Code
}

func IsSignatureInvalid(err error) bool {
	return hasCode(err, ErrSignatureInvalid.Code)
}

func IsMalformedEvent(err error) bool {
	return hasCode(err, ErrMalformedEvent.Code)
}

func IsStorageCorrupt(err error) bool {
	return hasCode(err, ErrStorageCorrupt.Code)
}

func IsInvalidURI(err error) bool {
	return hasCode(err, ErrInvalidURI.Code)
}

func hasCode(err error, code string) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

func ToHTTPStatus(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

func ToErrorResponse(err error) map[string]interface{} {
	var appErr *Error
	if !errors.As(err, &appErr) {
		// If it's not our error type, wrap it
		appErr = ErrInternal.WithCause(err)
	}

	response := map[string]interface{}{
		"error":      appErr.Message,
		"error_code": appErr.Code,
	}

	if len(appErr.Details) > 0 {
		response["details"] = appErr.Details
	}

	return response
}
