package apierrors

import (
	"net/http"
)

// Machine-readable codes returned in ErrorResponse.Code.
const (
	CodeInvalidInput           = "INVALID_INPUT"
	CodeOutsideBusinessHours   = "OUTSIDE_BUSINESS_HOURS"
	CodeInvalidGranularity     = "INVALID_GRANULARITY"
	CodePastDate               = "PAST_DATE"
	CodeSlotTaken              = "SLOT_TAKEN"
	CodeAppointmentNotFound    = "APPOINTMENT_NOT_FOUND"
	CodeCallNotFound           = "CALL_NOT_FOUND"
	CodeNotFound               = "NOT_FOUND"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeForbidden              = "FORBIDDEN"
	CodeAIServiceError         = "AI_SERVICE_ERROR"
	CodeSpeechServiceError     = "SPEECH_SERVICE_ERROR"
	CodeEmailServiceError      = "EMAIL_SERVICE_ERROR"
	CodeFeatureDisabled        = "FEATURE_DISABLED"
	CodeInternalError          = "INTERNAL_ERROR"
	internalErrorClientMessage = "An internal error occurred. Please try again later."
)

// APIError is an error that already knows its HTTP representation.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	// Err is the underlying cause. It is logged, never sent to clients.
	Err error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func BadRequest(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusBadRequest, Code: code, Message: message}
}

func Unauthorized(message string) *APIError {
	return &APIError{StatusCode: http.StatusUnauthorized, Code: CodeUnauthorized, Message: message}
}

func Forbidden(message string) *APIError {
	return &APIError{StatusCode: http.StatusForbidden, Code: CodeForbidden, Message: message}
}

func NotFound(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusNotFound, Code: code, Message: message}
}

func Conflict(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusConflict, Code: code, Message: message}
}

func ServiceUnavailable(code, message string, err error) *APIError {
	return &APIError{StatusCode: http.StatusServiceUnavailable, Code: code, Message: message, Err: err}
}

// InternalError hides err behind a generic message.
func InternalError(err error) *APIError {
	return &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       CodeInternalError,
		Message:    internalErrorClientMessage,
		Err:        err,
	}
}
