package apierrors

import (
	"errors"
	"strings"

	"appointment-ivr/internal/agent"
	authProcessor "appointment-ivr/internal/auth/processor"
	"appointment-ivr/internal/calllog"
	"appointment-ivr/internal/clients/openai"
	"appointment-ivr/internal/scheduling"
	"appointment-ivr/internal/store"
)

// MapError converts domain errors to APIErrors. Unknown errors become a
// sanitized 500.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	// Slot validation. Checked before ErrValidation, which wraps them.
	case errors.Is(err, scheduling.ErrPastDate):
		return BadRequest(CodePastDate, "Appointments cannot be booked in the past")

	case errors.Is(err, scheduling.ErrOutsideBusinessHours):
		return BadRequest(CodeOutsideBusinessHours, "Appointment time is outside business hours")

	case errors.Is(err, scheduling.ErrInvalidGranularity):
		return BadRequest(CodeInvalidGranularity, "Appointment time does not fall on a slot boundary")

	case errors.Is(err, store.ErrValidation):
		return BadRequest(CodeInvalidInput, validationMessage(err))

	case errors.Is(err, store.ErrSlotTaken):
		return Conflict(CodeSlotTaken, "That time slot is already booked")

	case errors.Is(err, store.ErrNotFound):
		return NotFound(CodeAppointmentNotFound, "Appointment not found")

	case errors.Is(err, calllog.ErrNotFound):
		return NotFound(CodeCallNotFound, "Call not found")

	// Admin auth
	case errors.Is(err, authProcessor.ErrIncorrectPassword):
		return Unauthorized("Invalid username or password")

	case errors.Is(err, authProcessor.ErrInvalidToken):
		return Unauthorized("Invalid or expired token")

	case errors.Is(err, authProcessor.ErrAuthDisabled):
		return ServiceUnavailable(CodeFeatureDisabled, "Staff access is not configured", err)

	// Speech input
	case errors.Is(err, openai.ErrEmptyAudio):
		return BadRequest(CodeInvalidInput, "Audio file is empty")

	case errors.Is(err, openai.ErrEmptyText):
		return BadRequest(CodeInvalidInput, "Text is required")

	case errors.Is(err, openai.ErrMissingAPIKey):
		return ServiceUnavailable(CodeFeatureDisabled, "Speech service is not configured", err)

	// Agent
	case errors.Is(err, agent.ErrNoHistory):
		return BadRequest(CodeInvalidInput, "Text is required")

	case errors.Is(err, agent.ErrTooManyToolRounds), errors.Is(err, agent.ErrEmptyReply):
		return ServiceUnavailable(CodeAIServiceError, "AI service could not answer. Please try again.", err)

	default:
		return mapExternalServiceError(err)
	}
}

// validationMessage strips the sentinel prefix so clients see the reason.
func validationMessage(err error) string {
	msg := err.Error()
	prefix := store.ErrValidation.Error() + ": "
	if strings.HasPrefix(msg, prefix) {
		msg = strings.TrimPrefix(msg, prefix)
	}
	if msg == "" {
		return "Invalid appointment request"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// mapExternalServiceError identifies hosted service failures by message.
func mapExternalServiceError(err error) *APIError {
	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "resend") || strings.Contains(errMsg, "email") {
		return ServiceUnavailable(CodeEmailServiceError, "Email service is temporarily unavailable. Please try again later.", err)
	}

	if strings.Contains(errMsg, "tts") || strings.Contains(errMsg, "transcribe") || strings.Contains(errMsg, "whisper") {
		return ServiceUnavailable(CodeSpeechServiceError, "Speech service is temporarily unavailable. Please try again later.", err)
	}

	if strings.Contains(errMsg, "openai") || strings.Contains(errMsg, "gemini") || strings.Contains(errMsg, "chat completion") {
		return ServiceUnavailable(CodeAIServiceError, "AI service is temporarily unavailable. Please try again later.", err)
	}

	return InternalError(err)
}
