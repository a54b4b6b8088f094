package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// Quiz specific errors
	CodeQuizNotFound        ErrorCode = "QUIZ_NOT_FOUND"
	CodePipelineError       ErrorCode = "PIPELINE_ERROR"
	CodeProviderUnavailable ErrorCode = "PROVIDER_UNAVAILABLE"
)

// PipelineStage tags which stage of the generation pipeline failed.
type PipelineStage string

const (
	StageFetching     PipelineStage = "fetching"
	StageTranscribing PipelineStage = "transcribing"
	StagePrompting    PipelineStage = "prompting"
	StageCompleting   PipelineStage = "completing"
	StageParsing      PipelineStage = "parsing"
	StagePersisting   PipelineStage = "persisting"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface; the cause is never
// serialized so internal details cannot leak into API responses.
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Helper constructors for common errors

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

// NewQuizNotFoundError is returned both when a quiz id does not exist and
// when it belongs to another user, so callers cannot enumerate foreign ids.
func NewQuizNotFoundError(quizID string) *DomainError {
	return NewError(CodeQuizNotFound, fmt.Sprintf("Quiz not found: %s", quizID), nil)
}

// NewPipelineError wraps a stage failure from the generation pipeline.
func NewPipelineError(stage PipelineStage, cause error) *DomainError {
	return NewError(CodePipelineError, fmt.Sprintf("Quiz generation failed at stage %q", stage), cause)
}

// NewProviderUnavailableError signals that the transcription or completion
// backend could not be reached at all.
func NewProviderUnavailableError(provider string, cause error) *DomainError {
	return NewError(CodeProviderUnavailable, fmt.Sprintf("Provider %s is unavailable", provider), cause)
}

// ValidationError represents a single field-level validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates field-level failures into one error value
// so handlers can return them in a single response.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", e[0].Error())
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Message: "is required"}
}

func NewInvalidFieldError(field, message string) ValidationError {
	return ValidationError{Field: field, Message: message}
}
