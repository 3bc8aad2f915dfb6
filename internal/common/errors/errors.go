// Package errors provides standardized error handling for the generation pipeline.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Fatal codes: the request is aborted and no artifact is retained as valid.
	ErrCodeRequestInvalid           ErrorCode = "REQUEST_INVALID"
	ErrCodeTemplateResolutionFailed ErrorCode = "TEMPLATE_RESOLUTION_FAILED"
	ErrCodeTemplateRenderFailed     ErrorCode = "TEMPLATE_RENDER_FAILED"
	ErrCodeRenderEngineFailed       ErrorCode = "RENDER_ENGINE_FAILED"
	ErrCodeArtifactWriteFailed      ErrorCode = "ARTIFACT_WRITE_FAILED"

	// Warning codes: recorded but the request outcome is unchanged.
	ErrCodeTemplateRepairIncomplete ErrorCode = "TEMPLATE_REPAIR_INCOMPLETE"
	ErrCodeEmailDeliveryFailed      ErrorCode = "EMAIL_DELIVERY_FAILED"
	ErrCodeCallbackDeliveryFailed   ErrorCode = "CALLBACK_DELIVERY_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Fatal     bool                   `json:"fatal"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// IsFatal reports whether err carries a fatal StandardError. Unknown error
// types are treated as fatal: an unclassified failure must never be
// reported to the caller as a success.
func IsFatal(err error) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Fatal
	}
	return err != nil
}

// AsStandardError unwraps err to a StandardError, or nil.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return nil
}

// CodeOf extracts the error code, or INTERNAL_ERROR for foreign errors.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code
	}
	return "INTERNAL_ERROR"
}

// NewRequestInvalidError creates a non-retryable request envelope error.
func NewRequestInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequestInvalid,
		Message:   "Generation request failed validation",
		Details:   details,
		Retryable: false,
		Fatal:     true,
		Timestamp: time.Now().UTC(),
	}
}

// NewTemplateResolutionError creates a fatal resolution error: no usable
// template was found for the requested document type.
func NewTemplateResolutionError(documentType string, tried []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTemplateResolutionFailed,
		Message:   "No usable template found for document type",
		Details:   fmt.Sprintf("documentType: %s, tried: %s", documentType, strings.Join(tried, ", ")),
		Retryable: false,
		Fatal:     true,
		Timestamp: time.Now().UTC(),
	}
}

// NewTemplateRenderError creates a fatal substitution/conversion error. The
// offending placeholders are carried in Metadata under "placeholders".
func NewTemplateRenderError(details string, placeholders []string) *StandardError {
	e := &StandardError{
		Code:      ErrCodeTemplateRenderFailed,
		Message:   "Template is structurally invalid",
		Details:   details,
		Retryable: false,
		Fatal:     true,
		Timestamp: time.Now().UTC(),
	}
	if len(placeholders) > 0 {
		e.Metadata = map[string]interface{}{"placeholders": placeholders}
	}
	return e
}

// NewRenderEngineError creates a fatal rasterization error. Launch failures
// are marked retryable so the caller may resubmit once the host recovers.
func NewRenderEngineError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRenderEngineFailed,
		Message:   "Rendering engine failed to produce output",
		Details:   err.Error(),
		Retryable: true,
		Fatal:     true,
		Timestamp: time.Now().UTC(),
	}
}

// NewArtifactWriteFailedError creates a fatal filesystem error.
func NewArtifactWriteFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeArtifactWriteFailed,
		Message:   "Failed to write rendered artifact",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: true,
		Fatal:     true,
		Timestamp: time.Now().UTC(),
	}
}

// NewTemplateRepairWarning records an incomplete delimiter normalization.
func NewTemplateRepairWarning(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTemplateRepairIncomplete,
		Message:   "Template repair could not fully normalize delimiters",
		Details:   details,
		Retryable: false,
		Fatal:     false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmailDeliveryWarning records a failed mail-out. The artifact already
// exists at this point, so the generation is still a success.
func NewEmailDeliveryWarning(recipient string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmailDeliveryFailed,
		Message:   "Failed to deliver artifact by email",
		Details:   fmt.Sprintf("recipient: %s, error: %s", recipient, err.Error()),
		Retryable: false,
		Fatal:     false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCallbackDeliveryWarning records a failed completion callback.
func NewCallbackDeliveryWarning(url string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCallbackDeliveryFailed,
		Message:   "Failed to report completion to callback endpoint",
		Details:   fmt.Sprintf("callbackUrl: %s, error: %s", url, err.Error()),
		Retryable: false,
		Fatal:     false,
		Timestamp: time.Now().UTC(),
	}
}
