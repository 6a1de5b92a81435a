// Package errors provides the unified error type for the ytscribe service.
// Every pipeline stage reports failures as an *AppError carrying a
// machine-readable code and the HTTP status the API layer should answer with.
package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// HTTPStatus is the HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// --- Domain Error Constructors ---

// InvalidReference creates an error for a video reference that is neither an
// ID nor a recognized URL shape.
func InvalidReference(input string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidReference, Message: fmt.Sprintf("Invalid YouTube URL or video ID: %s", input),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"input": input},
	}
}

// DownloadFailed creates an error for a failed whole-video audio download.
func DownloadFailed(cause error) *AppError {
	return &AppError{
		Code: ErrCodeDownloadFailed, Message: "Failed to download audio from the video.",
		HTTPStatus: http.StatusBadGateway, Cause: cause,
	}
}

// SegmentDownloadFailed creates an error for a bounded-range fetch where every
// strategy failed. The last strategy's error is the cause.
func SegmentDownloadFailed(cause error) *AppError {
	return &AppError{
		Code: ErrCodeSegmentDownloadFailed, Message: "Failed to download the requested video segment.",
		HTTPStatus: http.StatusBadGateway, Cause: cause,
	}
}

// TranscodeFailed creates an error for a failed audio conversion.
func TranscodeFailed(cause error) *AppError {
	return &AppError{
		Code: ErrCodeTranscodeFailed, Message: "Failed to convert audio to the transcription format.",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}

// ChunkingFailed creates an error for a split that produced no output pieces.
func ChunkingFailed(cause error) *AppError {
	return &AppError{
		Code: ErrCodeChunkingFailed, Message: "Failed to split oversized audio into chunks.",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}

// EmptyAsset creates an error for an audio file that is missing or zero-size.
func EmptyAsset(path string) *AppError {
	return &AppError{
		Code: ErrCodeEmptyAsset, Message: "Audio file doesn't exist or is empty.",
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"path": path},
	}
}

// TranscriptionService creates an error wrapping a failure or malformed
// response from the remote transcription service.
func TranscriptionService(cause error) *AppError {
	return &AppError{
		Code: ErrCodeTranscriptionService, Message: "The transcription service encountered an error.",
		HTTPStatus: http.StatusBadGateway, Cause: cause,
	}
}

// Validation creates an error for invalid request input.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// Internal creates an error for an unexpected internal failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred. Please try again.",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}
