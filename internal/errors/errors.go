package errors

import (
	"fmt"
	"net/http"
)

// Kind is the stable identifier for an analysis error. Host UIs match on
// these values, never on message text.
type Kind string

const (
	KindInvalidImage      Kind = "invalid_image"
	KindLowQualityImage   Kind = "low_quality_image"
	KindProcessingTimeout Kind = "processing_timeout"
	KindMLFailure         Kind = "ml_failure"
	KindInsufficientData  Kind = "insufficient_data"
	KindNetworkError      Kind = "network_error"
	KindStorageError      Kind = "storage_error"
)

// AppError is the one error type the pipeline surfaces to callers.
type AppError struct {
	Kind       Kind     `json:"kind"`
	Message    string   `json:"message"`
	Issues     []string `json:"issues,omitempty"`
	StatusCode int      `json:"status_code"`
	Cause      error    `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewInvalidImage reports an undecodable input image.
func NewInvalidImage(cause error) *AppError {
	return &AppError{
		Kind:       KindInvalidImage,
		Message:    "image could not be decoded",
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewLowQualityImage reports a quality-gate rejection with the collected issues.
func NewLowQualityImage(issues []string) *AppError {
	return &AppError{
		Kind:       KindLowQualityImage,
		Message:    "image quality below analysis threshold",
		Issues:     issues,
		StatusCode: http.StatusUnprocessableEntity,
	}
}

// NewProcessingTimeout reports a pipeline stage exceeding its budget.
func NewProcessingTimeout(stage string) *AppError {
	return &AppError{
		Kind:       KindProcessingTimeout,
		Message:    fmt.Sprintf("stage %q exceeded its time budget", stage),
		StatusCode: http.StatusGatewayTimeout,
	}
}

// NewMLFailure reports an ML-specific or unclassified internal error.
func NewMLFailure(detail string, cause error) *AppError {
	return &AppError{
		Kind:       KindMLFailure,
		Message:    detail,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewInsufficientData reports collaborator output too thin to analyze.
func NewInsufficientData(message string) *AppError {
	return &AppError{
		Kind:       KindInsufficientData,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
	}
}

// NewNetworkError reports a failure reaching an image source.
func NewNetworkError(message string, cause error) *AppError {
	return &AppError{
		Kind:       KindNetworkError,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewStorageError reports a persistence collaborator failure.
func NewStorageError(message string, cause error) *AppError {
	return &AppError{
		Kind:       KindStorageError,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// Normalize guarantees the caller receives one of the defined kinds. An
// AppError passes through unchanged; anything else becomes the ml_failure
// catch-all so no raw error escapes the pipeline.
func Normalize(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return NewMLFailure(fmt.Sprintf("Unexpected error: %v", err), err)
}

// IsKind checks whether the error carries the given kind.
func IsKind(err error, kind Kind) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Kind == kind
	}
	return false
}

// GetStatusCode extracts the HTTP status code from an error.
func GetStatusCode(err error) int {
	if appErr, ok := err.(*AppError); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// userMessages maps each kind to the human-readable message a host UI shows.
var userMessages = map[Kind]string{
	KindInvalidImage:      "The photo could not be read.",
	KindLowQualityImage:   "The photo quality is too low to analyze.",
	KindProcessingTimeout: "The analysis took too long and was stopped.",
	KindMLFailure:         "Something went wrong while analyzing the photo.",
	KindInsufficientData:  "Not enough detail was found in the photo.",
	KindNetworkError:      "The photo could not be downloaded.",
	KindStorageError:      "Your results could not be saved.",
}

// recoverySuggestions maps each kind to a recovery hint for the user.
var recoverySuggestions = map[Kind]string{
	KindInvalidImage:      "Retake the photo and make sure it is a JPEG or PNG image.",
	KindLowQualityImage:   "Ensure good lighting and hold the camera steady, then try again.",
	KindProcessingTimeout: "Try again, or retake the photo at a smaller size.",
	KindMLFailure:         "Please try again in a moment.",
	KindInsufficientData:  "Move closer so your teeth fill more of the frame.",
	KindNetworkError:      "Check your connection and try again.",
	KindStorageError:      "Your analysis still completed; saving will be retried.",
}

// UserMessage returns the human-readable message for a kind.
func UserMessage(kind Kind) string {
	if msg, ok := userMessages[kind]; ok {
		return msg
	}
	return userMessages[KindMLFailure]
}

// RecoverySuggestion returns the recovery hint for a kind.
func RecoverySuggestion(kind Kind) string {
	if s, ok := recoverySuggestions[kind]; ok {
		return s
	}
	return recoverySuggestions[KindMLFailure]
}
