package errors

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestNormalize_PassesAppErrorThrough(t *testing.T) {
	original := NewLowQualityImage([]string{"too dark"})

	normalized := Normalize(original)
	if normalized != original {
		t.Error("Expected an existing AppError to pass through unchanged")
	}
}

func TestNormalize_WrapsUnknownErrors(t *testing.T) {
	raw := errors.New("index out of range")

	normalized := Normalize(raw)
	if normalized.Kind != KindMLFailure {
		t.Errorf("Expected ml_failure catch-all, got %s", normalized.Kind)
	}
	if normalized.Message != "Unexpected error: index out of range" {
		t.Errorf("Unexpected catch-all message: %s", normalized.Message)
	}
	if !errors.Is(normalized, raw) {
		t.Error("Expected the original error to stay reachable via Unwrap")
	}
}

func TestNormalize_Nil(t *testing.T) {
	if Normalize(nil) != nil {
		t.Error("Expected nil to normalize to nil")
	}
}

func TestIsKind(t *testing.T) {
	err := NewProcessingTimeout("enhance")

	if !IsKind(err, KindProcessingTimeout) {
		t.Error("Expected IsKind to match the timeout kind")
	}
	if IsKind(err, KindNetworkError) {
		t.Error("Expected IsKind to reject other kinds")
	}
	if IsKind(errors.New("plain"), KindMLFailure) {
		t.Error("Expected IsKind to reject non-AppError errors")
	}
}

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{NewInvalidImage(nil), http.StatusBadRequest},
		{NewLowQualityImage(nil), http.StatusUnprocessableEntity},
		{NewProcessingTimeout("detect"), http.StatusGatewayTimeout},
		{NewNetworkError("fetch", nil), http.StatusBadGateway},
		{NewStorageError("save", nil), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := GetStatusCode(tc.err); got != tc.code {
			t.Errorf("Expected status %d for %v, got %d", tc.code, tc.err, got)
		}
	}
}

func TestLowQualityCarriesIssues(t *testing.T) {
	err := NewLowQualityImage([]string{"too dark", "blurry"})
	if len(err.Issues) != 2 {
		t.Errorf("Expected issues preserved, got %v", err.Issues)
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkError("failed to fetch image", cause)

	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Expected cause in error string, got %s", err.Error())
	}
}

func TestUserMessageAndRecovery_DefinedForEveryKind(t *testing.T) {
	kinds := []Kind{
		KindInvalidImage, KindLowQualityImage, KindProcessingTimeout,
		KindMLFailure, KindInsufficientData, KindNetworkError, KindStorageError,
	}
	for _, kind := range kinds {
		if UserMessage(kind) == "" {
			t.Errorf("Expected a user message for %s", kind)
		}
		if RecoverySuggestion(kind) == "" {
			t.Errorf("Expected a recovery suggestion for %s", kind)
		}
	}
}

func TestUserMessage_UnknownKindFallsBack(t *testing.T) {
	if UserMessage(Kind("bogus")) != UserMessage(KindMLFailure) {
		t.Error("Expected an unknown kind to fall back to the generic message")
	}
}
