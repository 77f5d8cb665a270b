package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	bperrors "github.com/boutproject/boutpkg/pkg/errors"
)

func TestHTTPStatusFromCode(t *testing.T) {
	tests := []struct {
		code bperrors.ErrorCode
		want int
	}{
		{bperrors.ErrCodeInvalidRequest, http.StatusBadRequest},
		{bperrors.ErrCodeUnknownVariant, http.StatusBadRequest},
		{bperrors.ErrCodeInvalidValue, http.StatusBadRequest},
		{bperrors.ErrCodeValidatorRejected, http.StatusUnprocessableEntity},
		{bperrors.ErrCodeConflictingDefinition, http.StatusConflict},
		{bperrors.ErrCodeNotFound, http.StatusNotFound},
		{bperrors.ErrCodeMethodNotAllowed, http.StatusMethodNotAllowed},
		{bperrors.ErrCodeRateLimitExceeded, http.StatusTooManyRequests},
		{bperrors.ErrCodeUnavailable, http.StatusServiceUnavailable},
		{bperrors.ErrCodeTimeout, http.StatusGatewayTimeout},
		{bperrors.ErrCodeUnresolvedReference, http.StatusInternalServerError},
		{bperrors.ErrCodeDuplicateVariant, http.StatusInternalServerError},
		{bperrors.ErrCodeInternal, http.StatusInternalServerError},
		{bperrors.ErrorCode("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := HTTPStatusFromCode(tt.code); got != tt.want {
				t.Fatalf("HTTPStatusFromCode(%q) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}

func TestRetryableFromCode(t *testing.T) {
	retryable := []bperrors.ErrorCode{
		bperrors.ErrCodeTimeout, bperrors.ErrCodeUnavailable,
		bperrors.ErrCodeRateLimitExceeded, bperrors.ErrCodeInternal,
	}
	permanent := []bperrors.ErrorCode{
		bperrors.ErrCodeInvalidRequest, bperrors.ErrCodeNotFound, bperrors.ErrCodeUnknownVariant,
		bperrors.ErrCodeInvalidValue, bperrors.ErrCodeConflictingDefinition, "SOMETHING_ELSE",
	}
	for _, c := range retryable {
		if !retryableFromCode(c) {
			t.Errorf("%s should be retryable", c)
		}
	}
	for _, c := range permanent {
		if retryableFromCode(c) {
			t.Errorf("%s should not be retryable", c)
		}
	}
}

func TestMergeDetails(t *testing.T) {
	if got := mergeDetails(nil, map[string]any{}); got != nil {
		t.Fatalf("expected nil, got %#v", got)
	}

	got := mergeDetails(map[string]any{"a": 1, "shared": "old"}, map[string]any{"b": 2, "shared": "new"})
	if got["a"] != 1 || got["b"] != 2 || got["shared"] != "new" {
		t.Fatalf("mergeDetails() = %#v", got)
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return resp
}

func TestWriteError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), contextKeyRequestID, "req-123"))
	w := httptest.NewRecorder()

	WriteError(w, req, http.StatusBadRequest, bperrors.ErrCodeInvalidRequest, "bad request", false, map[string]any{"k": "v"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	resp := decodeError(t, w)
	if resp.Code != "INVALID_REQUEST" || resp.Message != "bad request" || resp.RequestID != "req-123" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Retryable || resp.Details["k"] != "v" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestWriteErrorFromErr(t *testing.T) {
	t.Run("structured", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		err := bperrors.NewWithContext(bperrors.ErrCodeUnknownVariant, `boutpp: unknown variant "cuda"`,
			map[string]any{"variant": "cuda"})
		WriteErrorFromErr(w, req, err, "fallback", map[string]any{"extra": "yes"})

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
		resp := decodeError(t, w)
		if resp.Code != "UNKNOWN_VARIANT" || resp.Retryable {
			t.Fatalf("unexpected response %+v", resp)
		}
		if resp.Details["variant"] != "cuda" || resp.Details["extra"] != "yes" {
			t.Fatalf("details = %#v", resp.Details)
		}
		if resp.RequestID == "" {
			t.Error("request ID should be generated")
		}
	})

	t.Run("wrapped cause", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		err := bperrors.Wrap(bperrors.ErrCodeUnavailable, "index unavailable", errors.New("dial tcp: refused"))
		WriteErrorFromErr(w, req, err, "fallback", nil)

		resp := decodeError(t, w)
		if w.Code != http.StatusServiceUnavailable || !resp.Retryable {
			t.Fatalf("unexpected %d %+v", w.Code, resp)
		}
		if resp.Details["error"] != "dial tcp: refused" {
			t.Fatalf("details = %#v", resp.Details)
		}
	})

	t.Run("unstructured", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		WriteErrorFromErr(w, req, errors.New("boom"), "fallback", map[string]any{"x": "y"})

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", w.Code)
		}
		resp := decodeError(t, w)
		if resp.Code != "INTERNAL" || resp.Message != "fallback" {
			t.Fatalf("unexpected response %+v", resp)
		}
		if resp.Details["x"] != "y" || resp.Details["error"] != "boom" {
			t.Fatalf("details = %#v", resp.Details)
		}
	})
}
