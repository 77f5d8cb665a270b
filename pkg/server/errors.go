package server

import (
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	bperrors "github.com/boutproject/boutpkg/pkg/errors"
	"github.com/boutproject/boutpkg/pkg/serializer"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Code      string         `json:"code" yaml:"code"`
	Message   string         `json:"message" yaml:"message"`
	Details   map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
	RequestID string         `json:"requestId" yaml:"requestId"`
	Timestamp time.Time      `json:"timestamp" yaml:"timestamp"`
	Retryable bool           `json:"retryable" yaml:"retryable"`
}

// HTTPStatusFromCode maps an error code to an HTTP status.
func HTTPStatusFromCode(code bperrors.ErrorCode) int {
	switch code {
	case bperrors.ErrCodeInvalidRequest,
		bperrors.ErrCodeUnknownVariant,
		bperrors.ErrCodeInvalidValue:
		return http.StatusBadRequest
	case bperrors.ErrCodeValidatorRejected:
		return http.StatusUnprocessableEntity
	case bperrors.ErrCodeConflictingDefinition:
		return http.StatusConflict
	case bperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case bperrors.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case bperrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case bperrors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case bperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		// recipe defects (duplicate variants, unresolved references) land here
		return http.StatusInternalServerError
	}
}

func retryableFromCode(code bperrors.ErrorCode) bool {
	switch code {
	case bperrors.ErrCodeTimeout,
		bperrors.ErrCodeUnavailable,
		bperrors.ErrCodeRateLimitExceeded,
		bperrors.ErrCodeInternal:
		return true
	default:
		return false
	}
}

func mergeDetails(a, b map[string]any) map[string]any {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// WriteError writes an ErrorResponse carrying the request ID from the
// context, or a fresh one.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code bperrors.ErrorCode, message string, retryable bool, details map[string]any) {

	requestID, _ := r.Context().Value(contextKeyRequestID).(string)
	if requestID == "" {
		requestID = uuid.New().String()
	}
	httpErrorsTotal.WithLabelValues(string(code)).Inc()

	serializer.RespondJSON(w, statusCode, ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	})
}

// WriteErrorFromErr writes err as an ErrorResponse. A StructuredError
// supplies the code, message and context; anything else is reported as an
// internal error with fallbackMessage.
func WriteErrorFromErr(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string, extraDetails map[string]any) {
	var se *bperrors.StructuredError
	if !stderrors.As(err, &se) {
		slog.Error("unstructured handler error", "error", err, "path", r.URL.Path)
		WriteError(w, r, http.StatusInternalServerError, bperrors.ErrCodeInternal, fallbackMessage,
			retryableFromCode(bperrors.ErrCodeInternal),
			mergeDetails(extraDetails, map[string]any{"error": err.Error()}))
		return
	}

	details := mergeDetails(se.Context, extraDetails)
	if se.Cause != nil {
		details = mergeDetails(details, map[string]any{"error": se.Cause.Error()})
	}
	message := se.Message
	if message == "" {
		message = fallbackMessage
	}
	WriteError(w, r, HTTPStatusFromCode(se.Code), se.Code, message, retryableFromCode(se.Code), details)
}
