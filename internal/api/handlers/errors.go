package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"Vidora/internal/core/blobs"
	"Vidora/internal/core/users"
	"Vidora/internal/validation"
)

// ErrorResponse is the JSON body of every error response
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// WriteError writes a standardized JSON error response
func WriteError(w http.ResponseWriter, statusCode int, errorType, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: errorType, Message: message})
}

// WriteJSON writes v as a JSON response with the given status
func WriteJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// WriteValidationError writes a 400 response, listing field errors when err carries them
func WriteValidationError(w http.ResponseWriter, err error) {
	var fieldErr *validation.Error
	if errors.As(err, &fieldErr) {
		fields := make(map[string]string, len(fieldErr.Fields))
		for _, f := range fieldErr.Fields {
			fields[f.Field] = f.Message
		}
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "InvalidRequest",
			Message: fieldErr.Error(),
			Fields:  fields,
		})
		return
	}
	WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
}

// WriteUnexpectedError maps failures no domain classifier recognised. Storage failures
// become 503, writes by a deleted account 401, and anything else a 500 with a
// generic body; the cause is logged.
func WriteUnexpectedError(w http.ResponseWriter, r *http.Request, err error) {
	if users.IsNotFound(err) {
		slog.Warn("request by missing account", "method", r.Method, "path", r.URL.Path, "error", err)
		WriteError(w, http.StatusUnauthorized, "AuthenticationRequired", "Account no longer exists")
		return
	}
	if errors.Is(err, blobs.ErrStorageUnavailable) {
		slog.Warn("object storage failure", "method", r.Method, "path", r.URL.Path, "error", err)
		WriteError(w, http.StatusServiceUnavailable, "StorageUnavailable", "File storage is temporarily unavailable")
		return
	}
	if blobs.IsValidationError(err) {
		WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}

	slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	WriteError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
}
