// Package response writes the JSON bodies the web client expects:
// {"success":true,...} on success and {"success":false,"message":...} on
// failure.
package response

import (
	"encoding/json"
	"net/http"
)

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// Error writes the failure envelope.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, errorBody{Message: message})
}

// ErrorWithCause writes the failure envelope including the cause text.
func ErrorWithCause(w http.ResponseWriter, status int, message, cause string) {
	JSON(w, status, errorBody{Message: message, Error: cause})
}
