package utils

import (
	"encoding/json"
	"net/http"
)

// APIError represents an API error
type APIError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new API error
func NewAPIError(message string, status int) *APIError {
	return &APIError{
		Status:  status,
		Message: message,
	}
}

// SendErrorResponse sends an error response
func SendErrorResponse(w http.ResponseWriter, err *APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   "error",
		"message": err.Message,
	})
}

// SendJSON writes data as a JSON response with the given status code.
func SendJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
