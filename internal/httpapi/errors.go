package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"llmbench/pkg/types"
)

// HTTPError allows generators to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// modelNotFoundError maps to 404, matching what Ollama returns for unknown models.
type modelNotFoundError struct{ name string }

func (e modelNotFoundError) Error() string   { return "model '" + e.name + "' not found" }
func (e modelNotFoundError) StatusCode() int { return http.StatusNotFound }

// ErrModelNotFound returns an error for a model the generator does not serve.
func ErrModelNotFound(name string) error { return modelNotFoundError{name: name} }

// IsModelNotFound reports whether err indicates an unknown model.
func IsModelNotFound(err error) bool {
	var e modelNotFoundError
	return errors.As(err, &e)
}

// statusFor picks the response code for a generator error.
func statusFor(err error) int {
	var he HTTPError
	if errors.As(err, &he) {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}
