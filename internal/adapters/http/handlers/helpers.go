package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hallworld/hallgate/internal/adapters/http/dto"
)

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error JSON response
func respondError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.NewErrorResponse(message))
}

// validateURLParam validates and returns a URL parameter
func validateURLParam(r *http.Request, w http.ResponseWriter, paramName, errorField string) (string, bool) {
	value := chi.URLParam(r, paramName)
	if value == "" {
		respondError(w, errorField+" is required", http.StatusBadRequest)
		return "", false
	}
	return value, true
}

// decodeJSON decodes JSON request body with error handling
func decodeJSON[T any](r *http.Request, w http.ResponseWriter) (*T, bool) {
	// Add request body size limit
	r.Body = http.MaxBytesReader(w, r.Body, 1024*1024) // 1MB limit

	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return nil, false
	}
	return &req, true
}
