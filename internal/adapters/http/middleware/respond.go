package middleware

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/hallworld/hallgate/internal/adapters/http/dto"
)

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(dto.NewErrorResponse(message)); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}
