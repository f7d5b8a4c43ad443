package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/hallworld/hallgate/internal/adapters/http/dto"
	"github.com/hallworld/hallgate/internal/adapters/metrics"
	"github.com/hallworld/hallgate/internal/ports"
)

type TokenHandler struct {
	tokens ports.TokenIssuer
}

func NewTokenHandler(tokens ports.TokenIssuer) *TokenHandler {
	return &TokenHandler{tokens: tokens}
}

// Issue mints a join token for the requested room and identity. Any
// caller who can reach this endpoint gets full publish/subscribe rights
// to the room it names; there is no caller authorization at this layer.
func (h *TokenHandler) Issue(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	req, ok := decodeJSON[dto.TokenRequest](r, w)
	if !ok {
		metrics.TokenFailuresTotal.WithLabelValues("bad_request").Inc()
		return
	}

	if req.Room == "" {
		metrics.TokenFailuresTotal.WithLabelValues("validation").Inc()
		respondError(w, "room is required", http.StatusBadRequest)
		return
	}

	identity := req.Identity()
	if identity == "" {
		metrics.TokenFailuresTotal.WithLabelValues("validation").Inc()
		respondError(w, "username is required", http.StatusBadRequest)
		return
	}

	token, err := h.tokens.IssueToken(r.Context(), req.Room, identity, req.Name)
	if err != nil {
		if errors.Is(err, ports.ErrNoCredentials) {
			log.Printf("token request rejected: %v", err)
			metrics.TokenFailuresTotal.WithLabelValues("credentials").Inc()
			respondError(w, "service is not configured", http.StatusInternalServerError)
			return
		}
		log.Printf("token signing failed for room %q: %v", req.Room, err)
		metrics.TokenFailuresTotal.WithLabelValues("signing").Inc()
		respondError(w, "failed to generate token", http.StatusInternalServerError)
		return
	}

	metrics.TokensIssuedTotal.Inc()
	respondJSON(w, &dto.TokenResponse{Token: token.Token}, http.StatusOK)
}
