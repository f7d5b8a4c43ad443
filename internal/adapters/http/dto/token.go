package dto

// TokenRequest is the body of the token endpoint. Username and
// ParticipantID are synonyms for the participant identity; Username wins
// when both are set.
type TokenRequest struct {
	Room          string `json:"room"`
	Username      string `json:"username"`
	ParticipantID string `json:"participantId"`
	Name          string `json:"name,omitempty"`
}

// Identity returns the canonical participant identity from the request.
func (r *TokenRequest) Identity() string {
	if r.Username != "" {
		return r.Username
	}
	return r.ParticipantID
}

type TokenResponse struct {
	Token string `json:"token"`
}
