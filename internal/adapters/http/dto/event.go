package dto

// NotifyRequest fans a call signal out to a room's participants.
// An empty To list targets everyone in the room.
type NotifyRequest struct {
	Event   string         `json:"event"`
	Payload map[string]any `json:"payload,omitempty"`
	To      []string       `json:"to,omitempty"`
}
