package ports

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNoCredentials is returned when signing credentials are not configured
	ErrNoCredentials = errors.New("LiveKit credentials are not configured")

	// ErrRoomAPIUnavailable is returned when no server URL is configured
	ErrRoomAPIUnavailable = errors.New("LiveKit room API is not configured")

	// ErrRoomNotFound is returned when a room does not exist on the server
	ErrRoomNotFound = errors.New("room not found")
)

// AccessToken contains a signed LiveKit join token
type AccessToken struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// TokenIssuer mints LiveKit access tokens. Implementations need signing
// credentials only; no server connection is involved.
type TokenIssuer interface {
	IssueToken(ctx context.Context, room, identity, name string) (*AccessToken, error)
}

// Participant represents a participant connected to a room
type Participant struct {
	SID      string `json:"sid"`
	Identity string `json:"identity"`
	Name     string `json:"name,omitempty"`
}

// Room represents a room on the LiveKit server
type Room struct {
	Name            string         `json:"name"`
	SID             string         `json:"sid"`
	MaxParticipants uint32         `json:"max_participants,omitempty"`
	Metadata        string         `json:"metadata,omitempty"`
	CreatedAt       int64          `json:"created_at,omitempty"`
	Participants    []*Participant `json:"participants,omitempty"`
}

// RoomService defines the interface for server-side LiveKit room operations.
// maxParticipants of 0 means the configured default.
type RoomService interface {
	CreateRoom(ctx context.Context, name string, maxParticipants uint32) (*Room, error)
	ListRooms(ctx context.Context) ([]*Room, error)
	GetRoom(ctx context.Context, name string) (*Room, error)
	DeleteRoom(ctx context.Context, name string) error
	ListParticipants(ctx context.Context, roomName string) ([]*Participant, error)
	SendData(ctx context.Context, roomName string, data []byte, identities []string) error
}

// CallEvent is a call-status frame pushed to notify subscribers
type CallEvent struct {
	Type    string         `json:"type"`
	Room    string         `json:"room"`
	Caller  string         `json:"caller,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
	At      time.Time      `json:"at"`
}

// CallNotifier defines the interface for fanning call events out to
// subscribed clients. Delivery is best-effort; dead connections are dropped.
type CallNotifier interface {
	NotifyUser(identity string, event *CallEvent)
	NotifyAll(event *CallEvent)
}

// IDGenerator generates unique names for entities
type IDGenerator interface {
	// GenerateRoomName generates a new room name (hall_xxx)
	GenerateRoomName() string
}
