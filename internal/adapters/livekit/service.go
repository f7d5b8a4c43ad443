package livekit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hallworld/hallgate/internal/ports"
	"github.com/livekit/protocol/auth"
	lkproto "github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"
)

type ServiceConfig struct {
	URL                 string
	APIKey              string
	APISecret           string
	TokenTTL            time.Duration
	RoomEmptyTimeout    int
	RoomMaxParticipants int
}

func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		URL:                 "",
		APIKey:              "",
		APISecret:           "",
		TokenTTL:            24 * time.Hour,
		RoomEmptyTimeout:    300,
		RoomMaxParticipants: 16,
	}
}

// Service issues access tokens and, when a server URL is configured, talks
// to the LiveKit room API. Token issuance works without a URL; room
// operations return ports.ErrRoomAPIUnavailable without one.
type Service struct {
	config     *ServiceConfig
	roomClient *lksdk.RoomServiceClient
}

func NewService(config *ServiceConfig) *Service {
	if config == nil {
		config = DefaultServiceConfig()
	}

	if config.TokenTTL <= 0 {
		config.TokenTTL = 24 * time.Hour
	}

	var roomClient *lksdk.RoomServiceClient
	if config.URL != "" {
		roomClient = lksdk.NewRoomServiceClient(config.URL, config.APIKey, config.APISecret)
	}

	return &Service{
		config:     config,
		roomClient: roomClient,
	}
}

func (s *Service) IssueToken(ctx context.Context, room, identity, name string) (*ports.AccessToken, error) {
	if room == "" {
		return nil, fmt.Errorf("room name is required")
	}

	if identity == "" {
		return nil, fmt.Errorf("participant identity is required")
	}

	if s.config.APIKey == "" || s.config.APISecret == "" {
		return nil, ports.ErrNoCredentials
	}

	if name == "" {
		name = truncateName(identity, 10)
	}

	at := auth.NewAccessToken(s.config.APIKey, s.config.APISecret)
	canPublish := true
	canSubscribe := true
	// Exactly join/publish/subscribe for the one room; nothing wider.
	grant := &auth.VideoGrant{
		RoomJoin:     true,
		Room:         room,
		CanPublish:   &canPublish,
		CanSubscribe: &canSubscribe,
	}

	at.SetVideoGrant(grant).
		SetIdentity(identity).
		SetName(name).
		SetValidFor(s.config.TokenTTL)

	token, err := at.ToJWT()
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &ports.AccessToken{
		Token:     token,
		ExpiresAt: time.Now().Add(s.config.TokenTTL).Unix(),
	}, nil
}

func (s *Service) CreateRoom(ctx context.Context, name string, maxParticipants uint32) (*ports.Room, error) {
	if s.roomClient == nil {
		return nil, ports.ErrRoomAPIUnavailable
	}

	if name == "" {
		return nil, fmt.Errorf("room name is required")
	}

	if maxParticipants == 0 {
		maxParticipants = uint32(s.config.RoomMaxParticipants)
	}

	metadataMap := map[string]string{
		"created_by": "hallgate",
		"created_at": time.Now().UTC().Format(time.RFC3339),
	}
	metadata, err := json.Marshal(metadataMap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal room metadata: %w", err)
	}

	req := &lkproto.CreateRoomRequest{
		Name:            name,
		EmptyTimeout:    uint32(s.config.RoomEmptyTimeout),
		MaxParticipants: maxParticipants,
		Metadata:        string(metadata),
	}

	room, err := s.roomClient.CreateRoom(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	return roomFromProto(room), nil
}

func (s *Service) ListRooms(ctx context.Context) ([]*ports.Room, error) {
	if s.roomClient == nil {
		return nil, ports.ErrRoomAPIUnavailable
	}

	rooms, err := s.roomClient.ListRooms(ctx, &lkproto.ListRoomsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	result := make([]*ports.Room, 0, len(rooms.GetRooms()))
	for _, room := range rooms.GetRooms() {
		result = append(result, roomFromProto(room))
	}

	return result, nil
}

func (s *Service) GetRoom(ctx context.Context, name string) (*ports.Room, error) {
	if s.roomClient == nil {
		return nil, ports.ErrRoomAPIUnavailable
	}

	if name == "" {
		return nil, fmt.Errorf("room name is required")
	}

	rooms, err := s.roomClient.ListRooms(ctx, &lkproto.ListRoomsRequest{
		Names: []string{name},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	if len(rooms.GetRooms()) == 0 {
		return nil, fmt.Errorf("%w: %s", ports.ErrRoomNotFound, name)
	}

	room := roomFromProto(rooms.GetRooms()[0])

	participants, err := s.ListParticipants(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	room.Participants = participants

	return room, nil
}

func (s *Service) DeleteRoom(ctx context.Context, name string) error {
	if s.roomClient == nil {
		return ports.ErrRoomAPIUnavailable
	}

	if name == "" {
		return fmt.Errorf("room name is required")
	}

	_, err := s.roomClient.DeleteRoom(ctx, &lkproto.DeleteRoomRequest{
		Room: name,
	})
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	return nil
}

func (s *Service) ListParticipants(ctx context.Context, roomName string) ([]*ports.Participant, error) {
	if s.roomClient == nil {
		return nil, ports.ErrRoomAPIUnavailable
	}

	if roomName == "" {
		return nil, fmt.Errorf("room name is required")
	}

	participants, err := s.roomClient.ListParticipants(ctx, &lkproto.ListParticipantsRequest{
		Room: roomName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	participantList := participants.GetParticipants()
	result := make([]*ports.Participant, 0, len(participantList))
	for _, p := range participantList {
		result = append(result, &ports.Participant{
			SID:      p.Sid,
			Identity: p.Identity,
			Name:     p.Name,
		})
	}

	return result, nil
}

func (s *Service) SendData(ctx context.Context, roomName string, data []byte, identities []string) error {
	if s.roomClient == nil {
		return ports.ErrRoomAPIUnavailable
	}

	if roomName == "" {
		return fmt.Errorf("room name is required")
	}

	if len(data) == 0 {
		return fmt.Errorf("data is required")
	}

	destinationIdentities := identities
	if len(identities) == 0 {
		destinationIdentities = nil
	}

	req := &lkproto.SendDataRequest{
		Room:                  roomName,
		Data:                  data,
		Kind:                  lkproto.DataPacket_RELIABLE,
		DestinationIdentities: destinationIdentities,
	}

	_, err := s.roomClient.SendData(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to send data: %w", err)
	}

	return nil
}

func roomFromProto(room *lkproto.Room) *ports.Room {
	return &ports.Room{
		Name:            room.Name,
		SID:             room.Sid,
		MaxParticipants: room.MaxParticipants,
		Metadata:        room.Metadata,
		CreatedAt:       room.CreationTime,
		Participants:    []*ports.Participant{},
	}
}

// truncateName returns at most max runes of s.
func truncateName(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
