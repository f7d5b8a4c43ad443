package dto

type CreateRoomRequest struct {
	Room            string `json:"room,omitempty"`
	MaxParticipants uint32 `json:"maxParticipants,omitempty"`
}

type RoomResponse struct {
	Room            string                `json:"room"`
	SID             string                `json:"sid"`
	MaxParticipants uint32                `json:"maxParticipants,omitempty"`
	CreatedAt       int64                 `json:"createdAt,omitempty"`
	Participants    []ParticipantResponse `json:"participants"`
}

type ParticipantResponse struct {
	SID      string `json:"sid"`
	Identity string `json:"identity"`
	Name     string `json:"name,omitempty"`
}

type RoomListResponse struct {
	Rooms []RoomResponse `json:"rooms"`
}
