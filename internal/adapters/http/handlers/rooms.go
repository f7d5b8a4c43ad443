package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/hallworld/hallgate/internal/adapters/http/dto"
	"github.com/hallworld/hallgate/internal/adapters/http/middleware"
	"github.com/hallworld/hallgate/internal/ports"
)

type RoomsHandler struct {
	rooms    ports.RoomService
	notifier ports.CallNotifier
	idGen    ports.IDGenerator
}

func NewRoomsHandler(rooms ports.RoomService, notifier ports.CallNotifier, idGen ports.IDGenerator) *RoomsHandler {
	return &RoomsHandler{
		rooms:    rooms,
		notifier: notifier,
		idGen:    idGen,
	}
}

// Create handles POST /api/rooms. All body fields are optional; an
// absent room name gets a generated one.
func (h *RoomsHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req dto.CreateRoomRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1024*1024)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	name := req.Room
	if name == "" {
		name = h.idGen.GenerateRoomName()
	}

	room, err := h.rooms.CreateRoom(r.Context(), name, req.MaxParticipants)
	if err != nil {
		respondRoomError(w, err, "failed to create room")
		return
	}

	respondJSON(w, roomResponse(room), http.StatusCreated)
}

// List handles GET /api/rooms.
func (h *RoomsHandler) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.ListRooms(r.Context())
	if err != nil {
		respondRoomError(w, err, "failed to list rooms")
		return
	}

	response := dto.RoomListResponse{Rooms: make([]dto.RoomResponse, 0, len(rooms))}
	for _, room := range rooms {
		response.Rooms = append(response.Rooms, *roomResponse(room))
	}

	respondJSON(w, response, http.StatusOK)
}

// Get handles GET /api/rooms/{room}.
func (h *RoomsHandler) Get(w http.ResponseWriter, r *http.Request) {
	name, ok := validateURLParam(r, w, "room", "room")
	if !ok {
		return
	}

	room, err := h.rooms.GetRoom(r.Context(), name)
	if err != nil {
		respondRoomError(w, err, "failed to get room")
		return
	}

	respondJSON(w, roomResponse(room), http.StatusOK)
}

// Delete handles DELETE /api/rooms/{room}, disconnecting everyone in
// the room.
func (h *RoomsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name, ok := validateURLParam(r, w, "room", "room")
	if !ok {
		return
	}

	if err := h.rooms.DeleteRoom(r.Context(), name); err != nil {
		respondRoomError(w, err, "failed to delete room")
		return
	}

	respondJSON(w, map[string]string{"status": "deleted"}, http.StatusOK)
}

// Notify handles POST /api/rooms/{room}/notify. The event goes to the
// room's participants over the reliable data channel and is mirrored to
// call-notify WebSocket subscribers.
func (h *RoomsHandler) Notify(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	caller := middleware.GetUserID(r.Context())

	roomName, ok := validateURLParam(r, w, "room", "room")
	if !ok {
		return
	}

	req, ok := decodeJSON[dto.NotifyRequest](r, w)
	if !ok {
		return
	}

	if req.Event == "" {
		respondError(w, "event is required", http.StatusBadRequest)
		return
	}

	event := &ports.CallEvent{
		Type:    req.Event,
		Room:    roomName,
		Caller:  caller,
		Payload: req.Payload,
		At:      time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		respondError(w, "failed to encode event", http.StatusInternalServerError)
		return
	}

	if err := h.rooms.SendData(r.Context(), roomName, data, req.To); err != nil {
		respondRoomError(w, err, "failed to send event")
		return
	}

	if len(req.To) > 0 {
		for _, identity := range req.To {
			h.notifier.NotifyUser(identity, event)
		}
	} else {
		h.notifier.NotifyAll(event)
	}

	respondJSON(w, map[string]string{"status": "sent"}, http.StatusOK)
}

// respondRoomError maps room service failures onto the API contract.
func respondRoomError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, ports.ErrRoomAPIUnavailable):
		respondError(w, "room API is not configured", http.StatusServiceUnavailable)
	case errors.Is(err, ports.ErrRoomNotFound):
		respondError(w, "room not found", http.StatusNotFound)
	default:
		log.Printf("%s: %v", message, err)
		respondError(w, message, http.StatusInternalServerError)
	}
}

func roomResponse(room *ports.Room) *dto.RoomResponse {
	participants := make([]dto.ParticipantResponse, 0, len(room.Participants))
	for _, p := range room.Participants {
		participants = append(participants, dto.ParticipantResponse{
			SID:      p.SID,
			Identity: p.Identity,
			Name:     p.Name,
		})
	}

	return &dto.RoomResponse{
		Room:            room.Name,
		SID:             room.SID,
		MaxParticipants: room.MaxParticipants,
		CreatedAt:       room.CreatedAt,
		Participants:    participants,
	}
}
