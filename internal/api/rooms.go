package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/navikt/roomalloc/internal/models"
)

// GridResponse is the full building display
type GridResponse struct {
	Floors    []models.FloorView `json:"floors"`
	Available int                `json:"available"`
}

// RoomStatusResponse describes a single room
type RoomStatusResponse struct {
	Room     models.RoomID     `json:"room"`
	Floor    int               `json:"floor"`
	Position int               `json:"position"`
	Status   models.RoomStatus `json:"status"`
}

// TravelTimeResponse is the cost of moving between two rooms
type TravelTimeResponse struct {
	From       models.RoomID `json:"from"`
	To         models.RoomID `json:"to"`
	TravelTime int           `json:"travel_time"`
}

// RoomHandler handles read-only room queries
type RoomHandler struct {
	svc BookingServicer
}

// NewRoomHandler creates a new room handler with the given service
func NewRoomHandler(svc BookingServicer) *RoomHandler {
	return &RoomHandler{
		svc: svc,
	}
}

// ServeHTTP handles HTTP requests for room queries
func (h *RoomHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	// Path format: /api/rooms/{roomID}
	roomPart, hasRoom := strings.CutPrefix(r.URL.Path, "/api/rooms/")

	switch {
	case r.URL.Path == "/api/rooms":
		h.grid(w, r)
	case r.URL.Path == "/api/travel-time":
		h.travelTime(w, r)
	case hasRoom && roomPart != "":
		h.roomStatus(w, r, roomPart)
	default:
		http.NotFound(w, r)
	}
}

// grid handles GET /api/rooms
func (h *RoomHandler) grid(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, GridResponse{
		Floors:    h.svc.Grid(),
		Available: h.svc.AvailableCount(),
	})
}

// roomStatus handles GET /api/rooms/{roomID}
func (h *RoomHandler) roomStatus(w http.ResponseWriter, r *http.Request, roomPart string) {
	room, ok := parseRoomID(roomPart)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_input", "Room must be a room number such as 101.")
		return
	}

	status, err := h.svc.RoomStatus(room)
	if err != nil {
		writeServiceError(w, err, h.svc.MaxRoomsPerBooking())
		return
	}

	writeJSON(w, http.StatusOK, RoomStatusResponse{
		Room:     room,
		Floor:    room.Floor(),
		Position: room.Position(),
		Status:   status,
	})
}

// travelTime handles GET /api/travel-time?from={roomID}&to={roomID}
func (h *RoomHandler) travelTime(w http.ResponseWriter, r *http.Request) {
	from, okFrom := parseRoomID(r.URL.Query().Get("from"))
	to, okTo := parseRoomID(r.URL.Query().Get("to"))
	if !okFrom || !okTo {
		writeError(w, http.StatusBadRequest, "invalid_input", "Both from and to must be room numbers.")
		return
	}

	cost, err := h.svc.TravelTime(from, to)
	if err != nil {
		writeServiceError(w, err, h.svc.MaxRoomsPerBooking())
		return
	}

	writeJSON(w, http.StatusOK, TravelTimeResponse{From: from, To: to, TravelTime: cost})
}

func parseRoomID(s string) (models.RoomID, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, false
	}
	return models.RoomID(n), true
}
