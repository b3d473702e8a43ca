package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/navikt/roomalloc/internal/models"
	"github.com/navikt/roomalloc/internal/utils"
	"github.com/sirupsen/logrus"
)

var errInvalidCount = errors.New("count is not a whole number")

// CountRequest is the body of booking and random occupancy requests.
// Count may be a JSON number or a numeric string.
type CountRequest struct {
	Count json.RawMessage `json:"count"`
}

// BookingResponse describes an allocation result
type BookingResponse struct {
	ID         string                  `json:"id"`
	Rooms      []models.RoomID         `json:"rooms"`
	Requested  int                     `json:"requested"`
	Allocated  int                     `json:"allocated"`
	Policy     models.AllocationPolicy `json:"policy"`
	TravelTime int                     `json:"travel_time"`
	Partial    bool                    `json:"partial"`
	Shortfall  int                     `json:"shortfall,omitempty"`
	CreatedAt  time.Time               `json:"created_at"`
}

// HistoryResponse lists bookings newest first
type HistoryResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

func newBookingResponse(b *models.Booking) BookingResponse {
	return BookingResponse{
		ID:         b.ID,
		Rooms:      b.Rooms,
		Requested:  b.Requested,
		Allocated:  len(b.Rooms),
		Policy:     b.Policy,
		TravelTime: b.TravelTime,
		Partial:    b.Partial(),
		Shortfall:  b.Shortfall(),
		CreatedAt:  b.CreatedAt,
	}
}

// BookingHandler handles HTTP requests that change or report allocations
type BookingHandler struct {
	svc BookingServicer
}

// NewBookingHandler creates a new booking handler with the given service
func NewBookingHandler(svc BookingServicer) *BookingHandler {
	return &BookingHandler{
		svc: svc,
	}
}

// ServeHTTP handles HTTP requests for booking management
func (h *BookingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Path format: /api/bookings/{bookingID}
	var bookingID string
	if rest, ok := strings.CutPrefix(r.URL.Path, "/api/bookings/"); ok {
		bookingID = rest
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/bookings":
		h.book(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/api/occupancy/random":
		h.randomize(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/api/reset":
		h.reset(w, r)
	case r.Method == http.MethodGet && bookingID == "latest":
		h.latest(w, r)
	case r.Method == http.MethodGet && bookingID == "history":
		h.history(w, r)
	case r.Method == http.MethodGet && bookingID != "":
		h.getBooking(w, r, bookingID)
	case r.Method != http.MethodGet && r.Method != http.MethodPost:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
	default:
		http.NotFound(w, r)
	}
}

// book handles POST /api/bookings
func (h *BookingHandler) book(w http.ResponseWriter, r *http.Request) {
	n, err := readCount(r)
	if err != nil {
		writeServiceError(w, err, h.svc.MaxRoomsPerBooking())
		return
	}

	booking, err := h.svc.Book(r.Context(), n)
	if err != nil {
		writeServiceError(w, err, h.svc.MaxRoomsPerBooking())
		return
	}

	writeJSON(w, http.StatusCreated, newBookingResponse(booking))
}

// randomize handles POST /api/occupancy/random
func (h *BookingHandler) randomize(w http.ResponseWriter, r *http.Request) {
	n, err := readCount(r)
	if err != nil {
		writeServiceError(w, err, h.svc.MaxRoomsPerBooking())
		return
	}

	booking, err := h.svc.Randomize(r.Context(), n)
	if err != nil {
		writeServiceError(w, err, h.svc.MaxRoomsPerBooking())
		return
	}

	writeJSON(w, http.StatusCreated, newBookingResponse(booking))
}

// reset handles POST /api/reset
func (h *BookingHandler) reset(w http.ResponseWriter, r *http.Request) {
	h.svc.Reset(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// latest handles GET /api/bookings/latest
func (h *BookingHandler) latest(w http.ResponseWriter, r *http.Request) {
	booking := h.svc.Latest()
	if booking == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, newBookingResponse(booking))
}

// history handles GET /api/bookings/history
func (h *BookingHandler) history(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.svc.History(r.Context())
	if err != nil {
		writeServiceError(w, err, h.svc.MaxRoomsPerBooking())
		return
	}

	resp := HistoryResponse{Bookings: make([]BookingResponse, 0, len(bookings))}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, newBookingResponse(b))
	}
	writeJSON(w, http.StatusOK, resp)
}

// getBooking handles GET /api/bookings/{bookingID}
func (h *BookingHandler) getBooking(w http.ResponseWriter, r *http.Request, bookingID string) {
	booking, err := h.svc.GetBooking(r.Context(), bookingID)
	if err != nil {
		writeServiceError(w, err, h.svc.MaxRoomsPerBooking())
		return
	}

	writeJSON(w, http.StatusOK, newBookingResponse(booking))
}

// readCount decodes the requested room count from the request body
func readCount(r *http.Request) (int, error) {
	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, 4096))
	if err != nil {
		return 0, errInvalidCount
	}

	var req CountRequest
	if err := json.Unmarshal(body, &req); err != nil {
		logrus.WithField("body", utils.SanitizeLogString(string(body))).Warn("Invalid count request body")
		return 0, errInvalidCount
	}

	n, err := parseCount(req.Count)
	if err != nil {
		logrus.WithField("count", utils.SanitizeLogString(string(req.Count))).Warn("Invalid room count")
		return 0, err
	}
	return n, nil
}

// parseCount accepts 3, "3" and " 3 "; anything else is invalid input
func parseCount(raw json.RawMessage) (int, error) {
	if len(raw) == 0 {
		return 0, errInvalidCount
	}

	text := string(raw)
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		text = s
	}

	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, errInvalidCount
	}
	return n, nil
}
