package api

import (
	"net/http"
)

// SetupRoutes configures the HTTP routes for the API
func SetupRoutes(svc BookingServicer) *http.ServeMux {
	mux := http.NewServeMux()

	// Health check endpoints for Kubernetes
	health := NewHealthHandler(svc)
	mux.HandleFunc("/health/live", health.Live)
	mux.HandleFunc("/health/ready", health.Ready)

	// Allocation endpoints
	bookingHandler := NewBookingHandler(svc)
	mux.Handle("/api/bookings", bookingHandler)
	mux.Handle("/api/bookings/", bookingHandler)
	mux.Handle("/api/occupancy/random", bookingHandler)
	mux.Handle("/api/reset", bookingHandler)

	// Room display endpoints
	roomHandler := NewRoomHandler(svc)
	mux.Handle("/api/rooms", roomHandler)
	mux.Handle("/api/rooms/", roomHandler)
	mux.Handle("/api/travel-time", roomHandler)

	return mux
}
