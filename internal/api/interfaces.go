package api

import (
	"context"

	"github.com/navikt/roomalloc/internal/models"
)

// BookingServicer defines the interface for booking service operations needed by API handlers
type BookingServicer interface {
	Book(ctx context.Context, n int) (*models.Booking, error)
	Randomize(ctx context.Context, n int) (*models.Booking, error)
	Reset(ctx context.Context)

	RoomStatus(room models.RoomID) (models.RoomStatus, error)
	TravelTime(from, to models.RoomID) (int, error)
	Grid() []models.FloorView
	Latest() *models.Booking
	AvailableCount() int
	MaxRoomsPerBooking() int

	History(ctx context.Context) ([]*models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	Ready(ctx context.Context) error
}
