// Package repository defines interfaces for data storage
package repository

import (
	"context"

	"github.com/navikt/roomalloc/internal/models"
)

// Repository stores the log of bookings made since the last reset.
// It is a history for display only; availability is never rebuilt from it.
type Repository interface {
	AppendBooking(ctx context.Context, booking *models.Booking) error
	// ListBookings returns the retained bookings, newest first
	ListBookings(ctx context.Context) ([]*models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ClearBookings(ctx context.Context) error
	Ping(ctx context.Context) error
}
