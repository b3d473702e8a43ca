// Package memory provides an in-memory implementation of the repository interface
package memory

import (
	"context"
	"sync"

	"github.com/navikt/roomalloc/internal/models"
)

// ErrNotFound is returned when a requested entity is not found
var ErrNotFound = models.ErrNotFound

// Repository implements the repository interface with in-memory storage
type Repository struct {
	bookings []*models.Booking // oldest first
	limit    int
	mu       sync.RWMutex
}

// NewRepository creates a new in-memory repository keeping at most limit bookings.
// A limit of 0 or less keeps everything.
func NewRepository(limit int) *Repository {
	return &Repository{
		bookings: make([]*models.Booking, 0),
		limit:    limit,
	}
}

// AppendBooking records a booking, dropping the oldest one when the limit is reached
func (r *Repository) AppendBooking(ctx context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bookings = append(r.bookings, booking.Clone())
	if r.limit > 0 && len(r.bookings) > r.limit {
		r.bookings = append([]*models.Booking(nil), r.bookings[len(r.bookings)-r.limit:]...)
	}

	return nil
}

// ListBookings returns the retained bookings, newest first
func (r *Repository) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bookings := make([]*models.Booking, 0, len(r.bookings))
	for i := len(r.bookings) - 1; i >= 0; i-- {
		bookings = append(bookings, r.bookings[i].Clone())
	}

	return bookings, nil
}

// GetBooking retrieves a booking by ID
func (r *Repository) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.bookings {
		if b.ID == id {
			return b.Clone(), nil
		}
	}

	return nil, ErrNotFound
}

// ClearBookings removes all bookings
func (r *Repository) ClearBookings(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bookings = make([]*models.Booking, 0)
	return nil
}

// Ping always succeeds for the in-memory store
func (r *Repository) Ping(ctx context.Context) error {
	return nil
}
