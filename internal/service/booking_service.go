package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/navikt/roomalloc/internal/allocation"
	"github.com/navikt/roomalloc/internal/models"
	"github.com/navikt/roomalloc/internal/repository"
	"github.com/sirupsen/logrus"
)

// ErrUnknownRoom is returned for room ids that do not exist in the building
var ErrUnknownRoom = errors.New("room does not exist")

// BookingUpdateCallback is a function type for state update callbacks
type BookingUpdateCallback func(models.UpdateEvent)

// BookingService provides business logic for allocating rooms.
// Mutations hold mu across the session change, the history write and the
// notification, so history and updates follow the same order as the session.
type BookingService struct {
	mu              sync.Mutex
	session         *allocation.Session
	repo            repository.Repository
	callbacksMu     sync.RWMutex
	updateCallbacks []BookingUpdateCallback
}

// NewBookingService creates a new BookingService for the session, recording bookings in repo
func NewBookingService(session *allocation.Session, repo repository.Repository) *BookingService {
	return &BookingService{
		session:         session,
		repo:            repo,
		updateCallbacks: make([]BookingUpdateCallback, 0),
	}
}

// RegisterUpdateCallback registers a callback function to be called when the building state changes
func (s *BookingService) RegisterUpdateCallback(callback BookingUpdateCallback) {
	s.callbacksMu.Lock()
	defer s.callbacksMu.Unlock()

	s.updateCallbacks = append(s.updateCallbacks, callback)
}

// notifyUpdate calls all registered callbacks with the event
func (s *BookingService) notifyUpdate(event models.UpdateEvent) {
	s.callbacksMu.RLock()
	callbacks := append([]BookingUpdateCallback(nil), s.updateCallbacks...)
	s.callbacksMu.RUnlock()

	for _, callback := range callbacks {
		callback(event)
	}
}

// Book allocates n rooms using the same-floor-first policy
func (s *BookingService) Book(ctx context.Context, n int) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, err := s.session.Book(n)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"requested": n,
			"limit":     s.session.MaxRoomsPerBooking(),
		}).WithError(err).Warn("Booking rejected")
		return nil, err
	}

	s.record(ctx, booking)
	s.notifyUpdate(models.NewUpdateEvent(models.UpdateBooked, booking, booking.CreatedAt))
	return booking, nil
}

// Randomize occupies up to n random rooms
func (s *BookingService) Randomize(ctx context.Context, n int) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, err := s.session.Randomize(n)
	if err != nil {
		logrus.WithField("requested", n).WithError(err).Warn("Random occupancy rejected")
		return nil, err
	}

	s.record(ctx, booking)
	s.notifyUpdate(models.NewUpdateEvent(models.UpdateRandomized, booking, booking.CreatedAt))
	return booking, nil
}

// record logs a committed booking and appends it to the history.
// History failures are logged only; the booking itself already happened.
func (s *BookingService) record(ctx context.Context, booking *models.Booking) {
	entry := logrus.WithFields(logrus.Fields{
		"booking":     booking.ID,
		"requested":   booking.Requested,
		"allocated":   len(booking.Rooms),
		"policy":      booking.Policy,
		"rooms":       booking.Rooms,
		"travel_time": booking.TravelTime,
	})
	if booking.Partial() {
		entry.WithField("shortfall", booking.Shortfall()).Warn("Booking partially fulfilled")
	} else {
		entry.Info("Rooms booked")
	}

	if err := s.repo.AppendBooking(ctx, booking); err != nil {
		logrus.WithField("booking", booking.ID).WithError(err).Error("Error saving booking history")
	}
}

// Reset frees every room and clears the booking history
func (s *BookingService) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.Reset()

	if err := s.repo.ClearBookings(ctx); err != nil {
		logrus.WithError(err).Error("Error clearing booking history")
	}

	logrus.Info("Building reset")
	s.notifyUpdate(models.NewUpdateEvent(models.UpdateReset, nil, s.session.Now()))
}

// RoomStatus returns the display status of a room
func (s *BookingService) RoomStatus(room models.RoomID) (models.RoomStatus, error) {
	if !s.session.Building().Contains(room) {
		return "", fmt.Errorf("room %d: %w", room, ErrUnknownRoom)
	}
	return s.session.Status(room), nil
}

// TravelTime returns the travel cost between two existing rooms
func (s *BookingService) TravelTime(from, to models.RoomID) (int, error) {
	b := s.session.Building()
	for _, r := range []models.RoomID{from, to} {
		if !b.Contains(r) {
			return 0, fmt.Errorf("room %d: %w", r, ErrUnknownRoom)
		}
	}
	return allocation.TravelTime(from, to), nil
}

// Grid returns the status of every room, top floor first
func (s *BookingService) Grid() []models.FloorView {
	return s.session.Grid()
}

// Latest returns the most recent booking, or nil
func (s *BookingService) Latest() *models.Booking {
	return s.session.Latest()
}

// AvailableCount returns the number of free rooms
func (s *BookingService) AvailableCount() int {
	return s.session.AvailableCount()
}

// MaxRoomsPerBooking returns the booking size limit
func (s *BookingService) MaxRoomsPerBooking() int {
	return s.session.MaxRoomsPerBooking()
}

// History returns the bookings made since the last reset, newest first
func (s *BookingService) History(ctx context.Context) ([]*models.Booking, error) {
	bookings, err := s.repo.ListBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list booking history: %w", err)
	}
	return bookings, nil
}

// GetBooking returns a booking from the history
func (s *BookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", id, err)
	}
	return booking, nil
}

// Ready reports whether the service's dependencies are reachable
func (s *BookingService) Ready(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
