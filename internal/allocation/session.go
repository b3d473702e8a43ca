// Package allocation assigns free rooms to booking requests
package allocation

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/navikt/roomalloc/internal/building"
	"github.com/navikt/roomalloc/internal/models"
)

// DefaultMaxRoomsPerBooking is the largest party a single booking may request
const DefaultMaxRoomsPerBooking = 5

// Options configures a Session. Zero values select the defaults.
type Options struct {
	MaxRoomsPerBooking int
	Rand               *rand.Rand
	Now                func() time.Time
	NewID              func() string
}

// Session owns the availability state and latest booking of one building.
// All operations are serialized so each one is atomic with respect to the others.
type Session struct {
	mu            sync.Mutex
	building      *building.Building
	available     *building.Availability
	latest        *models.Booking
	maxPerBooking int
	rng           *rand.Rand
	now           func() time.Time
	newID         func() string
}

// NewSession creates a session with every room of the building free
func NewSession(b *building.Building, opts Options) *Session {
	s := &Session{
		building:      b,
		available:     building.NewAvailability(b),
		maxPerBooking: opts.MaxRoomsPerBooking,
		rng:           opts.Rand,
		now:           opts.Now,
		newID:         opts.NewID,
	}

	if s.maxPerBooking <= 0 {
		s.maxPerBooking = DefaultMaxRoomsPerBooking
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}

	return s
}

// Now returns the current time from the session clock
func (s *Session) Now() time.Time {
	return s.now()
}

// Building returns the layout the session allocates from
func (s *Session) Building() *building.Building {
	return s.building
}

// MaxRoomsPerBooking returns the booking size limit
func (s *Session) MaxRoomsPerBooking() int {
	return s.maxPerBooking
}

// Book allocates n rooms, preferring a contiguous run on the lowest floor that has one.
// When no floor has n free rooms it takes the n lowest-numbered free rooms in the
// building. If fewer than n rooms are free it books all of them; the returned
// booking then reports Partial.
func (s *Session) Book(n int) (*models.Booking, error) {
	if n <= 0 {
		return nil, ErrInvalidCount
	}
	if n > s.maxPerBooking {
		return nil, fmt.Errorf("%w: requested %d, limit is %d", ErrCapacityExceeded, n, s.maxPerBooking)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.available.Count() == 0 {
		return nil, ErrNoVacancy
	}

	rooms, policy := s.selectRooms(n)
	return s.commit(rooms, n, policy), nil
}

// selectRooms picks the rooms for a booking of n without changing state
func (s *Session) selectRooms(n int) ([]models.RoomID, models.AllocationPolicy) {
	for _, floor := range s.available.Floors() {
		if window := firstWindow(s.available.Floor(floor), n); window != nil {
			return window, models.PolicySameFloor
		}
	}

	all := s.available.All()
	if len(all) > n {
		all = all[:n]
	}
	return all, models.PolicyCrossFloor
}

// firstWindow returns the first n neighbouring entries of a floor's free list.
// Any n adjacent entries form a window, so the first one starts at the head.
func firstWindow(rooms []models.RoomID, n int) []models.RoomID {
	if len(rooms) < n {
		return nil
	}
	return rooms[:n]
}

// Randomize books min(n, free rooms) rooms picked uniformly at random.
// There is no per-booking limit and no floor preference.
func (s *Session) Randomize(n int) (*models.Booking, error) {
	if n <= 0 {
		return nil, ErrInvalidCount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.available.All()
	if len(all) == 0 {
		return nil, ErrNoVacancy
	}

	s.rng.Shuffle(len(all), func(i, j int) {
		all[i], all[j] = all[j], all[i]
	})

	return s.commit(all[:min(n, len(all))], n, models.PolicyRandom), nil
}

// commit removes the rooms from availability and records them as the latest booking.
// Must be called with s.mu held.
func (s *Session) commit(rooms []models.RoomID, requested int, policy models.AllocationPolicy) *models.Booking {
	selected := append([]models.RoomID(nil), rooms...)
	s.available.Remove(selected)

	booking := &models.Booking{
		ID:        s.newID(),
		Rooms:     selected,
		Requested: requested,
		Policy:    policy,
		CreatedAt: s.now(),
	}
	booking.TravelTime = TravelTime(booking.First(), booking.Last())

	s.latest = booking
	return booking.Clone()
}

// Reset frees every room and forgets the latest booking
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.available = building.NewAvailability(s.building)
	s.latest = nil
}

// Status returns how a room should be displayed.
// Rooms outside the building are reported as booked.
func (s *Session) Status(room models.RoomID) models.RoomStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.statusLocked(room)
}

func (s *Session) statusLocked(room models.RoomID) models.RoomStatus {
	if s.available.Contains(room) {
		return models.RoomStatusAvailable
	}
	if s.latest != nil && s.latest.Contains(room) {
		return models.RoomStatusBookedNow
	}
	return models.RoomStatusBooked
}

// Latest returns a copy of the most recent booking, or nil if there is none
func (s *Session) Latest() *models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.latest.Clone()
}

// Available returns a copy of the free rooms keyed by floor
func (s *Session) Available() map[int][]models.RoomID {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.available.Snapshot()
}

// AvailableCount returns the number of free rooms
func (s *Session) AvailableCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.available.Count()
}

// Grid returns the status of every room, top floor first
func (s *Session) Grid() []models.FloorView {
	s.mu.Lock()
	defer s.mu.Unlock()

	floors := s.building.Floors()
	grid := make([]models.FloorView, 0, len(floors))
	for i := len(floors) - 1; i >= 0; i-- {
		rooms := s.building.Rooms(floors[i])
		row := models.FloorView{
			Floor: floors[i],
			Rooms: make([]models.RoomView, len(rooms)),
		}
		for j, r := range rooms {
			row.Rooms[j] = models.RoomView{ID: r, Status: s.statusLocked(r)}
		}
		grid = append(grid, row)
	}
	return grid
}
